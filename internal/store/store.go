package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
)

// Storage keys. The store is a single JSON document holding every
// persisted collection under its own key.
const (
	KeyCart       = "cart"
	KeyWishlist   = "wishlist"
	KeyReviewerID = "reviewer_id"
)

// Store is a file-backed key/value document. Loads are total: a missing
// file, missing key or corrupt value yields the caller's zero collection
// rather than an error. Saves are synchronous and complete before the
// triggering call returns.
type Store struct {
	mu     sync.Mutex
	path   string
	doc    map[string]json.RawMessage
	logger *zap.Logger
}

// Open reads the document at path, creating an empty one in memory if the
// file is absent or unreadable.
func Open(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		doc:    make(map[string]json.RawMessage),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read state file, starting empty", zap.Error(err))
		}
		return s
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		logger.Warn("Corrupt state file, starting empty", zap.Error(err))
		s.doc = make(map[string]json.RawMessage)
	}
	return s
}

// Load decodes the value at key into out. Absent or corrupt values leave
// out untouched, so callers pass a pre-initialized default.
func (s *Store) Load(key string, out interface{}) {
	s.mu.Lock()
	raw, ok := s.doc[key]
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("Discarding corrupt stored value",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Save encodes value under key and rewrites the document. Encoding or write
// failures are logged, never surfaced: persistence here is best-effort by
// contract.
func (s *Store) Save(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to encode value for storage",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc[key] = raw
	s.flushLocked()
}

func (s *Store) flushLocked() {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode state document", zap.Error(err))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("Failed to create state directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Error("Failed to write state file", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("Failed to replace state file", zap.Error(err))
	}
}

// LoadCart returns the persisted cart, transparently upgrading the legacy
// shape (a plain array of product ids) to cart lines. An upgraded cart is
// re-saved immediately so the legacy shape is read at most once.
func (s *Store) LoadCart() []domain.CartLine {
	var lines []domain.CartLine

	s.mu.Lock()
	raw, ok := s.doc[KeyCart]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines
	}

	// Legacy shape: [1, 2, 3] becomes quantity-1 selected lines.
	var legacy []int
	if err := json.Unmarshal(raw, &legacy); err != nil {
		s.logger.Warn("Discarding corrupt stored cart", zap.Error(err))
		return nil
	}

	lines = make([]domain.CartLine, 0, len(legacy))
	for _, id := range legacy {
		lines = append(lines, domain.CartLine{ProductID: id, Quantity: 1, Selected: true})
	}
	s.logger.Info("Upgraded legacy cart", zap.Int("lines", len(lines)))
	s.SaveCart(lines)
	return lines
}

// SaveCart persists the cart lines.
func (s *Store) SaveCart(lines []domain.CartLine) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	s.Save(KeyCart, lines)
}

// LoadWishlist returns the persisted wishlist.
func (s *Store) LoadWishlist() domain.Wishlist {
	var w domain.Wishlist
	s.Load(KeyWishlist, &w)
	return w
}

// SaveWishlist persists the wishlist.
func (s *Store) SaveWishlist(w domain.Wishlist) {
	if w == nil {
		w = domain.Wishlist{}
	}
	s.Save(KeyWishlist, w)
}

// ReviewerID returns the anonymous reviewer identity, generating and
// persisting one on first use.
func (s *Store) ReviewerID() string {
	var id string
	s.Load(KeyReviewerID, &id)
	if id != "" {
		return id
	}
	id = uuid.New().String()
	s.Save(KeyReviewerID, id)
	return id
}
