package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
)

// Live search behavior: queries shorter than MinQueryLen return nothing,
// suggestions are capped at SuggestionLimit.
const (
	MinQueryLen     = 2
	SuggestionLimit = 5
)

// Sort keys for Find.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
)

// Catalog is the immutable in-memory product list. Reload swaps the whole
// list; readers always see one consistent snapshot.
type Catalog struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int]domain.Product
	logger   *zap.Logger
}

// New builds a catalog over the given products.
func New(products []domain.Product, logger *zap.Logger) *Catalog {
	c := &Catalog{logger: logger}
	c.replace(products)
	return c
}

// LoadFile reads a product list from a JSON file.
func LoadFile(path string, logger *zap.Logger) (*Catalog, error) {
	products, err := readProducts(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded catalog",
		zap.String("path", path),
		zap.Int("products", len(products)),
	)
	return New(products, logger), nil
}

func readProducts(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return products, nil
}

func (c *Catalog) replace(products []domain.Product) {
	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.mu.Unlock()
}

// Reload re-reads the catalog file and swaps the product list. The previous
// list survives a failed reload.
func (c *Catalog) Reload(path string) error {
	products, err := readProducts(path)
	if err != nil {
		return err
	}
	c.replace(products)
	c.logger.Info("Reloaded catalog", zap.Int("products", len(products)))
	return nil
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id int) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// All returns the full product list.
func (c *Catalog) All() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Query filters and orders the catalog.
type Query struct {
	Search   string
	Category string
	MinPrice *int
	MaxPrice *int
	SortBy   string
}

// Find applies the query's filters and sort to the product list.
func (c *Catalog) Find(q Query) []domain.Product {
	filtered := c.All()

	if q.Category != "" && q.Category != "all" {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Category == q.Category
		})
	}
	if q.MinPrice != nil {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Price >= *q.MinPrice
		})
	}
	if q.MaxPrice != nil {
		filtered = keep(filtered, func(p domain.Product) bool {
			return p.Price <= *q.MaxPrice
		})
	}
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		filtered = keep(filtered, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), search)
		})
	}

	switch q.SortBy {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortNameAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	}

	return filtered
}

// Suggest returns up to SuggestionLimit name matches for a live-search
// query, plus the total match count. Queries below MinQueryLen yield
// nothing.
func (c *Catalog) Suggest(query string) ([]domain.Product, int) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < MinQueryLen {
		return nil, 0
	}
	matches := keep(c.All(), func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query)
	})
	total := len(matches)
	if total > SuggestionLimit {
		matches = matches[:SuggestionLimit]
	}
	return matches, total
}

func keep(products []domain.Product, pred func(domain.Product) bool) []domain.Product {
	out := products[:0:0]
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
