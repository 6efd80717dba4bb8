package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/backend"
	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/pkg/errors"
)

// DefaultPageSize is the fixed review page size.
const DefaultPageSize = 10

// AnonymousName substitutes for an empty reviewer name.
const AnonymousName = "Anonymous"

// ReviewBackend is the backend surface the review flow needs.
type ReviewBackend interface {
	GetReviews(ctx context.Context, sortBy, userID string, page, limit int) (*domain.ReviewPage, error)
	GetReplies(ctx context.Context, parentID int, userID string) ([]domain.Review, error)
	AddReview(ctx context.Context, req backend.AddReviewRequest) (*domain.Review, error)
	Vote(ctx context.Context, reviewID int, userID string, vote domain.VoteType) (*domain.VoteResult, error)
}

// SubmitOutcome tells the caller whether submitted content is visible now
// or held for moderation.
type SubmitOutcome struct {
	Published *domain.Review `json:"published,omitempty"`
	Pending   bool           `json:"pending"`
}

type reviewService struct {
	backend    ReviewBackend
	reviewerID string
	logger     *zap.Logger

	mu       sync.Mutex
	current  []domain.Review         // the displayed page
	page     domain.ReviewPage       // paging metadata of the displayed page
	threads  map[int][]domain.Review // fetched replies by thread root
	expanded map[int]bool
}

// NewReviewService creates a new review service
func NewReviewService(rb ReviewBackend, reviewerID string, logger *zap.Logger) *reviewService {
	return &reviewService{
		backend:    rb,
		reviewerID: reviewerID,
		logger:     logger,
		threads:    make(map[int][]domain.Review),
		expanded:   make(map[int]bool),
	}
}

// ListPage fetches one page of reviews. The fetched page replaces the
// currently displayed list; thread caches survive since reply lists are
// keyed by review id, not by page.
func (s *reviewService) ListPage(ctx context.Context, sortBy string, page int) (*domain.ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	result, err := s.backend.GetReviews(ctx, sortBy, s.reviewerID, page, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = result.Reviews
	s.page = *result
	s.mu.Unlock()
	return result, nil
}

// Current returns the displayed page, including any locally spliced
// published reviews.
func (s *reviewService) Current() domain.ReviewPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.page
	out.Reviews = make([]domain.Review, len(s.current))
	copy(out.Reviews, s.current)
	return out
}

// SubmitReview posts a top-level review. Published content is spliced to
// the front of the current view; otherwise the outcome is pending
// moderation and nothing is inserted locally.
func (s *reviewService) SubmitReview(ctx context.Context, form ReviewForm) (*SubmitOutcome, error) {
	fields := make(map[string]string)
	text := strings.TrimSpace(form.Text)
	if text == "" {
		fields["text"] = "this field is required"
	}
	if form.Rating < 1 || form.Rating > 5 {
		fields["rating"] = "rating must be between 1 and 5"
	}
	validateLengths(form.Name, form.Text, fields)
	if len(fields) > 0 {
		return nil, &errors.ErrValidation{Fields: fields}
	}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = AnonymousName
	}

	rating := form.Rating
	review, err := s.backend.AddReview(ctx, backend.AddReviewRequest{
		Name:   name,
		Text:   form.Text,
		Rating: &rating,
	})
	if err != nil {
		return nil, err
	}

	if review == nil {
		return &SubmitOutcome{Pending: true}, nil
	}

	s.mu.Lock()
	s.current = append([]domain.Review{*review}, s.current...)
	s.mu.Unlock()
	return &SubmitOutcome{Published: review}, nil
}

// SubmitReply posts a reply. The parent id is re-targeted to the thread
// root, so replying to a reply still lands at depth one. A published reply
// is appended to the cached thread without a refetch.
func (s *reviewService) SubmitReply(ctx context.Context, form ReplyForm) (*SubmitOutcome, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(form.Name) == "" {
		fields["name"] = "this field is required"
	}
	if strings.TrimSpace(form.Text) == "" {
		fields["text"] = "this field is required"
	}
	validateLengths(form.Name, form.Text, fields)
	if len(fields) > 0 {
		return nil, &errors.ErrValidation{Fields: fields}
	}

	rootID := s.resolveThreadRoot(form.ParentID)

	review, err := s.backend.AddReview(ctx, backend.AddReviewRequest{
		Name:     form.Name,
		Text:     form.Text,
		ParentID: &rootID,
	})
	if err != nil {
		return nil, err
	}

	if review == nil {
		return &SubmitOutcome{Pending: true}, nil
	}

	s.mu.Lock()
	if cached, ok := s.threads[rootID]; ok {
		s.threads[rootID] = append(cached, *review)
	}
	for i := range s.current {
		if s.current[i].ID == rootID {
			s.current[i].ReplyCount++
			break
		}
	}
	s.mu.Unlock()
	return &SubmitOutcome{Published: review}, nil
}

// ToggleReplies expands or collapses a thread. The first expansion
// fetches; collapsing hides without refetching; a re-expansion reuses the
// cached replies, including any locally appended ones.
func (s *reviewService) ToggleReplies(ctx context.Context, rootID int) (bool, []domain.Review, error) {
	s.mu.Lock()
	if s.expanded[rootID] {
		s.expanded[rootID] = false
		s.mu.Unlock()
		return false, nil, nil
	}
	if cached, ok := s.threads[rootID]; ok {
		s.expanded[rootID] = true
		out := make([]domain.Review, len(cached))
		copy(out, cached)
		s.mu.Unlock()
		return true, out, nil
	}
	s.mu.Unlock()

	replies, err := s.backend.GetReplies(ctx, rootID, s.reviewerID)
	if err != nil {
		return false, nil, err
	}
	if replies == nil {
		replies = []domain.Review{}
	}

	s.mu.Lock()
	s.threads[rootID] = replies
	s.expanded[rootID] = true
	out := make([]domain.Review, len(replies))
	copy(out, replies)
	s.mu.Unlock()
	return true, out, nil
}

// Vote submits a vote and replaces the stored aggregates and the caller's
// vote from the server response; nothing is computed locally.
func (s *reviewService) Vote(ctx context.Context, reviewID int, vote domain.VoteType) (*domain.VoteResult, error) {
	if !vote.IsValid() {
		return nil, &errors.ErrValidation{Fields: map[string]string{
			"vote_type": "must be 1 or -1",
		}}
	}

	result, err := s.backend.Vote(ctx, reviewID, s.reviewerID, vote)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	applyVote(s.current, reviewID, result)
	for root := range s.threads {
		applyVote(s.threads[root], reviewID, result)
	}
	s.mu.Unlock()
	return result, nil
}

func (s *reviewService) resolveThreadRoot(parentID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.current {
		if r.ID == parentID {
			if r.ParentID != nil {
				return *r.ParentID
			}
			return r.ID
		}
	}
	for _, replies := range s.threads {
		for _, r := range replies {
			if r.ID == parentID && r.ParentID != nil {
				return *r.ParentID
			}
		}
	}
	return parentID
}

func validateLengths(name, text string, fields map[string]string) {
	if len([]rune(name)) > domain.MaxReviewNameLen {
		fields["name"] = "name is too long"
	}
	if len([]rune(text)) > domain.MaxReviewTextLen {
		fields["text"] = "text is too long"
	}
}

func applyVote(reviews []domain.Review, reviewID int, result *domain.VoteResult) {
	for i := range reviews {
		if reviews[i].ID == reviewID {
			reviews[i].Upvotes = result.Upvotes
			reviews[i].Downvotes = result.Downvotes
			reviews[i].CallerVote = result.CallerVote
			return
		}
	}
}
