package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/internal/service"
)

type stubReviews struct {
	page    *domain.ReviewPage
	outcome *service.SubmitOutcome
	vote    *domain.VoteResult
	err     error

	lastSort     string
	lastPage     int
	replySubmits []service.ReplyForm
}

func (s *stubReviews) ListPage(_ context.Context, sortBy string, page int) (*domain.ReviewPage, error) {
	s.lastSort, s.lastPage = sortBy, page
	return s.page, s.err
}

func (s *stubReviews) Current() domain.ReviewPage {
	if s.page == nil {
		return domain.ReviewPage{}
	}
	return *s.page
}

func (s *stubReviews) SubmitReview(_ context.Context, _ service.ReviewForm) (*service.SubmitOutcome, error) {
	return s.outcome, s.err
}

func (s *stubReviews) SubmitReply(_ context.Context, form service.ReplyForm) (*service.SubmitOutcome, error) {
	s.replySubmits = append(s.replySubmits, form)
	return s.outcome, s.err
}

func (s *stubReviews) ToggleReplies(_ context.Context, _ int) (bool, []domain.Review, error) {
	return true, nil, s.err
}

func (s *stubReviews) Vote(_ context.Context, _ int, _ domain.VoteType) (*domain.VoteResult, error) {
	return s.vote, s.err
}

func reviewsRouter(stub *stubReviews) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zap.NewNop()
	router.GET("/v1/reviews", HandleListReviews(stub, logger))
	router.POST("/v1/reviews", HandleCreateReview(stub, logger))
	router.GET("/v1/reviews/:id/replies", HandleToggleReplies(stub, logger))
	router.POST("/v1/reviews/:id/vote", HandleVote(stub, logger))
	return router
}

func TestHandleListReviews_Defaults(t *testing.T) {
	stub := &stubReviews{page: &domain.ReviewPage{CurrentPage: 1, TotalPages: 3}}
	router := reviewsRouter(stub)

	rec := doJSON(t, router, http.MethodGet, "/v1/reviews", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if stub.lastSort != "newest" || stub.lastPage != 1 {
		t.Fatalf("expected defaults newest/1, got %s/%d", stub.lastSort, stub.lastPage)
	}

	doJSON(t, router, http.MethodGet, "/v1/reviews?sort=rating&page=2", "")
	if stub.lastSort != "rating" || stub.lastPage != 2 {
		t.Fatalf("query params not forwarded: %s/%d", stub.lastSort, stub.lastPage)
	}
}

func TestHandleCreateReview_PublishedVsPending(t *testing.T) {
	published := &stubReviews{outcome: &service.SubmitOutcome{
		Published: &domain.Review{ID: 7, Name: "Oleg", Text: "Solid rod", Rating: 5},
	}}
	rec := doJSON(t, reviewsRouter(published), http.MethodPost, "/v1/reviews",
		`{"name":"Oleg","text":"Solid rod","rating":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("published review should be 201, got %d", rec.Code)
	}

	pending := &stubReviews{outcome: &service.SubmitOutcome{Pending: true}}
	rec = doJSON(t, reviewsRouter(pending), http.MethodPost, "/v1/reviews",
		`{"name":"Oleg","text":"Solid rod","rating":5}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("moderated review should be 202, got %d", rec.Code)
	}
}

func TestHandleCreateReview_ParentIDRoutesToReply(t *testing.T) {
	stub := &stubReviews{outcome: &service.SubmitOutcome{Pending: true}}
	router := reviewsRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/v1/reviews",
		`{"name":"Oleg","text":"Agreed","parent_id":12}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	if len(stub.replySubmits) != 1 || stub.replySubmits[0].ParentID != 12 {
		t.Fatalf("expected reply path with parent 12, got %+v", stub.replySubmits)
	}
}

func TestHandleToggleReplies_EmptySliceNotNull(t *testing.T) {
	router := reviewsRouter(&stubReviews{})

	rec := doJSON(t, router, http.MethodGet, "/v1/reviews/5/replies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"replies":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandleVote(t *testing.T) {
	router := reviewsRouter(&stubReviews{vote: &domain.VoteResult{Upvotes: 4, Downvotes: 1, CallerVote: 1}})

	rec := doJSON(t, router, http.MethodPost, "/v1/reviews/5/vote", `{"vote_type":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"upvotes":4`) {
		t.Fatalf("expected server aggregate in body: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/reviews/abc/vote", `{"vote_type":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad id, got %d", rec.Code)
	}
}
