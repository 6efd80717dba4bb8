package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/internal/service"
	"github.com/koryushka0/shopfront/pkg/errors"
)

// CheckoutService is the checkout flow surface the handlers need.
type CheckoutService interface {
	Submit(ctx context.Context, form service.CheckoutForm) (*domain.OrderDraft, error)
	State() domain.CheckoutState
}

// ReviewService is the review flow surface the handlers need.
type ReviewService interface {
	ListPage(ctx context.Context, sortBy string, page int) (*domain.ReviewPage, error)
	Current() domain.ReviewPage
	SubmitReview(ctx context.Context, form service.ReviewForm) (*service.SubmitOutcome, error)
	SubmitReply(ctx context.Context, form service.ReplyForm) (*service.SubmitOutcome, error)
	ToggleReplies(ctx context.Context, rootID int) (bool, []domain.Review, error)
	Vote(ctx context.Context, reviewID int, vote domain.VoteType) (*domain.VoteResult, error)
}

// respondError maps the error taxonomy onto HTTP statuses: validation
// failures surface every field at once, backend failures pass the remote
// message through, and anything unrecognized is an internal error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": e.Fields,
		})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrSubmissionInFlight:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrBackend:
		message := e.Message
		if message == "" {
			message = "the order service is unavailable, please try again"
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
