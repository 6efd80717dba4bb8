package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/internal/service"
)

// CreateReviewRequest covers both top-level reviews and replies: a zero
// ParentID means top-level. Field-level validation lives in the review
// service so every error surfaces at once.
type CreateReviewRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	ParentID int    `json:"parent_id"`
}

// VoteRequest is a single up or down vote.
type VoteRequest struct {
	VoteType int `json:"vote_type" binding:"required"`
}

// HandleListReviews handles GET /v1/reviews
func HandleListReviews(reviews ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1
		if raw := c.Query("page"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
				return
			}
			page = v
		}

		result, err := reviews.ListPage(c.Request.Context(), c.DefaultQuery("sort", "newest"), page)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleCreateReview handles POST /v1/reviews
func HandleCreateReview(reviews ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var outcome *service.SubmitOutcome
		var err error
		if req.ParentID != 0 {
			outcome, err = reviews.SubmitReply(c.Request.Context(), service.ReplyForm{
				Name:     req.Name,
				Text:     req.Text,
				ParentID: req.ParentID,
			})
		} else {
			outcome, err = reviews.SubmitReview(c.Request.Context(), service.ReviewForm{
				Name:   req.Name,
				Text:   req.Text,
				Rating: req.Rating,
			})
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		status := http.StatusCreated
		if outcome.Pending {
			// Queued for moderation: nothing is visible yet.
			status = http.StatusAccepted
		}
		c.JSON(status, outcome)
	}
}

// HandleToggleReplies handles GET /v1/reviews/:id/replies. The endpoint is
// a toggle: expanding fetches (once), collapsing hides without a refetch.
func HandleToggleReplies(reviews ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
			return
		}

		visible, replies, err := reviews.ToggleReplies(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if replies == nil {
			replies = []domain.Review{}
		}
		c.JSON(http.StatusOK, gin.H{
			"visible": visible,
			"replies": replies,
		})
	}
}

// HandleVote handles POST /v1/reviews/:id/vote
func HandleVote(reviews ReviewService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
			return
		}

		var req VoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := reviews.Vote(c.Request.Context(), id, domain.VoteType(req.VoteType))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
