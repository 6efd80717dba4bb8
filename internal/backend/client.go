package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/config"
	"github.com/koryushka0/shopfront/internal/domain"
	"github.com/koryushka0/shopfront/pkg/errors"
)

// Client talks to the remote order/review service: one fixed host, plain
// JSON, no auth headers, no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the order/review backend
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	// Normalize base URL - drop a trailing slash
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// OrderRequest is the POST /submit-order payload. Monetary fields are raw
// numbers, never locale-formatted strings.
type OrderRequest struct {
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Comment       string             `json:"comment"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"paymentMethod"`
	CashChange    string             `json:"cashChange"`
	Items         []domain.OrderItem `json:"items"`
	DeliveryCost  int                `json:"deliveryCost"`
	TotalPrice    int                `json:"totalPrice"`
}

// AddReviewRequest is the POST /add-review payload. Rating is present only
// for top-level reviews; ParentID only for replies.
type AddReviewRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Rating   *int   `json:"rating,omitempty"`
	ParentID *int   `json:"parent_id,omitempty"`
}

type addReviewResponse struct {
	Review *domain.Review `json:"review"`
}

type voteRequest struct {
	ReviewID int    `json:"review_id"`
	UserID   string `json:"user_id"`
	VoteType int    `json:"vote_type"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// SubmitOrder posts an order. A non-2xx status or transport failure is
// returned as an error carrying the server's message when one was given.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) error {
	var ack json.RawMessage
	return c.postJSON(ctx, "/submit-order", req, &ack)
}

// GetReviews fetches one page of the review listing.
func (c *Client) GetReviews(ctx context.Context, sortBy, userID string, page, limit int) (*domain.ReviewPage, error) {
	q := url.Values{}
	q.Set("sort", sortBy)
	q.Set("user_id", userID)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result domain.ReviewPage
	if err := c.getJSON(ctx, "/get-reviews?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetReplies fetches the flat reply list for a thread root.
func (c *Client) GetReplies(ctx context.Context, parentID int, userID string) ([]domain.Review, error) {
	q := url.Values{}
	q.Set("parent_id", strconv.Itoa(parentID))
	q.Set("user_id", userID)

	var replies []domain.Review
	if err := c.getJSON(ctx, "/get-replies?"+q.Encode(), &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// AddReview submits a review or reply. A nil result with nil error means
// the content was queued for moderation rather than published.
func (c *Client) AddReview(ctx context.Context, req AddReviewRequest) (*domain.Review, error) {
	var resp addReviewResponse
	if err := c.postJSON(ctx, "/add-review", req, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

// Vote records a vote and returns the server's authoritative aggregates.
// When the server omits the caller's vote state, the requested vote stands
// in for it.
func (c *Client) Vote(ctx context.Context, reviewID int, userID string, vote domain.VoteType) (*domain.VoteResult, error) {
	body := voteRequest{ReviewID: reviewID, UserID: userID, VoteType: int(vote)}

	var result struct {
		Upvotes    int  `json:"upvotes"`
		Downvotes  int  `json:"downvotes"`
		CallerVote *int `json:"caller_vote"`
	}
	if err := c.postJSON(ctx, "/vote", body, &result); err != nil {
		return nil, err
	}

	out := &domain.VoteResult{
		Upvotes:    result.Upvotes,
		Downvotes:  result.Downvotes,
		CallerVote: int(vote),
	}
	if result.CallerVote != nil {
		out.CallerVote = *result.CallerVote
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
			c.logger.Warn("Backend error without message",
				zap.Int("status", resp.StatusCode),
				zap.String("path", req.URL.Path),
			)
		}
		return &errors.ErrBackend{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
