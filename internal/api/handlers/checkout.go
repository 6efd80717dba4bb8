package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/service"
)

// CheckoutResponse acknowledges a submitted order. ResetAfterMS tells the
// caller how long to show the confirmation before resetting the UI.
type CheckoutResponse struct {
	ItemCount    int `json:"item_count"`
	Subtotal     int `json:"subtotal"`
	DeliveryCost int `json:"delivery_cost"`
	Total        int `json:"total"`
	ResetAfterMS int `json:"reset_after_ms"`
}

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(checkout CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.CheckoutForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		draft, err := checkout.Submit(c.Request.Context(), form)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{
			ItemCount:    len(draft.Items),
			Subtotal:     draft.Subtotal,
			DeliveryCost: draft.DeliveryCost,
			Total:        draft.Total,
			ResetAfterMS: int(service.SuccessResetDelay.Milliseconds()),
		})
	}
}
