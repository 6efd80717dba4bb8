package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/cart"
	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/domain"
)

// AddItemRequest is the add-to-cart payload.
type AddItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

// ChangeQuantityRequest adjusts a line by one in either direction.
type ChangeQuantityRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// SetSelectedRequest toggles one line's checkbox.
type SetSelectedRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// SelectAllRequest is the bulk select-all checkbox.
type SelectAllRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// ToggleWishlistRequest flips wishlist membership.
type ToggleWishlistRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

// CartLineResponse is a cart line joined with its catalog product.
type CartLineResponse struct {
	ProductID int            `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Selected  bool           `json:"selected"`
	Product   domain.Product `json:"product"`
}

func cartResponse(engine *cart.Engine, cat *catalog.Catalog) gin.H {
	lines := engine.Lines()
	items := make([]CartLineResponse, 0, len(lines))
	for _, line := range lines {
		product, ok := cat.Lookup(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, CartLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Selected:  line.Selected,
			Product:   product,
		})
	}
	cartCount, wishlistCount := engine.Counts()
	return gin.H{
		"items":          items,
		"cart_count":     cartCount,
		"wishlist_count": wishlistCount,
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := engine.Add(req.ProductID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id
func HandleRemoveItem(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}
		engine.Remove(id)
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleChangeQuantity handles POST /v1/cart/items/:id/quantity
func HandleChangeQuantity(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req ChangeQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := engine.ChangeQuantity(id, cart.QuantityDirection(req.Direction)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleSetSelected handles POST /v1/cart/items/:id/selected
func HandleSetSelected(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req SetSelectedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := engine.SetSelected(id, *req.Selected); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleSelectAll handles POST /v1/cart/selected
func HandleSelectAll(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectAllRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		engine.SetAllSelected(*req.Selected)
		c.JSON(http.StatusOK, cartResponse(engine, cat))
	}
}

// HandleGetSummary handles GET /v1/cart/summary
func HandleGetSummary(engine *cart.Engine, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := domain.DeliveryMethod(c.DefaultQuery("delivery", string(domain.DeliveryCourier)))
		if !method.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery method"})
			return
		}
		c.JSON(http.StatusOK, engine.Summary(method))
	}
}

// HandleGetWishlist handles GET /v1/wishlist
func HandleGetWishlist(engine *cart.Engine, cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := engine.WishlistIDs()
		products := make([]domain.Product, 0, len(ids))
		for _, id := range ids {
			if product, ok := cat.Lookup(id); ok {
				products = append(products, product)
			}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// HandleToggleWishlist handles POST /v1/wishlist/toggle
func HandleToggleWishlist(engine *cart.Engine, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleWishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		// The new membership state drives the notification direction.
		added := engine.ToggleWishlist(req.ProductID)
		message := "removed from wishlist"
		if added {
			message = "added to wishlist"
		}
		c.JSON(http.StatusOK, gin.H{
			"in_wishlist": added,
			"message":     message,
		})
	}
}
