package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/api/handlers"
	"github.com/koryushka0/shopfront/internal/cart"
	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/config"
)

// Deps bundles everything the routes need.
type Deps struct {
	Catalog  *catalog.Catalog
	Engine   *cart.Engine
	Checkout handlers.CheckoutService
	Reviews  handlers.ReviewService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/products", handlers.HandleListProducts(deps.Catalog, logger))
		v1.GET("/products/search", handlers.HandleSearchSuggest(deps.Catalog, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(deps.Catalog, logger))

		v1.GET("/cart", handlers.HandleGetCart(deps.Engine, deps.Catalog, logger))
		v1.POST("/cart/items", handlers.HandleAddItem(deps.Engine, deps.Catalog, logger))
		v1.DELETE("/cart/items/:id", handlers.HandleRemoveItem(deps.Engine, deps.Catalog, logger))
		v1.POST("/cart/items/:id/quantity", handlers.HandleChangeQuantity(deps.Engine, deps.Catalog, logger))
		v1.POST("/cart/items/:id/selected", handlers.HandleSetSelected(deps.Engine, deps.Catalog, logger))
		v1.POST("/cart/selected", handlers.HandleSelectAll(deps.Engine, deps.Catalog, logger))
		v1.GET("/cart/summary", handlers.HandleGetSummary(deps.Engine, logger))

		v1.GET("/wishlist", handlers.HandleGetWishlist(deps.Engine, deps.Catalog, logger))
		v1.POST("/wishlist/toggle", handlers.HandleToggleWishlist(deps.Engine, logger))

		v1.POST("/checkout", handlers.HandleCheckout(deps.Checkout, logger))

		v1.GET("/reviews", handlers.HandleListReviews(deps.Reviews, logger))
		v1.POST("/reviews", handlers.HandleCreateReview(deps.Reviews, logger))
		v1.GET("/reviews/:id/replies", handlers.HandleToggleReplies(deps.Reviews, logger))
		v1.POST("/reviews/:id/vote", handlers.HandleVote(deps.Reviews, logger))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type"}
	return cfg
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
