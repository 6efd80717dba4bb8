package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koryushka0/shopfront/internal/catalog"
	"github.com/koryushka0/shopfront/internal/domain"
)

// HandleListProducts handles GET /v1/products
func HandleListProducts(cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := catalog.Query{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			SortBy:   c.Query("sort"),
		}
		if raw := c.Query("min_price"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
				return
			}
			query.MinPrice = &v
		}
		if raw := c.Query("max_price"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
				return
			}
			query.MaxPrice = &v
		}

		products := cat.Find(query)
		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"count":    len(products),
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, ok := cat.Lookup(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleSearchSuggest handles GET /v1/products/search, the live-search
// suggestion box: at most a handful of name matches plus the total count.
func HandleSearchSuggest(cat *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		matches, total := cat.Suggest(c.Query("q"))
		if matches == nil {
			// Short queries yield an empty list, not an error.
			matches = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{
			"suggestions": matches,
			"total":       total,
		})
	}
}
