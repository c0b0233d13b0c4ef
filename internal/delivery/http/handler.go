package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
)

// SearchService is the slice of the usecase layer the handlers depend on.
type SearchService interface {
	Search(ctx context.Context, request *domain.SearchRequest) ([]domain.Product, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService SearchService) *Handler {
	return &Handler{searchService: searchService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// Search handles GET /api/v1/search?q=...&regions=us,uk&max=5
func (h *Handler) Search(c *gin.Context) {
	if h.searchService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "search service not configured"})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	regionCodes := []string{"us"}
	if raw := c.Query("regions"); raw != "" {
		regionCodes = strings.Split(raw, ",")
	}
	regions, err := domain.ParseRegions(regionCodes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxPerRegion := 0
	if raw := c.Query("max"); raw != "" {
		maxPerRegion, err = strconv.Atoi(raw)
		if err != nil || maxPerRegion <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter 'max' must be a positive integer"})
			return
		}
	}

	products, err := h.searchService.Search(c.Request.Context(), &domain.SearchRequest{
		Query:        query,
		Regions:      regions,
		MaxPerRegion: maxPerRegion,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) || errors.Is(err, domain.ErrNoRegions) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": domain.ErrNoProducts.Error(),
			"query": query,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"count":    len(products),
		"products": products,
	})
}
