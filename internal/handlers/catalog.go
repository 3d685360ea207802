package handlers

import (
	"errors"
	"net/http"

	"psymap-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only test catalog: configurations, test
// types and their question sets.
type CatalogHandler struct {
	log     *zap.Logger
	catalog repository.CatalogStore
}

func NewCatalogHandler(log *zap.Logger, catalog repository.CatalogStore) *CatalogHandler {
	return &CatalogHandler{log: log, catalog: catalog}
}

func (h *CatalogHandler) Configurations(c *gin.Context) {
	configs, err := h.catalog.ListActiveConfigurations(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list configurations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (h *CatalogHandler) Questions(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	testType, err := h.catalog.GetTestTypeBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown test type"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load test type", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	questions, err := h.catalog.ListActiveQuestions(ctx, testType.ID)
	if err != nil {
		h.log.Error("Failed to list questions", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"testType": testType, "questions": questions})
}
