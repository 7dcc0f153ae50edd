package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/atlas/ingest/internal/errors"
	"github.com/stwalsh4118/atlas/ingest/internal/repository"
)

// StatsProvider reads row counts from the parcels table.
type StatsProvider interface {
	Stats(ctx context.Context) (*repository.TableStats, error)
}

// StatsHandler serves ingestion statistics for the parcels table.
type StatsHandler struct {
	store StatsProvider
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(store StatsProvider) *StatsHandler {
	return &StatsHandler{store: store}
}

// Stats handles GET /api/v1/stats.
// Returns total, spatial/non-spatial, and per-county row counts.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read parcel statistics", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
