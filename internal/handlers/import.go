package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/atlas/ingest/internal/errors"
	"github.com/stwalsh4118/atlas/ingest/internal/ingest"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
)

// CountyImporter runs the ingestion pipeline for one county.
type CountyImporter interface {
	ImportCounty(ctx context.Context, county source.County) (*ingest.Outcome, error)
}

// ImportHandler triggers county imports over HTTP.
type ImportHandler struct {
	importer CountyImporter
}

// NewImportHandler creates a new ImportHandler instance.
func NewImportHandler(importer CountyImporter) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportRequest is the body for POST /api/v1/import.
type ImportRequest struct {
	County string `json:"county" binding:"required"`
}

// ImportResponse summarizes a finished county import.
type ImportResponse struct {
	County           string   `json:"county"`
	Succeeded        int      `json:"succeeded"`
	SpatialWrites    int      `json:"spatial_writes"`
	NonSpatialWrites int      `json:"non_spatial_writes"`
	Skipped          int      `json:"skipped"`
	RepairFailures   int      `json:"repair_failures"`
	NullGeometries   int      `json:"null_geometries"`
	EmptyGeometries  int      `json:"empty_geometries"`
	FailedIDs        []string `json:"failed_ids,omitempty"`
}

// Import handles POST /api/v1/import.
// Runs the county's import synchronously and returns the outcome. Imports
// take minutes for the larger counties, so callers should set their timeouts
// accordingly.
func (h *ImportHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	county, err := source.Lookup(req.County)
	if err != nil {
		apierrors.NotFound(c, err.Error())
		return
	}

	outcome, err := h.importer.ImportCounty(c.Request.Context(), county)
	if err != nil {
		apierrors.InternalServerError(c, "County import failed", err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		County:           county.Name,
		Succeeded:        outcome.Succeeded,
		SpatialWrites:    outcome.SpatialWrites,
		NonSpatialWrites: outcome.NonSpatialWrites,
		Skipped:          outcome.Skipped,
		RepairFailures:   outcome.RepairFailures,
		NullGeometries:   outcome.NullGeometries,
		EmptyGeometries:  outcome.EmptyGeometries,
		FailedIDs:        outcome.FailedIDs(),
	})
}
