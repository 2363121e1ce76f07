package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/pagination"
	"mithqal/internal/services"
)

// SnapshotHandler handles portfolio-snapshot requests
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService services.SnapshotServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// TriggerSnapshots values every active portfolio and records snapshots
// @Summary     Trigger snapshots
// @Description Compute and store a valuation snapshot for every active portfolio
// @Tags        snapshots
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Success     200 {object} map[string]interface{} "Number of snapshots recorded"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/snapshots [post]
func (h *SnapshotHandler) TriggerSnapshots(c *gin.Context) {
	recorded, err := h.snapshotService.ComputeAndRecordSnapshots(time.Now().UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": recorded})
}

// GetSnapshots lists a portfolio's valuation history
// @Summary     List snapshots
// @Description Get a paginated slice of a portfolio's valuation snapshots
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       from query string false "Earliest timestamp (RFC3339 or YYYY-MM-DD)"
// @Param       to query string false "Latest timestamp (RFC3339 or YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.PortfolioSnapshot] "Snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/snapshots [get]
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		to = parsed
	}

	result, err := h.snapshotService.GetSnapshots(userID, portfolioID, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
