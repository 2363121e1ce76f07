package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/metals"
	"mithqal/internal/pagination"
	"mithqal/internal/services"
)

// PriceHandler handles spot-price requests
type PriceHandler struct {
	priceService services.PriceServicer
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService services.PriceServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// IngestPriceRequest represents a price entry pushed by the ingest pipeline
type IngestPriceRequest struct {
	Symbol     metals.Symbol `json:"symbol" binding:"required,metal_symbol"`
	PricePerOz float64       `json:"price_per_oz" binding:"required,gt=0"`
	Currency   string        `json:"currency" binding:"omitempty,iso4217"`
	Source     string        `json:"source" binding:"max=64"`
	RecordedAt string        `json:"recorded_at"`
}

// IngestPrice records a price pushed by an external pipeline
// @Summary     Ingest a spot price
// @Description Record a spot price entry; requires the pipeline API key
// @Tags        prices
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Param       request body IngestPriceRequest true "Price entry"
// @Success     201 {object} models.MetalPrice "Price recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/prices [post]
func (h *PriceHandler) IngestPrice(c *gin.Context) {
	var req IngestPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != "" {
		parsed, err := parseFlexibleTime(req.RecordedAt)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		recordedAt = parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = "AED"
	}
	source := req.Source
	if source == "" {
		source = "pipeline"
	}

	price, err := h.priceService.RecordPrice(req.Symbol, req.PricePerOz, currency, source, recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"price": price})
}

// RefreshPrices pulls fresh prices from the market-data feed
// @Summary     Refresh spot prices
// @Description Fetch current prices from the upstream feed and record them
// @Tags        prices
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Success     200 {object} map[string]interface{} "Refresh outcome"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/prices/refresh [post]
func (h *PriceHandler) RefreshPrices(c *gin.Context) {
	recorded, fetchErrs, err := h.priceService.RefreshSpotPrices(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	failures := make([]gin.H, 0, len(fetchErrs))
	for _, fe := range fetchErrs {
		failures = append(failures, gin.H{"symbol": fe.Symbol, "error": fe.Err.Error()})
	}

	c.JSON(http.StatusOK, gin.H{"recorded": recorded, "failures": failures})
}

// GetLatestPrices returns the latest price per metal
// @Summary     Get latest prices
// @Description Get the most recent recorded price per ounce for each metal
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]float64 "Latest prices by symbol"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /prices [get]
func (h *PriceHandler) GetLatestPrices(c *gin.Context) {
	prices, err := h.priceService.GetLatestPrices()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// GetPriceHistory returns a metal's recorded price history
// @Summary     Get price history
// @Description Get a paginated slice of one metal's price history
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Metal symbol (XAU, XAG, XPT, XPD)"
// @Param       from query string false "Earliest timestamp (RFC3339 or YYYY-MM-DD)"
// @Param       to query string false "Latest timestamp (RFC3339 or YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.MetalPrice] "Price history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /prices/{symbol} [get]
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	symbol := metals.Symbol(c.Param("symbol"))

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		to = parsed
	}

	result, err := h.priceService.GetPriceHistory(symbol, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
