package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mithqal/internal/metals"
	"mithqal/internal/services"
)

// SummaryHandler handles valuation and ledger requests
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetPortfolioSummary returns the portfolio-level valuation
// @Summary     Get portfolio summary
// @Description Get the portfolio's aggregate position, cash flow, and P/L
// @Tags        summaries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} metals.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/summary [get]
func (h *SummaryHandler) GetPortfolioSummary(c *gin.Context) {
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

	summary, err := h.summaryService.GetPortfolioSummary(userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetInstrumentSummary returns one metal's valuation
// @Summary     Get instrument summary
// @Description Get the current position and P/L for one metal in a portfolio
// @Tags        summaries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       symbol path string true "Metal symbol (XAU, XAG, XPT, XPD)"
// @Success     200 {object} metals.InstrumentSummary "Instrument summary"
// @Failure     400 {object} ErrorResponse "Unknown metal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/summary/{symbol} [get]
func (h *SummaryHandler) GetInstrumentSummary(c *gin.Context) {
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

	symbol := metals.Symbol(c.Param("symbol"))

	summary, err := h.summaryService.GetInstrumentSummary(userID, portfolioID, symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetInstrumentLedger returns one metal's per-transaction ledger
// @Summary     Get instrument ledger
// @Description Get every transaction for one metal with the position after each
// @Tags        summaries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       symbol path string true "Metal symbol (XAU, XAG, XPT, XPD)"
// @Success     200 {object} metals.History "Instrument ledger"
// @Failure     400 {object} ErrorResponse "Unknown metal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/ledger/{symbol} [get]
func (h *SummaryHandler) GetInstrumentLedger(c *gin.Context) {
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

	symbol := metals.Symbol(c.Param("symbol"))

	ledger, err := h.summaryService.GetInstrumentLedger(userID, portfolioID, symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ledger": ledger})
}
