package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/pagination"
	"mithqal/internal/services"
)

// PortfolioHandler handles portfolio-related requests
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	auditService     services.AuditServicer
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService services.PortfolioServicer, auditService services.AuditServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, auditService: auditService}
}

// CreatePortfolioRequest represents the request payload for creating a portfolio
type CreatePortfolioRequest struct {
	Name              string  `json:"name" binding:"required,max=100"`
	Description       string  `json:"description" binding:"max=500"`
	BaseCurrency      string  `json:"base_currency" binding:"omitempty,iso4217"`
	PriceDeviationPct float64 `json:"price_deviation_pct" binding:"omitempty,gte=0,lte=100"`
}

// UpdatePortfolioRequest represents the request payload for updating a portfolio
type UpdatePortfolioRequest struct {
	Name              string   `json:"name" binding:"max=100"`
	Description       string   `json:"description" binding:"max=500"`
	PriceDeviationPct *float64 `json:"price_deviation_pct" binding:"omitempty,gte=0,lte=100"`
}

// CreatePortfolio handles the creation of a new portfolio
// @Summary     Create a portfolio
// @Description Create a new metals portfolio for the authenticated user
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePortfolioRequest true "Portfolio details"
// @Success     201 {object} models.Portfolio "Portfolio created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(userID, req.Name, req.Description, req.BaseCurrency, req.PriceDeviationPct)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PORTFOLIO", "portfolio", portfolio.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "base_currency": portfolio.BaseCurrency})

	c.JSON(http.StatusCreated, gin.H{"portfolio": portfolio})
}

// GetPortfolios lists the user's portfolios
// @Summary     List portfolios
// @Description Get a paginated list of the authenticated user's portfolios
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Portfolio] "Portfolios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios [get]
func (h *PortfolioHandler) GetPortfolios(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.portfolioService.GetUserPortfolios(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPortfolio returns a single portfolio
// @Summary     Get a portfolio
// @Description Get one of the authenticated user's portfolios by ID
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} models.Portfolio "Portfolio"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
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

	portfolio, err := h.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// UpdatePortfolio updates a portfolio's settings
// @Summary     Update a portfolio
// @Description Update a portfolio's name, description, or validation threshold
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       request body UpdatePortfolioRequest true "Fields to update"
// @Success     200 {object} models.Portfolio "Portfolio updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [put]
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
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

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(userID, portfolioID, req.Name, req.Description, req.PriceDeviationPct)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PORTFOLIO", "portfolio", portfolioID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// DeletePortfolio soft-deletes a portfolio
// @Summary     Delete a portfolio
// @Description Soft-delete a portfolio and mark it inactive
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     204 "Portfolio deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id} [delete]
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
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

	if err := h.portfolioService.DeletePortfolio(userID, portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PORTFOLIO", "portfolio", portfolioID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
