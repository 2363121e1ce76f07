package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/metals"
	"mithqal/internal/pagination"
	"mithqal/internal/services"
)

// TransactionHandler handles metal-transaction requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionRequest represents the payload for creating, updating, or
// validating a metal transaction.
type TransactionRequest struct {
	Symbol       metals.Symbol       `json:"symbol" binding:"required,metal_symbol"`
	Side         metals.Side         `json:"side" binding:"required,trade_side"`
	TradeDate    string              `json:"trade_date" binding:"required"`
	Quantity     float64             `json:"quantity" binding:"required,gt=0"`
	QuantityUnit metals.QuantityUnit `json:"quantity_unit" binding:"required,quantity_unit"`
	Price        float64             `json:"price" binding:"required,gt=0"`
	PriceUnit    metals.PriceUnit    `json:"price_unit" binding:"required,price_unit"`
	Fees         float64             `json:"fees" binding:"gte=0"`
	Notes        string              `json:"notes" binding:"max=500"`
}

// candidate converts the request into the validator's input.
func (r *TransactionRequest) candidate() (metals.Candidate, error) {
	tradeDate, err := parseFlexibleTime(r.TradeDate)
	if err != nil {
		return metals.Candidate{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return metals.Candidate{
		Symbol:       r.Symbol,
		Side:         r.Side,
		TradeDate:    tradeDate,
		Quantity:     r.Quantity,
		QuantityUnit: r.QuantityUnit,
		Price:        r.Price,
		PriceUnit:    r.PriceUnit,
		Fees:         r.Fees,
	}, nil
}

// ValidationResponse returns the outcome of a pre-trade check along with
// the stored transaction, when one was written.
type ValidationResponse struct {
	Valid    bool                `json:"valid"`
	Errors   []metals.FieldError `json:"errors"`
	Warnings []string            `json:"warnings"`
}

// CreateTransaction records a buy or sell in a portfolio
// @Summary     Create a transaction
// @Description Record a metal buy or sell after pre-trade validation
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.MetalTransaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     422 {object} ValidationResponse "Failed pre-trade validation"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
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

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	candidate, err := req.candidate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, result, err := h.transactionService.CreateTransaction(userID, portfolioID, candidate, req.Notes)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionInvalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"validation": result})
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_METAL_TRANSACTION", "metal_transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol, "side": req.Side, "quantity": req.Quantity})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction, "validation": result})
}

// GetTransactions lists a portfolio's transactions
// @Summary     List transactions
// @Description Get a paginated, filtered list of a portfolio's transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       symbol query string false "Filter by metal symbol"
// @Param       side query string false "Filter by side (BUY or SELL)"
// @Param       from_date query string false "Earliest trade date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date query string false "Latest trade date (RFC3339 or YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.MetalTransaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetPortfolioTransactions(userID, portfolioID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("symbol"); v != "" {
		symbol := metals.Symbol(v)
		if !symbol.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid symbol, must be XAU, XAG, XPT, or XPD")
		}
		filter.Symbol = &symbol
	}

	if v := c.Query("side"); v != "" {
		side := metals.Side(v)
		if !side.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid side, must be BUY or SELL")
		}
		filter.Side = &side
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	return filter, nil
}

// GetTransaction returns a single transaction
// @Summary     Get a transaction
// @Description Get one transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.MetalTransaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction replaces a transaction's trade fields
// @Summary     Update a transaction
// @Description Replace a transaction's fields after re-validation
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction details"
// @Success     200 {object} models.MetalTransaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     422 {object} ValidationResponse "Failed pre-trade validation"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	candidate, err := req.candidate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, result, err := h.transactionService.UpdateTransaction(userID, transactionID, candidate, req.Notes)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionInvalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"validation": result})
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_METAL_TRANSACTION", "metal_transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol, "side": req.Side, "quantity": req.Quantity})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction, "validation": result})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Description Soft-delete a transaction; positions are re-derived from the rest
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_METAL_TRANSACTION", "metal_transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// ValidateTransaction runs the pre-trade checks without saving
// @Summary     Validate a transaction
// @Description Dry-run the pre-trade checks for a candidate transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       request body TransactionRequest true "Candidate transaction"
// @Success     200 {object} ValidationResponse "Validation outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolios/{id}/transactions/validate [post]
func (h *TransactionHandler) ValidateTransaction(c *gin.Context) {
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

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	candidate, err := req.candidate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ValidateCandidate(userID, portfolioID, candidate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"validation": result})
}
