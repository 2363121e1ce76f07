package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/metals"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
)

// transactionService handles metal-transaction business logic.
type transactionService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
	priceService     PriceServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, portfolioService PortfolioServicer, priceService PriceServicer) TransactionServicer {
	return &transactionService{
		db:               db,
		portfolioService: portfolioService,
		priceService:     priceService,
	}
}

// orderedTransactions fetches a portfolio's transactions for one metal in
// fold order: trade date ascending, entry order breaking ties.
func orderedTransactions(db *gorm.DB, portfolioID uint, symbol metals.Symbol) ([]models.MetalTransaction, error) {
	var txs []models.MetalTransaction
	if err := db.Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).
		Order("trade_date ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// rawHistory converts stored records into the ledger's input slice.
func rawHistory(txs []models.MetalTransaction) []metals.RawTransaction {
	raws := make([]metals.RawTransaction, 0, len(txs))
	for i := range txs {
		raws = append(raws, txs[i].Raw())
	}
	return raws
}

// currentHoldingOz re-derives the current holding for one metal by folding
// the full history, optionally excluding one transaction (used when that
// transaction is being replaced by an update).
func (s *transactionService) currentHoldingOz(portfolioID uint, symbol metals.Symbol, excludeID uint) (float64, error) {
	txs, err := orderedTransactions(s.db, portfolioID, symbol)
	if err != nil {
		return 0, err
	}

	raws := make([]metals.RawTransaction, 0, len(txs))
	for i := range txs {
		if txs[i].ID == excludeID {
			continue
		}
		raws = append(raws, txs[i].Raw())
	}

	return metals.ProcessHistory(raws).FinalPosition.HoldingOz, nil
}

// validate runs the pre-trade checks for a candidate against a portfolio's
// current holding, latest recorded price, and deviation threshold.
func (s *transactionService) validate(portfolio *models.Portfolio, candidate metals.Candidate, excludeID uint) (*metals.ValidationResult, error) {
	holding := 0.0
	if candidate.Symbol.Valid() {
		h, err := s.currentHoldingOz(portfolio.ID, candidate.Symbol, excludeID)
		if err != nil {
			return nil, err
		}
		holding = h
	}

	var latest *float64
	if candidate.Symbol.Valid() {
		price, err := s.priceService.GetLatestPrice(candidate.Symbol)
		if err == nil {
			latest = &price.PricePerOz
		} else if !errors.Is(err, apperrors.ErrPriceNotFound) {
			return nil, err
		}
	}

	result := metals.ValidateTransaction(candidate, metals.ValidationContext{
		CurrentHoldingOz:  holding,
		LatestPricePerOz:  latest,
		PriceDeviationPct: portfolio.PriceDeviationPct,
	})
	return &result, nil
}

// CreateTransaction validates and stores a new buy or sell record. An
// invalid candidate returns the validation result with ErrTransactionInvalid
// and writes nothing; warnings come back alongside the created record.
func (s *transactionService) CreateTransaction(userID, portfolioID uint, candidate metals.Candidate, notes string) (*models.MetalTransaction, *metals.ValidationResult, error) {
	portfolio, err := s.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.validate(portfolio, candidate, 0)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, apperrors.ErrTransactionInvalid
	}

	transaction := &models.MetalTransaction{
		PortfolioID:  portfolioID,
		Symbol:       candidate.Symbol,
		Side:         candidate.Side,
		TradeDate:    candidate.TradeDate,
		Quantity:     candidate.Quantity,
		QuantityUnit: candidate.QuantityUnit,
		Price:        candidate.Price,
		PriceUnit:    candidate.PriceUnit,
		Fees:         candidate.Fees,
		Notes:        notes,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, result, nil
}

// GetPortfolioTransactions returns a paginated, filtered list of a
// portfolio's transactions, newest trade first.
func (s *transactionService) GetPortfolioTransactions(userID, portfolioID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.MetalTransaction], error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.MetalTransaction{}).Where("portfolio_id = ?", portfolioID)
	if filter.Symbol != nil {
		base = base.Where("symbol = ?", *filter.Symbol)
	}
	if filter.Side != nil {
		base = base.Where("side = ?", *filter.Side)
	}
	if filter.FromDate != nil {
		base = base.Where("trade_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("trade_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.MetalTransaction
	if err := base.Order("trade_date DESC, id DESC").Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if its portfolio belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.MetalTransaction, error) {
	var transaction models.MetalTransaction
	if err := s.db.Preload("Portfolio").First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.Portfolio.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}

	return &transaction, nil
}

// UpdateTransaction replaces a record's trade fields after re-validating
// the candidate against the history with the old record excluded.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, candidate metals.Candidate, notes string) (*models.MetalTransaction, *metals.ValidationResult, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, nil, err
	}

	portfolio, err := s.portfolioService.GetPortfolioByID(userID, transaction.PortfolioID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.validate(portfolio, candidate, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, apperrors.ErrTransactionInvalid
	}

	updates := map[string]interface{}{
		"symbol":        candidate.Symbol,
		"side":          candidate.Side,
		"trade_date":    candidate.TradeDate,
		"quantity":      candidate.Quantity,
		"quantity_unit": candidate.QuantityUnit,
		"price":         candidate.Price,
		"price_unit":    candidate.PriceUnit,
		"fees":          candidate.Fees,
		"notes":         notes,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, result, nil
}

// DeleteTransaction soft-deletes a record. Positions are re-derived from
// what remains, so no stored state needs adjusting.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ValidateCandidate runs the pre-trade checks without writing anything,
// so forms can surface errors and warnings as the user types.
func (s *transactionService) ValidateCandidate(userID, portfolioID uint, candidate metals.Candidate) (*metals.ValidationResult, error) {
	portfolio, err := s.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}
	return s.validate(portfolio, candidate, 0)
}
