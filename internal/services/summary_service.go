package services

import (
	"gorm.io/gorm"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/metals"
	"mithqal/internal/models"
)

// summaryService answers valuation queries by folding the stored
// transaction history through the ledger engine on every call.
type summaryService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
	priceService     PriceServicer
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, portfolioService PortfolioServicer, priceService PriceServicer) SummaryServicer {
	return &summaryService{
		db:               db,
		portfolioService: portfolioService,
		priceService:     priceService,
	}
}

// GetInstrumentLedger returns the per-transaction ledger for one metal:
// every transaction with the position state after it was applied.
func (s *summaryService) GetInstrumentLedger(userID, portfolioID uint, symbol metals.Symbol) (*metals.History, error) {
	if !symbol.Valid() {
		return nil, apperrors.ErrUnknownMetal
	}
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	txs, err := orderedTransactions(s.db, portfolioID, symbol)
	if err != nil {
		return nil, err
	}

	history := metals.ProcessHistory(rawHistory(txs))
	return &history, nil
}

// GetInstrumentSummary returns the current position and P/L for one metal,
// marked to the latest recorded price when one exists.
func (s *summaryService) GetInstrumentSummary(userID, portfolioID uint, symbol metals.Symbol) (*metals.InstrumentSummary, error) {
	if !symbol.Valid() {
		return nil, apperrors.ErrUnknownMetal
	}
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	prices, err := s.priceService.GetLatestPrices()
	if err != nil {
		return nil, err
	}

	summary, err := s.instrumentSummary(portfolioID, symbol, prices)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// GetPortfolioSummary aggregates every metal's summary into portfolio-level
// totals. Metals with no transactions are omitted.
func (s *summaryService) GetPortfolioSummary(userID, portfolioID uint) (*metals.PortfolioSummary, error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	prices, err := s.priceService.GetLatestPrices()
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizePortfolio(portfolioID, prices)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// instrumentSummary folds one metal's history and marks it to the given
// price map.
func (s *summaryService) instrumentSummary(portfolioID uint, symbol metals.Symbol, prices map[metals.Symbol]float64) (*metals.InstrumentSummary, error) {
	txs, err := orderedTransactions(s.db, portfolioID, symbol)
	if err != nil {
		return nil, err
	}

	position := metals.ProcessHistory(rawHistory(txs)).FinalPosition

	var latest *float64
	if price, ok := prices[symbol]; ok {
		latest = &price
	}

	summary := metals.CalculateInstrumentSummary(symbol, symbol.DisplayName(), position, latest)
	return &summary, nil
}

// summarizePortfolio builds the aggregate summary for a portfolio against
// a price map. Shared by the summary endpoints and snapshotting.
func (s *summaryService) summarizePortfolio(portfolioID uint, prices map[metals.Symbol]float64) (*metals.PortfolioSummary, error) {
	var symbols []metals.Symbol
	if err := s.db.Model(&models.MetalTransaction{}).Where("portfolio_id = ?", portfolioID).
		Distinct("symbol").Order("symbol ASC").Pluck("symbol", &symbols).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	instruments := make([]metals.InstrumentSummary, 0, len(symbols))
	for _, symbol := range symbols {
		instrument, err := s.instrumentSummary(portfolioID, symbol, prices)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, *instrument)
	}

	summary := metals.CalculatePortfolioSummary(instruments)
	return &summary, nil
}
