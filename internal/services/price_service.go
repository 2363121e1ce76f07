package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/logger"
	"mithqal/internal/metals"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
	"mithqal/internal/provider"
)

// priceService handles spot-price business logic.
type priceService struct {
	db       *gorm.DB
	provider provider.Provider
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB, p provider.Provider) PriceServicer {
	return &priceService{db: db, provider: p}
}

// RecordPrice stores a spot-price entry as reported by a feed or the
// ingest pipeline. Price history is append-only.
func (s *priceService) RecordPrice(symbol metals.Symbol, pricePerOz float64, currency, source string, recordedAt time.Time) (*models.MetalPrice, error) {
	if !symbol.Valid() {
		return nil, apperrors.ErrUnknownMetal
	}
	if pricePerOz <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	price := &models.MetalPrice{
		Symbol:     symbol,
		PricePerOz: pricePerOz,
		Currency:   currency,
		Source:     source,
		RecordedAt: recordedAt,
	}
	if err := s.db.Create(price).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return price, nil
}

// GetLatestPrice returns the most recently recorded price for a metal.
func (s *priceService) GetLatestPrice(symbol metals.Symbol) (*models.MetalPrice, error) {
	if !symbol.Valid() {
		return nil, apperrors.ErrUnknownMetal
	}

	var price models.MetalPrice
	if err := s.db.Where("symbol = ?", symbol).
		Order("recorded_at DESC").First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPriceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &price, nil
}

// GetLatestPrices returns the latest recorded price per ounce for every
// metal that has at least one entry. Metals with no price are absent
// from the map; valuation treats them as unpriced rather than failing.
func (s *priceService) GetLatestPrices() (map[metals.Symbol]float64, error) {
	prices := make(map[metals.Symbol]float64)
	for _, symbol := range metals.Symbols() {
		price, err := s.GetLatestPrice(symbol)
		if err != nil {
			if errors.Is(err, apperrors.ErrPriceNotFound) {
				continue
			}
			return nil, err
		}
		prices[symbol] = price.PricePerOz
	}
	return prices, nil
}

// GetPriceHistory returns a paginated slice of a metal's price history
// within [from, to], newest first. Zero bounds are open-ended.
func (s *priceService) GetPriceHistory(symbol metals.Symbol, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MetalPrice], error) {
	if !symbol.Valid() {
		return nil, apperrors.ErrUnknownMetal
	}

	page.Defaults()

	base := s.db.Model(&models.MetalPrice{}).Where("symbol = ?", symbol)
	if !from.IsZero() {
		base = base.Where("recorded_at >= ?", from)
	}
	if !to.IsZero() {
		base = base.Where("recorded_at <= ?", to)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.MetalPrice
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).
		Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RefreshSpotPrices pulls current prices for all supported metals from
// the configured provider and records each one that succeeds. It returns
// the number recorded along with per-metal fetch failures; a partial
// refresh is not an error.
func (s *priceService) RefreshSpotPrices(ctx context.Context) (int, []provider.FetchError, error) {
	spots, fetchErrs := s.provider.FetchSpotPrices(ctx, metals.Symbols())

	recorded := 0
	for _, spot := range spots {
		if _, err := s.RecordPrice(spot.Symbol, spot.PricePerOz, spot.Currency, s.provider.Name(), spot.RecordedAt); err != nil {
			logger.Get().Errorf("Failed to record %s price from %s: %v", spot.Symbol, s.provider.Name(), err)
			return recorded, fetchErrs, err
		}
		recorded++
	}

	for _, fe := range fetchErrs {
		logger.Get().Warnf("Spot price fetch failed for %s: %v", fe.Symbol, fe.Err)
	}

	return recorded, fetchErrs, nil
}
