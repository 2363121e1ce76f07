package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "mithqal/internal/errors"
	"mithqal/internal/logger"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
)

// snapshotService records point-in-time portfolio valuations.
type snapshotService struct {
	db               *gorm.DB
	portfolioService PortfolioServicer
	summaries        *summaryService
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB, portfolioService PortfolioServicer, priceService PriceServicer) SnapshotServicer {
	return &snapshotService{
		db:               db,
		portfolioService: portfolioService,
		summaries:        &summaryService{db: db, priceService: priceService},
	}
}

// ComputeAndRecordSnapshots values every active portfolio against the
// latest recorded prices and stores one snapshot per portfolio. A failure
// on one portfolio is logged and skipped so the rest still get recorded.
func (s *snapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (int, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	prices, err := s.summaries.priceService.GetLatestPrices()
	if err != nil {
		return 0, err
	}

	var portfolios []models.Portfolio
	if err := s.db.Where("is_active = ?", true).Find(&portfolios).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recorded := 0
	for i := range portfolios {
		summary, err := s.summaries.summarizePortfolio(portfolios[i].ID, prices)
		if err != nil {
			logger.Get().Errorf("Failed to value portfolio %d for snapshot: %v", portfolios[i].ID, err)
			continue
		}

		// Upsert: check for existing snapshot at same portfolio+time
		var existing models.PortfolioSnapshot
		result := s.db.Where("portfolio_id = ? AND recorded_at = ?", portfolios[i].ID, recordedAt).First(&existing)
		if result.Error == nil {
			if err := s.db.Model(&existing).Updates(map[string]interface{}{
				"current_value":     summary.CurrentValue,
				"net_cash_invested": summary.NetCashInvested,
				"realized_pl":       summary.TotalRealizedPL,
				"unrealized_pl":     summary.TotalUnrealizedPL,
			}).Error; err != nil {
				logger.Get().Errorf("Failed to update snapshot for portfolio %d: %v", portfolios[i].ID, err)
				continue
			}
		} else {
			snapshot := &models.PortfolioSnapshot{
				PortfolioID:     portfolios[i].ID,
				RecordedAt:      recordedAt,
				CurrentValue:    summary.CurrentValue,
				NetCashInvested: summary.NetCashInvested,
				RealizedPL:      summary.TotalRealizedPL,
				UnrealizedPL:    summary.TotalUnrealizedPL,
			}
			if err := s.db.Create(snapshot).Error; err != nil {
				logger.Get().Errorf("Failed to record snapshot for portfolio %d: %v", portfolios[i].ID, err)
				continue
			}
		}
		recorded++
	}

	return recorded, nil
}

// GetSnapshots returns a paginated slice of a portfolio's snapshots
// within [from, to], newest first. Zero bounds are open-ended.
func (s *snapshotService) GetSnapshots(userID, portfolioID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	if _, err := s.portfolioService.GetPortfolioByID(userID, portfolioID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.PortfolioSnapshot{}).Where("portfolio_id = ?", portfolioID)
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

	var snapshots []models.PortfolioSnapshot
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}
