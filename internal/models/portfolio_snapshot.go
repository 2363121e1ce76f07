package models

import (
	"time"

	"mithqal/internal/uuid"

	"gorm.io/gorm"
)

// PortfolioSnapshot is a point-in-time valuation of a portfolio, computed
// by re-folding the full transaction history against the prices on
// record. UnrealizedPL is null when any held metal had no price at the
// time the snapshot was taken.
type PortfolioSnapshot struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	PortfolioID     uint      `gorm:"not null;index:idx_snapshots_portfolio_time" json:"portfolio_id"`
	RecordedAt      time.Time `gorm:"not null;index:idx_snapshots_portfolio_time" json:"recorded_at"`
	CurrentValue    float64   `gorm:"not null" json:"current_value"`
	NetCashInvested float64   `gorm:"not null" json:"net_cash_invested"`
	RealizedPL      float64   `gorm:"not null" json:"realized_pl"`
	UnrealizedPL    *float64  `json:"unrealized_pl"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *PortfolioSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
