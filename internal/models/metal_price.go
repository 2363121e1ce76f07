package models

import (
	"time"

	"mithqal/internal/metals"
	"mithqal/internal/uuid"

	"gorm.io/gorm"
)

// MetalPrice represents a spot price entry for a metal.
// This is immutable time-series data — no Base embed, no soft deletes.
type MetalPrice struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol     metals.Symbol `gorm:"not null;size:8;index:idx_metal_prices_symbol_time" json:"symbol"`
	PricePerOz float64       `gorm:"not null" json:"price_per_oz"`
	Currency   string        `gorm:"not null;default:'AED'" json:"currency"`
	Source     string        `gorm:"size:64" json:"source"`
	RecordedAt time.Time     `gorm:"not null;index:idx_metal_prices_symbol_time" json:"recorded_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *MetalPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
