package models

// Portfolio groups a user's metal transactions under one valuation
// currency and validation settings.
type Portfolio struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	BaseCurrency string `gorm:"not null;default:'AED'" json:"base_currency"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// PriceDeviationPct overrides the advisory price-deviation threshold
	// used when validating new transactions. Zero means the default.
	PriceDeviationPct float64 `json:"price_deviation_pct"`

	Transactions []MetalTransaction `gorm:"foreignKey:PortfolioID" json:"transactions,omitempty"`
}
