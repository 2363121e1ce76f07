package models

import (
	"time"

	"mithqal/internal/metals"
)

// MetalTransaction is one raw buy or sell record exactly as entered:
// quantity and price keep the units the user traded in. Positions are
// never stored; they are re-derived by folding these records in
// trade-date order.
type MetalTransaction struct {
	Base
	PortfolioID  uint                `gorm:"not null;index:idx_metal_tx_portfolio_date" json:"portfolio_id"`
	Symbol       metals.Symbol       `gorm:"not null;size:8" json:"symbol"`
	Side         metals.Side         `gorm:"not null;size:8" json:"side"`
	TradeDate    time.Time           `gorm:"not null;index:idx_metal_tx_portfolio_date" json:"trade_date"`
	Quantity     float64             `gorm:"not null" json:"quantity"`
	QuantityUnit metals.QuantityUnit `gorm:"not null;size:8" json:"quantity_unit"`
	Price        float64             `gorm:"not null" json:"price"`
	PriceUnit    metals.PriceUnit    `gorm:"not null;size:16" json:"price_unit"`
	Fees         float64             `gorm:"not null;default:0" json:"fees"`
	Notes        string              `gorm:"size:500" json:"notes"`

	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"portfolio,omitempty"`
}

// Raw converts the stored record into the ledger's input type.
func (t *MetalTransaction) Raw() metals.RawTransaction {
	return metals.RawTransaction{
		ID:           t.ID,
		PortfolioID:  t.PortfolioID,
		Symbol:       t.Symbol,
		Side:         t.Side,
		TradeDate:    t.TradeDate,
		Quantity:     t.Quantity,
		QuantityUnit: t.QuantityUnit,
		Price:        t.Price,
		PriceUnit:    t.PriceUnit,
		Fees:         t.Fees,
		Notes:        t.Notes,
	}
}
