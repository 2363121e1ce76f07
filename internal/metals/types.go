package metals

import "time"

// Symbol identifies a tradable precious metal.
type Symbol string

const (
	SymbolGold      Symbol = "XAU"
	SymbolSilver    Symbol = "XAG"
	SymbolPlatinum  Symbol = "XPT"
	SymbolPalladium Symbol = "XPD"
)

// symbolNames maps symbols to display names.
var symbolNames = map[Symbol]string{
	SymbolGold:      "Gold",
	SymbolSilver:    "Silver",
	SymbolPlatinum:  "Platinum",
	SymbolPalladium: "Palladium",
}

// Valid reports whether s is one of the supported metal symbols.
func (s Symbol) Valid() bool {
	_, ok := symbolNames[s]
	return ok
}

// DisplayName returns a human-readable name for the symbol, or the raw
// symbol string when it is not a known metal.
func (s Symbol) DisplayName() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return string(s)
}

// Symbols returns all supported metal symbols.
func Symbols() []Symbol {
	return []Symbol{SymbolGold, SymbolSilver, SymbolPlatinum, SymbolPalladium}
}

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// QuantityUnit is the unit a trade quantity was entered in.
type QuantityUnit string

const (
	UnitOz   QuantityUnit = "OZ"
	UnitGram QuantityUnit = "GRAM"
)

// Valid reports whether the quantity unit is OZ or GRAM.
func (u QuantityUnit) Valid() bool {
	return u == UnitOz || u == UnitGram
}

// PriceUnit is the unit a trade price was entered in.
type PriceUnit string

const (
	PricePerOz   PriceUnit = "PER_OZ"
	PricePerGram PriceUnit = "PER_GRAM"
)

// Valid reports whether the price unit is PER_OZ or PER_GRAM.
func (u PriceUnit) Valid() bool {
	return u == PricePerOz || u == PricePerGram
}

// RawTransaction is one buy or sell record exactly as it was entered:
// quantity and price may be in any supported unit. Records are immutable
// inputs to the ledger; the fold never modifies them.
type RawTransaction struct {
	ID           uint         `json:"id"`
	PortfolioID  uint         `json:"portfolio_id"`
	Symbol       Symbol       `json:"symbol"`
	Side         Side         `json:"side"`
	TradeDate    time.Time    `json:"trade_date"`
	Quantity     float64      `json:"quantity"`
	QuantityUnit QuantityUnit `json:"quantity_unit"`
	Price        float64      `json:"price"`
	PriceUnit    PriceUnit    `json:"price_unit"`
	Fees         float64      `json:"fees"`
	Notes        string       `json:"notes,omitempty"`
}

// NormalizedTransaction is a RawTransaction reduced to canonical units:
// quantity in troy ounces, price in currency per ounce, and the signed
// cash effect of the trade.
type NormalizedTransaction struct {
	RawTransaction

	// QuantityOz is the trade quantity in troy ounces.
	QuantityOz float64 `json:"quantity_oz"`
	// PricePerOz is the trade price in currency per troy ounce.
	PricePerOz float64 `json:"price_per_oz"`
	// CashAmount is the total cash committed for a buy (gross plus
	// fees) or received for a sell (gross minus fees).
	CashAmount float64 `json:"cash_amount"`
}
