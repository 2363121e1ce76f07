package metals

import (
	"fmt"
	"math"
	"time"
)

// DefaultPriceDeviationPct is the relative deviation (in percent) between
// a submitted price and the latest market price beyond which the
// validator emits an advisory warning. Overridable per check via
// ValidationContext.
const DefaultPriceDeviationPct = 20.0

// Candidate is a possibly-partial transaction as submitted by a form or
// import, checked before it is accepted into the ledger. Zero values mean
// the field was not provided.
type Candidate struct {
	Symbol       Symbol       `json:"symbol"`
	Side         Side         `json:"side"`
	TradeDate    time.Time    `json:"trade_date"`
	Quantity     float64      `json:"quantity"`
	QuantityUnit QuantityUnit `json:"quantity_unit"`
	Price        float64      `json:"price"`
	PriceUnit    PriceUnit    `json:"price_unit"`
	Fees         float64      `json:"fees"`
}

// ValidationContext carries the state a pre-trade check runs against:
// the instrument's current holding, the latest known market price (nil
// when none has been recorded), and an optional deviation threshold
// override (zero means DefaultPriceDeviationPct).
type ValidationContext struct {
	CurrentHoldingOz  float64
	LatestPricePerOz  *float64
	PriceDeviationPct float64
}

// FieldError is a validation failure tagged with the offending field so a
// form can render it inline.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of a pre-trade check. Errors block
// submission; warnings are advisory only and never affect Valid.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Errors   []FieldError `json:"errors"`
	Warnings []string     `json:"warnings"`
}

// ValidateTransaction runs the pre-trade checks on a candidate: required
// fields, oversell against the current holding, and an advisory
// price-deviation warning against the latest market price. It is
// stateless and never mutates ledger state.
func ValidateTransaction(c Candidate, ctx ValidationContext) ValidationResult {
	result := ValidationResult{Errors: []FieldError{}, Warnings: []string{}}

	addError := func(field, message string) {
		result.Errors = append(result.Errors, FieldError{Field: field, Message: message})
	}

	if !c.Symbol.Valid() {
		addError("symbol", "a valid metal symbol is required")
	}
	if !c.Side.Valid() {
		addError("side", "side must be BUY or SELL")
	}
	if c.Quantity <= 0 {
		addError("quantity", "quantity must be greater than zero")
	}
	if !c.QuantityUnit.Valid() {
		addError("quantity_unit", "quantity unit must be OZ or GRAM")
	}
	if c.Price <= 0 {
		addError("price", "price must be greater than zero")
	}
	if !c.PriceUnit.Valid() {
		addError("price_unit", "price unit must be PER_OZ or PER_GRAM")
	}
	if c.Fees < 0 {
		addError("fees", "fees cannot be negative")
	}
	if c.TradeDate.IsZero() {
		addError("trade_date", "trade date is required")
	}

	// Oversell check, in the holding's unit (ounces).
	if c.Side == SideSell && c.Quantity > 0 && c.QuantityUnit.Valid() {
		qtyOz := c.Quantity
		if c.QuantityUnit == UnitGram {
			qtyOz = GramsToOz(c.Quantity)
		}
		if qtyOz > ctx.CurrentHoldingOz {
			addError("quantity", fmt.Sprintf(
				"cannot sell %.4f oz: only %.4f oz held", qtyOz, ctx.CurrentHoldingOz))
		}
	}

	// Advisory price sanity check against the latest market price.
	if ctx.LatestPricePerOz != nil && *ctx.LatestPricePerOz > 0 && c.Price > 0 && c.PriceUnit.Valid() {
		threshold := ctx.PriceDeviationPct
		if threshold <= 0 {
			threshold = DefaultPriceDeviationPct
		}

		pricePerOz := c.Price
		if c.PriceUnit == PricePerGram {
			pricePerOz = PricePerGramToPerOz(c.Price)
		}

		deviation := math.Abs(pricePerOz-*ctx.LatestPricePerOz) / *ctx.LatestPricePerOz * 100
		if deviation > threshold {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"price %.2f/oz deviates %.1f%% from the latest market price %.2f/oz",
				pricePerOz, deviation, *ctx.LatestPricePerOz))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
