// Package provider fetches spot prices for precious metals from external
// market-data feeds.
package provider

import (
	"context"
	"fmt"
	"time"

	"mithqal/internal/metals"
)

// SpotPrice is a successfully fetched spot price for one metal, already
// converted to the app's valuation currency per troy ounce.
type SpotPrice struct {
	Symbol     metals.Symbol
	PricePerOz float64
	Currency   string
	RecordedAt time.Time
}

// FetchError represents a failed price fetch for a specific metal.
type FetchError struct {
	Symbol metals.Symbol
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch spot price for %s: %v", e.Symbol, e.Err)
}

// Provider fetches current spot prices for a set of metals.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// FetchSpotPrices fetches current prices for the given metals.
	// It returns as many prices as possible, with per-metal errors for
	// the rest.
	FetchSpotPrices(ctx context.Context, symbols []metals.Symbol) ([]SpotPrice, []FetchError)
}
