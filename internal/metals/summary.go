package metals

// InstrumentSummary is the valuation of one instrument's final position,
// optionally marked to a live market price. CurrentValue, UnrealizedPL,
// and UnrealizedPLPct are nil when no price is available; everything else
// is populated from the position alone.
type InstrumentSummary struct {
	Symbol            Symbol   `json:"symbol"`
	Name              string   `json:"name"`
	HoldingOz         float64  `json:"holding_oz"`
	HoldingGrams      float64  `json:"holding_grams"`
	AverageCost       float64  `json:"average_cost"`
	CostBasis         float64  `json:"cost_basis"`
	CurrentValue      *float64 `json:"current_value"`
	UnrealizedPL      *float64 `json:"unrealized_pl"`
	UnrealizedPLPct   *float64 `json:"unrealized_pl_pct"`
	RealizedPL        float64  `json:"realized_pl"`
	BreakEvenPrice    float64  `json:"break_even_price"`
	TotalBoughtCost   float64  `json:"total_bought_cost"`
	TotalSoldProceeds float64  `json:"total_sold_proceeds"`
}

// PortfolioSummary aggregates instrument summaries into portfolio-wide
// totals. TotalUnrealizedPL is nil when any instrument lacks a price.
type PortfolioSummary struct {
	TotalBuys         float64             `json:"total_buys"`
	NetCashInvested   float64             `json:"net_cash_invested"`
	CurrentValue      float64             `json:"current_value"`
	TotalRealizedPL   float64             `json:"total_realized_pl"`
	TotalUnrealizedPL *float64            `json:"total_unrealized_pl"`
	TotalReturnPct    float64             `json:"total_return_pct"`
	Instruments       []InstrumentSummary `json:"instruments"`
}

// CalculateInstrumentSummary values a final position against an optional
// latest price in currency per ounce. A nil price leaves the market-value
// fields nil; it never produces NaN or Inf.
func CalculateInstrumentSummary(symbol Symbol, name string, pos Position, latestPricePerOz *float64) InstrumentSummary {
	s := InstrumentSummary{
		Symbol:            symbol,
		Name:              name,
		HoldingOz:         pos.HoldingOz,
		HoldingGrams:      OzToGrams(pos.HoldingOz),
		AverageCost:       pos.AverageCost,
		CostBasis:         pos.CostBasis,
		RealizedPL:        pos.RealizedPL,
		BreakEvenPrice:    pos.AverageCost,
		TotalBoughtCost:   pos.TotalBoughtCost,
		TotalSoldProceeds: pos.TotalSoldProceeds,
	}

	if latestPricePerOz == nil {
		return s
	}

	value := pos.HoldingOz * *latestPricePerOz
	unrealized := value - pos.CostBasis
	pct := 0.0
	if pos.CostBasis > 0 {
		pct = unrealized / pos.CostBasis * 100
	}

	s.CurrentValue = &value
	s.UnrealizedPL = &unrealized
	s.UnrealizedPLPct = &pct
	return s
}

// CalculatePortfolioSummary sums instrument summaries into portfolio
// totals. Instruments without a live price contribute their cost basis to
// the current value so the total stays defined, and any missing price
// makes the total unrealized P/L nil.
func CalculatePortfolioSummary(instruments []InstrumentSummary) PortfolioSummary {
	p := PortfolioSummary{Instruments: instruments}
	if p.Instruments == nil {
		p.Instruments = []InstrumentSummary{}
	}

	totalUnrealized := 0.0
	allPriced := true

	for _, inst := range instruments {
		p.TotalBuys += inst.TotalBoughtCost
		p.NetCashInvested += inst.TotalBoughtCost - inst.TotalSoldProceeds
		p.TotalRealizedPL += inst.RealizedPL

		if inst.CurrentValue != nil {
			p.CurrentValue += *inst.CurrentValue
		} else {
			p.CurrentValue += inst.CostBasis
		}

		if inst.UnrealizedPL != nil {
			totalUnrealized += *inst.UnrealizedPL
		} else {
			allPriced = false
		}
	}

	if allPriced {
		p.TotalUnrealizedPL = &totalUnrealized
	}

	if p.NetCashInvested > 0 {
		unrealized := 0.0
		if p.TotalUnrealizedPL != nil {
			unrealized = *p.TotalUnrealizedPL
		}
		p.TotalReturnPct = (p.TotalRealizedPL + unrealized) / p.NetCashInvested * 100
	}

	return p
}
