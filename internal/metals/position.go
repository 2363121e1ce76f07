package metals

// Position is the running state of one instrument's holding, derived by
// folding its normalized transactions in trade-date order. Holding and
// cost basis never go negative; when a sale fully liquidates the holding
// the cost basis and average cost are forced to exactly zero so no
// floating-point residue leaks into subsequent buys.
type Position struct {
	HoldingOz         float64 `json:"holding_oz"`
	CostBasis         float64 `json:"cost_basis"`
	AverageCost       float64 `json:"average_cost"`
	TotalBoughtOz     float64 `json:"total_bought_oz"`
	TotalBoughtCost   float64 `json:"total_bought_cost"`
	TotalSoldOz       float64 `json:"total_sold_oz"`
	TotalSoldProceeds float64 `json:"total_sold_proceeds"`
	RealizedPL        float64 `json:"realized_pl"`
}

// NewPosition returns the all-zero initial position.
func NewPosition() Position {
	return Position{}
}

// LedgerEntry is a normalized transaction tagged with the position
// immediately after it was applied. RealizedPL is set for sells only.
// OversoldOz reports the portion of a sell that exceeded the holding at
// the time it was applied; the fold clamps the holding at zero rather
// than driving it negative, and validated input never trips this.
type LedgerEntry struct {
	NormalizedTransaction

	Position   Position `json:"position"`
	RealizedPL *float64 `json:"realized_pl,omitempty"`
	OversoldOz float64  `json:"oversold_oz,omitempty"`
}

// History is the result of folding a full transaction history: every
// transaction with its position snapshot, plus the final position.
type History struct {
	Transactions  []LedgerEntry `json:"transactions"`
	FinalPosition Position      `json:"final_position"`
}

// Apply folds one normalized transaction into the position and returns
// the new position with the realized profit or loss for sells (nil for
// buys). The input position is unchanged.
//
// Buys re-blend the average cost across the whole holding. Sells realize
// P/L against the average cost in force immediately before the sale and
// leave the average cost untouched; weighted-average costing never
// reprices a holding on the way out.
func Apply(state Position, tx NormalizedTransaction) (Position, *float64) {
	next, realized, _ := apply(state, tx)
	return next, realized
}

func apply(state Position, tx NormalizedTransaction) (Position, *float64, float64) {
	if tx.Side == SideBuy {
		state.HoldingOz += tx.QuantityOz
		state.CostBasis += tx.CashAmount
		state.TotalBoughtOz += tx.QuantityOz
		state.TotalBoughtCost += tx.CashAmount
		state.AverageCost = state.CostBasis / state.HoldingOz
		return state, nil, 0
	}

	// Sell. Quantity beyond the current holding is clamped; cost can only
	// be charged against what is actually held.
	soldOz := tx.QuantityOz
	oversold := 0.0
	if soldOz > state.HoldingOz {
		oversold = soldOz - state.HoldingOz
		soldOz = state.HoldingOz
	}

	costOfSold := state.AverageCost * soldOz
	proceeds := tx.CashAmount
	realized := proceeds - costOfSold

	state.HoldingOz -= soldOz
	state.CostBasis -= costOfSold
	state.RealizedPL += realized
	state.TotalSoldOz += soldOz
	state.TotalSoldProceeds += proceeds

	if state.HoldingOz == 0 {
		// Full liquidation: exact zeros, not near-zero float residue.
		state.CostBasis = 0
		state.AverageCost = 0
	}

	return state, &realized, oversold
}

// ProcessHistory folds an ordered transaction history into a ledger of
// per-transaction position snapshots and the final position. The input
// must already be sorted by trade date ascending, ties broken by input
// order; callers fetch and order the history, the fold never re-sorts.
//
// The fold is pure: the same ordered input always produces the same
// History, from any goroutine.
func ProcessHistory(raws []RawTransaction) History {
	entries := make([]LedgerEntry, 0, len(raws))
	state := NewPosition()

	for _, raw := range raws {
		tx := Normalize(raw)
		next, realized, oversold := apply(state, tx)
		state = next
		entries = append(entries, LedgerEntry{
			NormalizedTransaction: tx,
			Position:              state,
			RealizedPL:            realized,
			OversoldOz:            oversold,
		})
	}

	return History{Transactions: entries, FinalPosition: state}
}
