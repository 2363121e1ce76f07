package metals

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tradeDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("buy_in_canonical_units", func(t *testing.T) {
		tx := Normalize(RawTransaction{
			Symbol:       SymbolGold,
			Side:         SideBuy,
			TradeDate:    tradeDate,
			Quantity:     0.1,
			QuantityUnit: UnitOz,
			Price:        14816.07,
			PriceUnit:    PricePerOz,
		})

		if tx.QuantityOz != 0.1 {
			t.Errorf("expected canonical quantity 0.1 oz, got %v", tx.QuantityOz)
		}
		if tx.PricePerOz != 14816.07 {
			t.Errorf("expected canonical price 14816.07, got %v", tx.PricePerOz)
		}
		if !approx(tx.CashAmount, 1481.607, 1e-9) {
			t.Errorf("expected invested 1481.607, got %v", tx.CashAmount)
		}
	})

	t.Run("buy_in_grams_per_gram", func(t *testing.T) {
		tx := Normalize(RawTransaction{
			Symbol:       SymbolGold,
			Side:         SideBuy,
			TradeDate:    tradeDate,
			Quantity:     8.27,
			QuantityUnit: UnitGram,
			Price:        603.96,
			PriceUnit:    PricePerGram,
		})

		if !approx(tx.QuantityOz, 0.2659, 1e-4) {
			t.Errorf("expected canonical quantity ~0.2659 oz, got %v", tx.QuantityOz)
		}
		if !approx(tx.PricePerOz, 18785.27, 0.01) {
			t.Errorf("expected canonical price ~18785.27, got %v", tx.PricePerOz)
		}
		if !approx(tx.CashAmount, 4994.75, 0.01) {
			t.Errorf("expected invested ~4994.75, got %v", tx.CashAmount)
		}
	})

	t.Run("buy_fees_increase_cost", func(t *testing.T) {
		tx := Normalize(RawTransaction{
			Side: SideBuy, Quantity: 1, QuantityUnit: UnitOz,
			Price: 15000, PriceUnit: PricePerOz, Fees: 50,
		})
		if tx.CashAmount != 15050 {
			t.Errorf("expected invested 15050, got %v", tx.CashAmount)
		}
	})

	t.Run("sell_fees_reduce_proceeds", func(t *testing.T) {
		tx := Normalize(RawTransaction{
			Side: SideSell, Quantity: 1, QuantityUnit: UnitOz,
			Price: 16000, PriceUnit: PricePerOz, Fees: 40,
		})
		if tx.CashAmount != 15960 {
			t.Errorf("expected proceeds 15960, got %v", tx.CashAmount)
		}
	})

	t.Run("raw_fields_carried_through", func(t *testing.T) {
		raw := RawTransaction{
			ID: 7, PortfolioID: 3, Symbol: SymbolSilver, Side: SideSell,
			TradeDate: tradeDate, Quantity: 10, QuantityUnit: UnitGram,
			Price: 15, PriceUnit: PricePerGram, Notes: "ramadan sale",
		}
		tx := Normalize(raw)
		if tx.RawTransaction != raw {
			t.Errorf("expected raw record carried unchanged, got %+v", tx.RawTransaction)
		}
	})
}
