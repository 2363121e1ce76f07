package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mithqal/internal/metals"
	"mithqal/internal/pagination"
	"mithqal/internal/provider"
	"mithqal/internal/testutil"
)

// stubProvider returns canned spot prices for RefreshSpotPrices tests.
type stubProvider struct {
	prices []provider.SpotPrice
	errs   []provider.FetchError
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchSpotPrices(ctx context.Context, symbols []metals.Symbol) ([]provider.SpotPrice, []provider.FetchError) {
	return p.prices, p.errs
}

func TestRecordPrice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, nil)

		price, err := svc.RecordPrice(metals.SymbolGold, 12345.67, "AED", "pipeline", time.Now())
		testutil.AssertNoError(t, err)
		if price.ID == "" {
			t.Error("expected a generated UUID")
		}
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, nil)

		_, err := svc.RecordPrice("XCU", 100, "AED", "pipeline", time.Now())
		testutil.AssertAppError(t, err, "UNKNOWN_METAL")
	})

	t.Run("non_positive_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, nil)

		_, err := svc.RecordPrice(metals.SymbolGold, 0, "AED", "pipeline", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetLatestPrice(t *testing.T) {
	t.Run("returns_newest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, nil)

		base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		testutil.CreateTestPriceAt(t, db, metals.SymbolGold, 11000, base)
		testutil.CreateTestPriceAt(t, db, metals.SymbolGold, 12000, base.Add(time.Hour))
		testutil.CreateTestPriceAt(t, db, metals.SymbolGold, 11500, base.Add(30*time.Minute))

		price, err := svc.GetLatestPrice(metals.SymbolGold)
		testutil.AssertNoError(t, err)
		if price.PricePerOz != 12000 {
			t.Errorf("expected newest price 12000, got %f", price.PricePerOz)
		}
	})

	t.Run("no_price_recorded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, nil)

		_, err := svc.GetLatestPrice(metals.SymbolPalladium)
		testutil.AssertAppError(t, err, "PRICE_NOT_FOUND")
	})
}

func TestGetLatestPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPriceService(db, nil)

	testutil.CreateTestPrice(t, db, metals.SymbolGold, 12000)
	testutil.CreateTestPrice(t, db, metals.SymbolSilver, 140)

	prices, err := svc.GetLatestPrices()
	testutil.AssertNoError(t, err)

	if len(prices) != 2 {
		t.Fatalf("expected 2 priced metals, got %d", len(prices))
	}
	if prices[metals.SymbolGold] != 12000 || prices[metals.SymbolSilver] != 140 {
		t.Errorf("unexpected prices: %v", prices)
	}
	if _, ok := prices[metals.SymbolPlatinum]; ok {
		t.Error("unpriced metal should be absent from the map")
	}
}

func TestGetPriceHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPriceService(db, nil)

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.CreateTestPriceAt(t, db, metals.SymbolGold, 11000+float64(i)*100, base.AddDate(0, 0, i))
	}

	page, err := svc.GetPriceHistory(metals.SymbolGold, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3), pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 {
		t.Fatalf("expected 3 entries in range, got %d", page.TotalItems)
	}
	if page.Data[0].PricePerOz != 11300 {
		t.Errorf("expected newest entry first, got %f", page.Data[0].PricePerOz)
	}
}

func TestRefreshSpotPrices(t *testing.T) {
	t.Run("records_fetched_prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		now := time.Now().UTC()
		svc := NewPriceService(db, &stubProvider{
			prices: []provider.SpotPrice{
				{Symbol: metals.SymbolGold, PricePerOz: 12100, Currency: "AED", RecordedAt: now},
				{Symbol: metals.SymbolSilver, PricePerOz: 145, Currency: "AED", RecordedAt: now},
			},
			errs: []provider.FetchError{
				{Symbol: metals.SymbolPlatinum, Err: errors.New("feed timeout")},
			},
		})

		recorded, fetchErrs, err := svc.RefreshSpotPrices(context.Background())
		testutil.AssertNoError(t, err)

		if recorded != 2 {
			t.Errorf("expected 2 recorded prices, got %d", recorded)
		}
		if len(fetchErrs) != 1 || fetchErrs[0].Symbol != metals.SymbolPlatinum {
			t.Errorf("expected platinum fetch error, got %v", fetchErrs)
		}

		latest, err := svc.GetLatestPrice(metals.SymbolGold)
		testutil.AssertNoError(t, err)
		if latest.PricePerOz != 12100 || latest.Source != "stub" {
			t.Errorf("unexpected stored price: %+v", latest)
		}
	})

	t.Run("all_fetches_fail", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, &stubProvider{
			errs: []provider.FetchError{
				{Symbol: metals.SymbolGold, Err: errors.New("feed down")},
			},
		})

		recorded, fetchErrs, err := svc.RefreshSpotPrices(context.Background())
		testutil.AssertNoError(t, err)
		if recorded != 0 || len(fetchErrs) != 1 {
			t.Errorf("expected 0 recorded and 1 fetch error, got %d / %v", recorded, fetchErrs)
		}
	})
}
