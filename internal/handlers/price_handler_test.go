package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mithqal/internal/metals"
	"mithqal/internal/models"
	"mithqal/internal/pagination"
	"mithqal/internal/provider"
	"mithqal/internal/services"
)

// --- mock price service ---

type mockPriceService struct {
	recordPriceFn       func(symbol metals.Symbol, pricePerOz float64, currency, source string, recordedAt time.Time) (*models.MetalPrice, error)
	getLatestPriceFn    func(symbol metals.Symbol) (*models.MetalPrice, error)
	getLatestPricesFn   func() (map[metals.Symbol]float64, error)
	getPriceHistoryFn   func(symbol metals.Symbol, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MetalPrice], error)
	refreshSpotPricesFn func(ctx context.Context) (int, []provider.FetchError, error)
}

func (m *mockPriceService) RecordPrice(symbol metals.Symbol, pricePerOz float64, currency, source string, recordedAt time.Time) (*models.MetalPrice, error) {
	if m.recordPriceFn != nil {
		return m.recordPriceFn(symbol, pricePerOz, currency, source, recordedAt)
	}
	return &models.MetalPrice{}, nil
}

func (m *mockPriceService) GetLatestPrice(symbol metals.Symbol) (*models.MetalPrice, error) {
	if m.getLatestPriceFn != nil {
		return m.getLatestPriceFn(symbol)
	}
	return &models.MetalPrice{}, nil
}

func (m *mockPriceService) GetLatestPrices() (map[metals.Symbol]float64, error) {
	if m.getLatestPricesFn != nil {
		return m.getLatestPricesFn()
	}
	return map[metals.Symbol]float64{}, nil
}

func (m *mockPriceService) GetPriceHistory(symbol metals.Symbol, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.MetalPrice], error) {
	if m.getPriceHistoryFn != nil {
		return m.getPriceHistoryFn(symbol, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.MetalPrice{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPriceService) RefreshSpotPrices(ctx context.Context) (int, []provider.FetchError, error) {
	if m.refreshSpotPricesFn != nil {
		return m.refreshSpotPricesFn(ctx)
	}
	return 0, nil, nil
}

var _ services.PriceServicer = (*mockPriceService)(nil)

func setupPriceRouter(handler *PriceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/prices", handler.IngestPrice)
	r.POST("/pipeline/prices/refresh", handler.RefreshPrices)
	auth := r.Group("", injectUserID(1))
	auth.GET("/prices", handler.GetLatestPrices)
	auth.GET("/prices/:symbol", handler.GetPriceHistory)
	return r
}

func TestPriceHandler_IngestPrice(t *testing.T) {
	t.Run("returns 201 with defaults applied", func(t *testing.T) {
		var gotCurrency, gotSource string
		svc := &mockPriceService{
			recordPriceFn: func(symbol metals.Symbol, pricePerOz float64, currency, source string, _ time.Time) (*models.MetalPrice, error) {
				gotCurrency = currency
				gotSource = source
				return &models.MetalPrice{ID: "p1", Symbol: symbol, PricePerOz: pricePerOz}, nil
			},
		}
		handler := NewPriceHandler(svc)
		r := setupPriceRouter(handler)

		rec := doRequest(r, "POST", "/pipeline/prices", `{"symbol":"XAU","price_per_oz":12345.67}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCurrency != "AED" || gotSource != "pipeline" {
			t.Errorf("expected AED/pipeline defaults, got %s/%s", gotCurrency, gotSource)
		}
	})

	t.Run("returns 400 on unknown symbol", func(t *testing.T) {
		handler := NewPriceHandler(&mockPriceService{})
		r := setupPriceRouter(handler)

		rec := doRequest(r, "POST", "/pipeline/prices", `{"symbol":"GOLD","price_per_oz":12345.67}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive price", func(t *testing.T) {
		handler := NewPriceHandler(&mockPriceService{})
		r := setupPriceRouter(handler)

		rec := doRequest(r, "POST", "/pipeline/prices", `{"symbol":"XAU","price_per_oz":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPriceHandler_RefreshPrices(t *testing.T) {
	t.Run("reports partial failures", func(t *testing.T) {
		svc := &mockPriceService{
			refreshSpotPricesFn: func(_ context.Context) (int, []provider.FetchError, error) {
				return 3, []provider.FetchError{{Symbol: metals.SymbolPalladium, Err: errors.New("feed timeout")}}, nil
			},
		}
		handler := NewPriceHandler(svc)
		r := setupPriceRouter(handler)

		rec := doRequest(r, "POST", "/pipeline/prices/refresh", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["recorded"].(float64) != 3 {
			t.Errorf("expected 3 recorded, got %v", result["recorded"])
		}
		failures := result["failures"].([]interface{})
		if len(failures) != 1 {
			t.Errorf("expected one failure, got %v", failures)
		}
	})
}

func TestPriceHandler_GetLatestPrices(t *testing.T) {
	svc := &mockPriceService{
		getLatestPricesFn: func() (map[metals.Symbol]float64, error) {
			return map[metals.Symbol]float64{metals.SymbolGold: 12000}, nil
		},
	}
	handler := NewPriceHandler(svc)
	r := setupPriceRouter(handler)

	rec := doRequest(r, "GET", "/prices", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	prices := result["prices"].(map[string]interface{})
	if prices["XAU"].(float64) != 12000 {
		t.Errorf("expected XAU 12000, got %v", prices["XAU"])
	}
}

func TestPriceHandler_GetPriceHistory(t *testing.T) {
	t.Run("parses range parameters", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		svc := &mockPriceService{
			getPriceHistoryFn: func(_ metals.Symbol, from, to time.Time, _ pagination.PageRequest) (*pagination.PageResponse[models.MetalPrice], error) {
				gotFrom, gotTo = from, to
				resp := pagination.NewPageResponse([]models.MetalPrice{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewPriceHandler(svc)
		r := setupPriceRouter(handler)

		rec := doRequest(r, "GET", "/prices/XAU?from=2025-01-01&to=2025-02-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFrom.IsZero() || gotTo.IsZero() {
			t.Error("expected both range bounds to be parsed")
		}
	})

	t.Run("returns 400 on bad range", func(t *testing.T) {
		handler := NewPriceHandler(&mockPriceService{})
		r := setupPriceRouter(handler)

		rec := doRequest(r, "GET", "/prices/XAU?from=lastweek", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
