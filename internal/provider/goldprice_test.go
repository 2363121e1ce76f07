package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mithqal/internal/metals"
)

// newMockFeed creates a test server serving gold-api style responses.
// priceMap maps symbol (from URL path) to USD price; missing symbols get a 404.
func newMockFeed(priceMap map[string]float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/price/")
		w.Header().Set("Content-Type", "application/json")

		price, ok := priceMap[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(goldAPIResponse{
			Name:   metals.Symbol(symbol).DisplayName(),
			Symbol: symbol,
			Price:  price,
		})
	}))
}

func TestGoldAPIProvider_FetchSpotPrices(t *testing.T) {
	t.Run("converts_to_aed_per_oz", func(t *testing.T) {
		server := newMockFeed(map[string]float64{"XAU": 2400, "XAG": 28.5})
		defer server.Close()

		p := NewGoldAPIProvider(server.Client(), server.URL)
		results, fetchErrors := p.FetchSpotPrices(context.Background(),
			[]metals.Symbol{metals.SymbolGold, metals.SymbolSilver})

		if len(fetchErrors) != 0 {
			t.Fatalf("unexpected fetch errors: %v", fetchErrors)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if got, want := results[0].PricePerOz, 2400*usdToAED; got != want {
			t.Errorf("expected XAU price %v AED/oz, got %v", want, got)
		}
		if results[0].Currency != "AED" {
			t.Errorf("expected AED, got %s", results[0].Currency)
		}
		if results[0].RecordedAt.IsZero() {
			t.Error("expected RecordedAt to be set")
		}
	})

	t.Run("partial_failure", func(t *testing.T) {
		server := newMockFeed(map[string]float64{"XAU": 2400})
		defer server.Close()

		p := NewGoldAPIProvider(server.Client(), server.URL)
		results, fetchErrors := p.FetchSpotPrices(context.Background(),
			[]metals.Symbol{metals.SymbolGold, metals.SymbolPalladium})

		if len(results) != 1 {
			t.Errorf("expected 1 result, got %d", len(results))
		}
		if len(fetchErrors) != 1 {
			t.Fatalf("expected 1 fetch error, got %d", len(fetchErrors))
		}
		if fetchErrors[0].Symbol != metals.SymbolPalladium {
			t.Errorf("expected error for XPD, got %s", fetchErrors[0].Symbol)
		}
	})

	t.Run("rejects_non_positive_price", func(t *testing.T) {
		server := newMockFeed(map[string]float64{"XAU": 0})
		defer server.Close()

		p := NewGoldAPIProvider(server.Client(), server.URL)
		results, fetchErrors := p.FetchSpotPrices(context.Background(), []metals.Symbol{metals.SymbolGold})

		if len(results) != 0 {
			t.Errorf("expected no results, got %v", results)
		}
		if len(fetchErrors) != 1 {
			t.Errorf("expected 1 fetch error, got %d", len(fetchErrors))
		}
	})

	t.Run("context_cancellation", func(t *testing.T) {
		server := newMockFeed(map[string]float64{"XAU": 2400})
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewGoldAPIProvider(server.Client(), server.URL)
		_, fetchErrors := p.FetchSpotPrices(ctx, []metals.Symbol{metals.SymbolGold})
		if len(fetchErrors) != 1 {
			t.Errorf("expected fetch error on cancelled context, got %d", len(fetchErrors))
		}
	})
}
