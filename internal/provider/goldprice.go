package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mithqal/internal/metals"
)

const (
	goldAPIBaseURL = "https://api.gold-api.com"

	// usdToAED is the dirham's fixed peg to the US dollar. The feed quotes
	// in USD per ounce; positions are valued in AED.
	usdToAED = 3.6725
)

// goldAPIResponse is a single price result from the gold-api.com feed.
type goldAPIResponse struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	UpdatedAt string  `json:"updatedAt"`
}

// GoldAPIProvider fetches spot prices from gold-api.com, which quotes
// XAU/XAG/XPT/XPD in USD per troy ounce.
type GoldAPIProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewGoldAPIProvider creates a new gold-api.com spot price provider.
// An empty baseURL uses the public endpoint.
func NewGoldAPIProvider(httpClient *http.Client, baseURL string) *GoldAPIProvider {
	if baseURL == "" {
		baseURL = goldAPIBaseURL
	}
	return &GoldAPIProvider{httpClient: httpClient, baseURL: baseURL}
}

// Name returns the provider's display name.
func (p *GoldAPIProvider) Name() string { return "gold-api.com" }

// FetchSpotPrices fetches current AED/oz prices for the given metals.
// The feed serves one metal per request, so each symbol is fetched
// independently and failures are reported per metal.
func (p *GoldAPIProvider) FetchSpotPrices(ctx context.Context, symbols []metals.Symbol) ([]SpotPrice, []FetchError) {
	var results []SpotPrice
	var fetchErrors []FetchError
	now := time.Now().UTC()

	for _, symbol := range symbols {
		price, err := p.fetchOne(ctx, symbol)
		if err != nil {
			fetchErrors = append(fetchErrors, FetchError{Symbol: symbol, Err: err})
			continue
		}
		results = append(results, SpotPrice{
			Symbol:     symbol,
			PricePerOz: price * usdToAED,
			Currency:   "AED",
			RecordedAt: now,
		})
	}

	return results, fetchErrors
}

func (p *GoldAPIProvider) fetchOne(ctx context.Context, symbol metals.Symbol) (float64, error) {
	url := fmt.Sprintf("%s/price/%s", p.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body goldAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if body.Price <= 0 {
		return 0, fmt.Errorf("feed returned non-positive price %v", body.Price)
	}

	return body.Price, nil
}
