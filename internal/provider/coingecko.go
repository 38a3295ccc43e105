package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	coinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	coinGeckoTimeout = 10 * time.Second
)

// CoinGeckoProvider fetches spot prices for the tracked symbols. The free
// tier is aggressively rate limited, so all calls go through a shared
// token bucket.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
	tracer  trace.Tracer
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: coinGeckoTimeout},
		baseURL: coinGeckoBaseURL,
		limiter: NewRateLimiter(10, 6*time.Second),
		tracer:  tracer,
	}
}

// Fetch returns USD prices keyed by our symbols ("SOL", "USDC", ...).
func (p *CoinGeckoProvider) Fetch(ctx context.Context) (map[string]float64, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate limit wait: %w", err)
	}

	ids := make([]string, 0, len(domain.CoinGeckoIDToSymbol))
	for id := range domain.CoinGeckoIDToSymbol {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		p.baseURL, strings.Join(ids, ","))

	var payload map[string]struct {
		USD any `json:"usd"`
	}
	if err := getJSON(ctx, p.client, url, nil, &payload); err != nil {
		return nil, fmt.Errorf("coingecko prices: %w", err)
	}

	prices := make(map[string]float64)
	for id, quote := range payload {
		symbol, ok := domain.CoinGeckoIDToSymbol[id]
		if !ok {
			continue
		}
		if price := asFloat(quote.USD); price > 0 {
			prices[symbol] = price
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("coingecko prices: empty response")
	}
	return prices, nil
}
