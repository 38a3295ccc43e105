package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	exponentBaseURL = "https://www.exponent.finance"
	exponentTimeout = 15 * time.Second
)

// Known fixed-yield markets, used when structured extraction from the
// server-rendered page comes up empty. In practice this is the usual path;
// the page payload format changes often.
var exponentFallbackMarkets = []domain.ExponentMarket{
	{Name: "Exponent: USDC", Symbol: "USDC", Slug: "income-jlp-usdc"},
	{Name: "Exponent: USDS", Symbol: "USDS", Slug: "income-usds"},
	{Name: "Exponent: SOL", Symbol: "SOL", Slug: "income-hylosol"},
	{Name: "Exponent: JitoSOL", Symbol: "JitoSOL", Slug: "income-jitosol"},
}

// exponentMarketPattern pulls `"symbol":"USDC"` / `"impliedApy":0.0835` /
// `"slug":"income-..."` triples out of the RSC payload embedded in the page.
var exponentMarketPattern = regexp.MustCompile(
	`"slug":"([a-z0-9-]+)".*?"symbol":"([A-Za-z]+)".*?"impliedApy":([0-9.]+)`)

// ExponentProvider scrapes the Exponent earn page. It is best-effort by
// design: regex extraction over a server-rendered payload, with a curated
// market list as the fallback when the page shape has drifted again.
type ExponentProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewExponentProvider(tracer trace.Tracer) *ExponentProvider {
	return &ExponentProvider{
		client:  &http.Client{Timeout: exponentTimeout},
		baseURL: exponentBaseURL,
		tracer:  tracer,
	}
}

type ExponentResult struct {
	Venues  map[string]domain.Venue
	Markets []domain.ExponentMarket
}

// Fetch returns one venue per fixed-yield market ("Exponent: USDC").
// Markets found via scraping carry their implied APY; fallback markets are
// emitted as metadata-only so the response still lists them.
func (p *ExponentProvider) Fetch(ctx context.Context) (*ExponentResult, error) {
	_, span := p.tracer.Start(ctx, "exponent.fetch")
	defer span.End()

	out := &ExponentResult{Venues: make(map[string]domain.Venue)}

	for _, m := range p.scrapeMarkets(ctx) {
		out.Markets = append(out.Markets, m.market)

		venue := domain.Venue{
			Name:     m.market.Name,
			Reserves: map[string]domain.Reserve{m.market.Symbol: {SupplyApy: m.apy}},
			Source:   "exponent-scrape",
			NoImpact: true,
		}
		if domain.IsStable(m.market.Symbol) {
			venue.StableApy = domain.Float(m.apy)
		}
		if domain.IsSOLType(m.market.Symbol) {
			venue.SolApy = domain.Float(m.apy)
		}
		out.Venues[m.market.Name] = venue
	}

	if len(out.Markets) == 0 {
		out.Markets = append(out.Markets, exponentFallbackMarkets...)
	}
	if len(out.Markets) == 0 {
		return nil, fmt.Errorf("exponent: no markets")
	}
	return out, nil
}

type scrapedExponentMarket struct {
	market domain.ExponentMarket
	apy    float64
}

// scrapeMarkets fetches the earn page and regex-extracts markets from the
// embedded payload. Any failure returns nil; the caller falls back to the
// curated list.
func (p *ExponentProvider) scrapeMarkets(ctx context.Context) []scrapedExponentMarket {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/income", nil)
	if err != nil {
		return nil
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil
	}

	// The RSC payload is JSON embedded inside a JS string, so quotes arrive
	// escaped; unescape before matching.
	page := strings.ReplaceAll(string(body), `\"`, `"`)

	var markets []scrapedExponentMarket
	seen := make(map[string]bool)
	for _, match := range exponentMarketPattern.FindAllStringSubmatch(page, -1) {
		slug, symbol := match[1], match[2]
		apy := parseFloatString(match[3]) * 100 // impliedApy is a fraction
		if apy <= 0 || seen[slug] {
			continue
		}
		seen[slug] = true
		name := "Exponent: " + symbol
		if !strings.HasPrefix(slug, "income-") {
			continue
		}
		markets = append(markets, scrapedExponentMarket{
			market: domain.ExponentMarket{Name: name, Symbol: symbol, Slug: slug},
			apy:    apy,
		})
	}
	return markets
}
