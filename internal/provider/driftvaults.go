package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"yield-harbor/internal/decode"
	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	driftVaultsTimeout = 20 * time.Second

	// Vaults need roughly two months of daily snapshots before their
	// trailing APY is trusted; younger vaults are too easy to manipulate.
	minVaultSnapshots = 60

	// Positive trailing APYs are capped; negative returns pass through
	// uncapped as a risk signal.
	vaultApyCap = 200.0

	rpcAccountBatch = 100
)

// DriftVaultsProvider fetches Drift strategy vaults: the vault registry and
// APY snapshot history from the data API, then the vault and user account
// buffers over Solana RPC for on-chain equity (TVL).
type DriftVaultsProvider struct {
	client  *http.Client
	baseURL string
	rpcURL  string
	tracer  trace.Tracer
}

func NewDriftVaultsProvider(tracer trace.Tracer, rpcURL string) *DriftVaultsProvider {
	return &DriftVaultsProvider{
		client:  &http.Client{Timeout: driftVaultsTimeout},
		baseURL: driftDataBaseURL,
		rpcURL:  rpcURL,
		tracer:  tracer,
	}
}

type DriftVaultsResult struct {
	Venues map[string]domain.Venue
	Vaults []domain.StrategyVault
}

type vaultRegistryEntry struct {
	Vault     string `json:"vault"`
	Snapshots []struct {
		Apy90d any `json:"apy90d"`
		Apy30d any `json:"apy30d"`
		Apy7d  any `json:"apy7d"`
	} `json:"snapshots"`
}

type driftMarketState struct {
	SpotMarkets []struct {
		MarketIndex               uint16 `json:"marketIndex"`
		Symbol                    string `json:"symbol"`
		CumulativeDepositInterest string `json:"cumulativeDepositInterest"`
		CumulativeBorrowInterest  string `json:"cumulativeBorrowInterest"`
		OraclePrice               string `json:"oraclePrice"`
	} `json:"spotMarkets"`
	PerpMarkets []struct {
		MarketIndex uint16 `json:"marketIndex"`
		OraclePrice string `json:"oraclePrice"`
	} `json:"perpMarkets"`
}

// Fetch returns one venue per qualifying strategy vault
// ("Drift Strategy: <name>"). Vaults with negative trailing returns are
// included deliberately; the negative APY is the risk flag.
func (p *DriftVaultsProvider) Fetch(ctx context.Context) (*DriftVaultsResult, error) {
	_, span := p.tracer.Start(ctx, "drift-vaults.fetch")
	defer span.End()

	var registry struct {
		Data []vaultRegistryEntry `json:"data"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"/vaults/list", nil, &registry); err != nil {
		return nil, fmt.Errorf("drift vaults registry: %w", err)
	}

	type candidate struct {
		pubkey string
		apy    float64
		apy30d float64
		apy7d  float64
	}
	var candidates []candidate
	for _, entry := range registry.Data {
		if entry.Vault == "" || len(entry.Snapshots) < minVaultSnapshots {
			continue
		}
		latest := entry.Snapshots[len(entry.Snapshots)-1]
		apy := asFloat(latest.Apy90d)
		if apy == 0 {
			apy = asFloat(latest.Apy30d)
		}
		if apy == 0 {
			apy = asFloat(latest.Apy7d)
		}
		if apy > vaultApyCap {
			apy = vaultApyCap
		}
		candidates = append(candidates, candidate{
			pubkey: entry.Vault,
			apy:    apy,
			apy30d: asFloat(latest.Apy30d),
			apy7d:  asFloat(latest.Apy7d),
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("drift vaults: no vaults with enough history")
	}

	spotState, perpState, spotSymbols := p.fetchMarketState(ctx)

	pubkeys := make([]string, len(candidates))
	for i, c := range candidates {
		pubkeys[i] = c.pubkey
	}
	buffers := p.fetchAccounts(ctx, pubkeys)

	type decoded struct {
		candidate
		vault decode.VaultAccount
	}
	var vaults []decoded
	var userPubkeys []string
	for i, c := range candidates {
		if buffers[i] == nil {
			continue
		}
		vault, ok := decode.DecodeVaultAccount(buffers[i])
		if !ok || vault.Name == "" {
			continue
		}
		vaults = append(vaults, decoded{candidate: c, vault: vault})
		userPubkeys = append(userPubkeys, vault.UserPubkey)
	}
	if len(vaults) == 0 {
		return nil, fmt.Errorf("drift vaults: no decodable vault accounts")
	}

	userBuffers := p.fetchAccounts(ctx, userPubkeys)

	out := &DriftVaultsResult{Venues: make(map[string]domain.Venue)}
	meta := make(map[string]domain.StrategyVault)
	var order []string
	for i, v := range vaults {
		equity := decode.UserAccountEquity(userBuffers[i], spotState, perpState)

		token := spotSymbols[v.vault.SpotMarketIndex]
		if token == "" {
			token = "USDC"
		}
		venueName := "Drift Strategy: " + v.vault.Name

		// On-chain display names can collide; keep the higher-APY entry.
		// Metadata follows the venue, so a losing duplicate leaves no entry.
		if existing, ok := out.Venues[venueName]; ok {
			existingApy := 0.0
			if existing.StableApy != nil {
				existingApy = *existing.StableApy
			} else if existing.SolApy != nil {
				existingApy = *existing.SolApy
			}
			if existingApy >= v.apy {
				continue
			}
		} else {
			order = append(order, venueName)
		}

		venue := domain.Venue{
			Name:        venueName,
			Tvl:         domain.Float(equity),
			Source:      "drift-vaults",
			NoImpact:    true,
			VaultApy7d:  domain.Float(v.apy7d),
			VaultApy30d: domain.Float(v.apy30d),
		}
		if domain.IsSOLType(token) {
			venue.SolApy = domain.Float(v.apy)
		} else {
			venue.StableApy = domain.Float(v.apy)
		}
		out.Venues[venueName] = venue
		meta[venueName] = domain.StrategyVault{
			Name:      venueName,
			VaultName: v.vault.Name,
			Pubkey:    v.pubkey,
			Token:     token,
		}
	}
	for _, name := range order {
		out.Vaults = append(out.Vaults, meta[name])
	}

	if len(out.Venues) == 0 {
		return nil, fmt.Errorf("drift vaults: nothing decoded")
	}
	return out, nil
}

// fetchMarketState loads the hex-encoded spot/perp market state used to
// price user-account positions. Failures leave the maps empty, which makes
// every position contribute zero rather than erroring.
func (p *DriftVaultsProvider) fetchMarketState(ctx context.Context) (map[uint16]decode.SpotMarketState, map[uint16]decode.PerpMarketState, map[uint16]string) {
	spot := make(map[uint16]decode.SpotMarketState)
	perp := make(map[uint16]decode.PerpMarketState)
	symbols := make(map[uint16]string)

	var state driftMarketState
	if err := getJSON(ctx, p.client, p.baseURL+"/markets", nil, &state); err != nil {
		return spot, perp, symbols
	}

	for _, m := range state.SpotMarkets {
		spot[m.MarketIndex] = decode.SpotMarketState{
			CumulativeDepositInterest: decode.FromHexScaled(m.CumulativeDepositInterest, decode.CumulativeInterestShift),
			CumulativeBorrowInterest:  decode.FromHexScaled(m.CumulativeBorrowInterest, decode.CumulativeInterestShift),
			OraclePrice:               decode.FromHexScaled(m.OraclePrice, decode.OraclePriceShift),
		}
		symbols[m.MarketIndex] = m.Symbol
	}
	for _, m := range state.PerpMarkets {
		perp[m.MarketIndex] = decode.PerpMarketState{
			OraclePrice: decode.FromHexScaled(m.OraclePrice, decode.OraclePriceShift),
		}
	}
	return spot, perp, symbols
}

// fetchAccounts reads raw account buffers over getMultipleAccounts in
// batches. The returned slice is index-aligned with pubkeys; a missing or
// undecodable account is a nil entry.
func (p *DriftVaultsProvider) fetchAccounts(ctx context.Context, pubkeys []string) [][]byte {
	buffers := make([][]byte, len(pubkeys))

	for start := 0; start < len(pubkeys); start += rpcAccountBatch {
		end := start + rpcAccountBatch
		if end > len(pubkeys) {
			end = len(pubkeys)
		}
		batch := pubkeys[start:end]

		request := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "getMultipleAccounts",
			"params":  []any{batch, map[string]string{"encoding": "base64"}},
		}
		var response struct {
			Result struct {
				Value []*struct {
					Data []string `json:"data"`
				} `json:"value"`
			} `json:"result"`
		}
		if err := postJSON(ctx, p.client, p.rpcURL, nil, request, &response); err != nil {
			continue
		}
		for i, account := range response.Result.Value {
			if account == nil || len(account.Data) == 0 {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(account.Data[0])
			if err != nil {
				continue
			}
			buffers[start+i] = raw
		}
	}

	return buffers
}
