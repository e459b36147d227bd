// Package prices adapts the CoinGecko markets endpoint into coin-price
// snapshots. All failure modes resolve to fallback data; the adapter never
// returns an error to its caller.
package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/coinboard/coinboard/internal/config"
	"github.com/coinboard/coinboard/internal/providers"
)

// defaultLimit is the top-N size used when no interest list constrains the
// request.
const defaultLimit = 10

// coinIDs maps user-facing asset display names to CoinGecko API ids.
// Immutable, shared read-only across requests.
var coinIDs = map[string]string{
	"Bitcoin":      "bitcoin",
	"Ethereum":     "ethereum",
	"Binance Coin": "binancecoin",
	"Cardano":      "cardano",
	"Solana":       "solana",
	"Polkadot":     "polkadot",
	"Dogecoin":     "dogecoin",
	"Polygon":      "matic-network",
	"Avalanche":    "avalanche-2",
	"Chainlink":    "chainlink",
}

// coinID resolves a display name to a CoinGecko id. Names outside the lookup
// table are normalized (lowercased, spaces to hyphens) as a best-effort
// guess, which covers most custom assets.
func coinID(displayName string) string {
	if id, ok := coinIDs[displayName]; ok {
		return id
	}
	return strings.Join(strings.Fields(strings.ToLower(displayName)), "-")
}

// Client calls the CoinGecko markets endpoint.
type Client struct {
	cfg        config.CoinGeckoConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// New creates a prices client. The outbound limiter keeps the client inside
// the free-tier request budget.
func New(cfg config.CoinGeckoConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 5),
		logger:     logger,
	}
}

// TopCoins returns the top-limit coins by market cap. On upstream failure it
// returns the static fallback snapshot.
func (c *Client) TopCoins(ctx context.Context, limit int, currency string) []providers.CoinPrice {
	if limit <= 0 {
		limit = defaultLimit
	}
	coins, err := c.fetchMarkets(ctx, url.Values{
		"vs_currency": {currency},
		"order":       {"market_cap_desc"},
		"per_page":    {strconv.Itoa(limit)},
		"page":        {"1"},
		"sparkline":   {"false"},
	})
	if err != nil {
		c.logger.Warn("top coins fetch failed, serving static fallback", zap.Error(err))
		return fallbackCoins()
	}
	return coins
}

// SpecificCoins returns prices for the named assets. Display names are
// resolved through the lookup table first. Fallback chain: an empty upstream
// result or a rate limit falls back to top-N with N = len(names); any other
// failure falls back to the static snapshot.
func (c *Client) SpecificCoins(ctx context.Context, names []string, currency string) []providers.CoinPrice {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, coinID(name))
	}

	coins, err := c.fetchMarkets(ctx, url.Values{
		"vs_currency": {currency},
		"ids":         {strings.Join(ids, ",")},
		"order":       {"market_cap_desc"},
		"sparkline":   {"false"},
	})
	switch {
	case err == nil && len(coins) > 0:
		return coins
	case err == nil:
		// CoinGecko returns [] when no ids matched.
		c.logger.Warn("no coins matched requested ids, falling back to top coins",
			zap.Strings("ids", ids))
		return c.TopCoins(ctx, len(names), currency)
	case errors.Is(err, providers.ErrRateLimited):
		c.logger.Warn("rate limited, falling back to top coins")
		return c.TopCoins(ctx, len(names), currency)
	default:
		c.logger.Warn("specific coins fetch failed, serving static fallback", zap.Error(err))
		return fallbackCoins()
	}
}

// marketRow is the upstream row shape for /coins/markets.
type marketRow struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             float64  `json:"current_price"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	MarketCap                float64  `json:"market_cap"`
	Image                    string   `json:"image"`
}

func (c *Client) fetchMarkets(ctx context.Context, params url.Values) ([]providers.CoinPrice, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/coins/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("markets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, providers.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("markets request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rows []marketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode markets response: %w", err)
	}

	coins := make([]providers.CoinPrice, 0, len(rows))
	for _, row := range rows {
		change := 0.0
		if row.PriceChangePercentage24h != nil {
			change = *row.PriceChangePercentage24h
		}
		coins = append(coins, providers.CoinPrice{
			ID:                       row.ID,
			Symbol:                   strings.ToUpper(row.Symbol),
			Name:                     row.Name,
			CurrentPrice:             row.CurrentPrice,
			PriceChangePercentage24h: change,
			MarketCap:                row.MarketCap,
			Image:                    row.Image,
		})
	}
	return coins, nil
}

// fallbackCoins is the static snapshot served when every upstream mode
// failed. Values are illustrative, not live.
func fallbackCoins() []providers.CoinPrice {
	return []providers.CoinPrice{
		{
			ID:                       "bitcoin",
			Symbol:                   "BTC",
			Name:                     "Bitcoin",
			CurrentPrice:             45000,
			PriceChangePercentage24h: 2.5,
			MarketCap:                850000000000,
			Image:                    "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
		},
		{
			ID:                       "ethereum",
			Symbol:                   "ETH",
			Name:                     "Ethereum",
			CurrentPrice:             2800,
			PriceChangePercentage24h: -1.2,
			MarketCap:                340000000000,
			Image:                    "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
		},
	}
}
