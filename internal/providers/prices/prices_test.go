package prices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/config"
)

func newTestClient(baseURL string) *Client {
	return New(config.CoinGeckoConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func marketJSON(rows ...map[string]any) []byte {
	b, _ := json.Marshal(rows)
	return b
}

func btcRow() map[string]any {
	return map[string]any{
		"id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
		"current_price": 67000.5, "price_change_percentage_24h": 1.2,
		"market_cap": 1.3e12, "image": "https://img.example/btc.png",
	}
}

func ethRow() map[string]any {
	return map[string]any{
		"id": "ethereum", "symbol": "eth", "name": "Ethereum",
		"current_price": 3200.0, "price_change_percentage_24h": nil,
		"market_cap": 4.0e11, "image": "https://img.example/eth.png",
	}
}

func TestCoinID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Bitcoin", "bitcoin"},
		{"Polygon", "matic-network"},
		{"Avalanche", "avalanche-2"},
		// Unmapped names get the normalized best-effort guess.
		{"Shiba Inu", "shiba-inu"},
		{"PEPE", "pepe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coinID(tt.name))
	}
}

func TestSpecificCoins_Success(t *testing.T) {
	var gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		w.Write(marketJSON(btcRow(), ethRow()))
	}))
	defer srv.Close()

	coins := newTestClient(srv.URL).SpecificCoins(context.Background(), []string{"Bitcoin", "Ethereum"}, "usd")

	assert.Equal(t, "bitcoin,ethereum", gotIDs)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "BTC", coins[0].Symbol, "symbols are uppercased")
	assert.Equal(t, "ethereum", coins[1].ID)
	assert.Zero(t, coins[1].PriceChangePercentage24h, "null change defaults to 0")
}

func TestSpecificCoins_EmptyResultFallsBackToTopN(t *testing.T) {
	var topPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "" {
			// No ids matched: CoinGecko answers with an empty array.
			w.Write([]byte("[]"))
			return
		}
		topPerPage = r.URL.Query().Get("per_page")
		w.Write(marketJSON(btcRow(), ethRow()))
	}))
	defer srv.Close()

	coins := newTestClient(srv.URL).SpecificCoins(context.Background(), []string{"Nonexistent", "AlsoFake"}, "usd")

	assert.Equal(t, "2", topPerPage, "top-N uses the requested list length")
	require.NotEmpty(t, coins, "empty upstream result must never yield an empty list")
	assert.Equal(t, "bitcoin", coins[0].ID)
}

func TestSpecificCoins_RateLimitedFallsBackToTopN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(marketJSON(btcRow()))
	}))
	defer srv.Close()

	coins := newTestClient(srv.URL).SpecificCoins(context.Background(), []string{"Bitcoin"}, "usd")

	require.Len(t, coins, 1)
	assert.Equal(t, "bitcoin", coins[0].ID)
}

func TestSpecificCoins_HardFailureServesStaticSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // connection refused

	coins := newTestClient(srv.URL).SpecificCoins(context.Background(), []string{"Bitcoin"}, "usd")

	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "ethereum", coins[1].ID)
	assert.Equal(t, 45000.0, coins[0].CurrentPrice, "static snapshot carries illustrative values")
}

func TestTopCoins_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		w.Write(marketJSON(btcRow(), ethRow()))
	}))
	defer srv.Close()

	coins := newTestClient(srv.URL).TopCoins(context.Background(), 10, "usd")
	assert.Len(t, coins, 2)
}

func TestTopCoins_FailureServesStaticSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	coins := newTestClient(srv.URL).TopCoins(context.Background(), 10, "usd")

	require.Len(t, coins, 2)
	assert.Equal(t, "BTC", coins[0].Symbol)
}

func TestFetchMarkets_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Write(marketJSON(btcRow()))
	}))
	defer srv.Close()

	c := New(config.CoinGeckoConfig{BaseURL: srv.URL, APIKey: "demo-key", Timeout: time.Second}, zap.NewNop())
	c.TopCoins(context.Background(), 1, "usd")

	assert.Equal(t, "demo-key", gotKey)
}
