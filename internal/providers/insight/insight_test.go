package insight

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

func llmConfig(baseURL, apiKey string) config.LLMConfig {
	return config.LLMConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   "test-model",
		Timeout: 2 * time.Second,
	}
}

func chatHandler(t *testing.T, status int, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	}
}

func TestInsight_PrimaryAnswers(t *testing.T) {
	var gotPrompt struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPrompt))
		w.Write([]byte(`{"choices":[{"message":{"content":"Bitcoin momentum remains strong going into the weekend."}}]}`))
	}))
	defer primary.Close()

	c := New(llmConfig(primary.URL, "key"), llmConfig("http://unused.invalid", "key"), zap.NewNop())
	got := c.Insight(context.Background(), []string{"Bitcoin", "Solana"}, "Day Trader")

	assert.Equal(t, LabelOpenRouter, got.Model)
	assert.Equal(t, "Bitcoin momentum remains strong going into the weekend.", got.Content)
	assert.NotEmpty(t, got.ID)
	assert.WithinDuration(t, time.Now(), got.GeneratedAt, time.Minute)

	require.Len(t, gotPrompt.Messages, 1)
	assert.Contains(t, gotPrompt.Messages[0].Content, "Day Trader")
	assert.Contains(t, gotPrompt.Messages[0].Content, "Bitcoin, Solana")
}

func TestInsight_RateLimitedPrimaryFailsFast(t *testing.T) {
	primary := httptest.NewServer(chatHandler(t, http.StatusTooManyRequests, ""))
	defer primary.Close()
	secondary := httptest.NewServer(chatHandler(t, http.StatusOK, "Ethereum staking flows suggest holding positions for now."))
	defer secondary.Close()

	c := New(llmConfig(primary.URL, "key"), llmConfig(secondary.URL, "key"), zap.NewNop())

	start := time.Now()
	got := c.Insight(context.Background(), nil, "")
	elapsed := time.Since(start)

	assert.Equal(t, LabelHuggingFace, got.Model)
	assert.Equal(t, "Ethereum staking flows suggest holding positions for now.", got.Content)
	assert.Less(t, elapsed, time.Second, "rate-limited tier must not back off before falling through")
}

func TestInsight_ShortSecondaryReplyRejected(t *testing.T) {
	primary := httptest.NewServer(chatHandler(t, http.StatusInternalServerError, ""))
	defer primary.Close()
	secondary := httptest.NewServer(chatHandler(t, http.StatusOK, "ok"))
	defer secondary.Close()

	c := New(llmConfig(primary.URL, "key"), llmConfig(secondary.URL, "key"), zap.NewNop())
	got := c.Insight(context.Background(), []string{"Cardano"}, "HODLer")

	assert.Equal(t, LabelFallback, got.Model)
	assert.Contains(t, got.Content, "Cardano")
	assert.Contains(t, got.Content, "HODLer")
}

func TestInsight_NoKeysConfigured(t *testing.T) {
	c := New(llmConfig("http://unused.invalid", ""), llmConfig("http://unused.invalid", ""), zap.NewNop())
	got := c.Insight(context.Background(), nil, "")

	assert.Equal(t, LabelFallback, got.Model)
	assert.Contains(t, got.Content, "volatility")
}

func TestBuildPrompt_Defaults(t *testing.T) {
	assert.Contains(t, buildPrompt(nil, ""), "for a investor interested in cryptocurrency")
	assert.Contains(t, buildPrompt([]string{"Bitcoin"}, "HODLer"), "for a HODLer interested in Bitcoin")
}
