// Package insight produces exactly one AI market comment per request through
// a three-tier chain: a primary completion provider, a secondary provider,
// and a local template that cannot fail.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/config"
	"github.com/coinboard/coinboard/internal/providers"
)

// Model-origin labels, surfaced to the client so it can show which tier
// answered.
const (
	LabelOpenRouter  = "OpenRouter (Llama 3.2)"
	LabelHuggingFace = "HuggingFace (Llama 3.2)"
	LabelFallback    = "Fallback"
)

// minContentLength rejects implausibly short secondary-tier replies.
const minContentLength = 20

// Client generates personalized insights.
type Client struct {
	primary   *chatClient
	secondary *chatClient
	logger    *zap.Logger
}

// New creates an insight client from the two completion-provider configs.
func New(primary, secondary config.LLMConfig, logger *zap.Logger) *Client {
	return &Client{
		primary:   newChatClient(primary),
		secondary: newChatClient(secondary),
		logger:    logger,
	}
}

// Insight returns one insight tailored to the user's interests and investor
// type. A rate-limited primary fails fast to the next tier with no backoff;
// the final tier is local and always succeeds, so no error is ever returned.
func (c *Client) Insight(ctx context.Context, interests []string, investorType string) providers.Insight {
	prompt := buildPrompt(interests, investorType)

	content, label := providers.RunTiers(ctx, c.logger, []providers.Tier[string]{
		{
			Name: LabelOpenRouter,
			Run: func(ctx context.Context) (string, error) {
				return c.primary.complete(ctx, prompt)
			},
		},
		{
			Name: LabelHuggingFace,
			Run: func(ctx context.Context) (string, error) {
				content, err := c.secondary.complete(ctx, prompt)
				if err != nil {
					return "", err
				}
				if len(strings.TrimSpace(content)) < minContentLength {
					return "", fmt.Errorf("implausibly short reply (%d chars)", len(content))
				}
				return strings.TrimSpace(content), nil
			},
		},
		{
			Name: LabelFallback,
			Run: func(ctx context.Context) (string, error) {
				return fallbackContent(interests, investorType), nil
			},
		},
	})

	return providers.Insight{
		ID:          fmt.Sprintf("insight-%d", time.Now().UnixMilli()),
		Content:     content,
		GeneratedAt: time.Now().UTC(),
		Model:       label,
	}
}

// buildPrompt templates the completion request from the personalization
// inputs, defaulting each when absent.
func buildPrompt(interests []string, investorType string) string {
	assets := "cryptocurrency"
	if len(interests) > 0 {
		assets = strings.Join(interests, ", ")
	}
	if investorType == "" {
		investorType = "investor"
	}
	return fmt.Sprintf(
		"Provide a brief (2-3 sentences) daily crypto market insight for a %s interested in %s. Make it actionable and relevant to today's market.",
		investorType, assets,
	)
}

// fallbackContent synthesizes the insight locally without any network call.
func fallbackContent(interests []string, investorType string) string {
	if investorType == "" {
		investorType = "investor"
	}

	var b strings.Builder
	b.WriteString("Today's crypto market shows continued volatility. ")
	if len(interests) > 0 {
		fmt.Fprintf(&b, "For %ss interested in %s, ", investorType, strings.Join(interests, ", "))
	} else {
		fmt.Fprintf(&b, "For %ss, ", investorType)
	}
	b.WriteString("stay informed and make decisions based on your risk tolerance and investment strategy. ")
	b.WriteString("Monitor market trends and consider your long-term goals when making investment decisions.")
	return b.String()
}
