// Package dashboard assembles the per-user dashboard response by fanning out
// to the four provider adapters in parallel and merging their results.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/models"
	"github.com/coinboard/coinboard/internal/providers"
	"github.com/coinboard/coinboard/internal/store"
)

const (
	// sectionLimit caps the coin and news lists.
	sectionLimit = 10

	// maxSpecificAssets bounds how many interests are forwarded to the
	// price adapter in specific-list mode.
	maxSpecificAssets = 10

	currency = "usd"
)

// PreferenceReader loads stored onboarding choices.
type PreferenceReader interface {
	PreferencesByUser(ctx context.Context, userID string) (*models.Preferences, error)
}

// PriceProvider supplies coin-price snapshots in either mode.
type PriceProvider interface {
	TopCoins(ctx context.Context, limit int, currency string) []providers.CoinPrice
	SpecificCoins(ctx context.Context, names []string, currency string) []providers.CoinPrice
}

// NewsProvider supplies market news filtered by asset interests.
type NewsProvider interface {
	MarketNews(ctx context.Context, limit int, interests []string) []providers.NewsItem
}

// InsightProvider supplies one AI insight per request.
type InsightProvider interface {
	Insight(ctx context.Context, interests []string, investorType string) providers.Insight
}

// MemeProvider supplies one meme per request.
type MemeProvider interface {
	RandomMeme(ctx context.Context) providers.Meme
}

// PreferenceEcho mirrors the stored preferences back in the response.
type PreferenceEcho struct {
	InvestorType       models.InvestorType        `json:"investorType"`
	ContentPreferences []models.ContentPreference `json:"contentPreferences"`
}

// Response is the assembled dashboard payload. It is recomputed on every
// request and never persisted or cached.
type Response struct {
	CoinPrices  []providers.CoinPrice `json:"coinPrices"`
	MarketNews  []providers.NewsItem  `json:"marketNews"`
	AIInsight   providers.Insight     `json:"aiInsight"`
	Meme        providers.Meme        `json:"meme"`
	Preferences *PreferenceEcho       `json:"preferences"`
}

// Aggregator orchestrates the dashboard read path. It has no side effects on
// persisted state.
type Aggregator struct {
	prefs   PreferenceReader
	prices  PriceProvider
	news    NewsProvider
	insight InsightProvider
	memes   MemeProvider
	logger  *zap.Logger
}

// New creates an aggregator over the given preference reader and adapters.
func New(prefs PreferenceReader, prices PriceProvider, news NewsProvider, insight InsightProvider, memes MemeProvider, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		prefs:   prefs,
		prices:  prices,
		news:    news,
		insight: insight,
		memes:   memes,
		logger:  logger,
	}
}

// Dashboard produces one response for the authenticated user. Adapter
// failures are absorbed inside the adapters, so the only error path here is
// the preference store. A user without preferences gets the unpersonalized
// dashboard.
func (a *Aggregator) Dashboard(ctx context.Context, userID string) (*Response, error) {
	prefs, err := a.prefs.PreferencesByUser(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var interests []string
	investorType := ""
	if prefs != nil {
		interests = prefs.InterestedAssets
		investorType = string(prefs.InvestorType)
	}

	resp := &Response{}

	// The four branches are independent and share no mutable state; each
	// writes its own response field. Join-all, no ordering between them.
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if len(interests) > 0 {
			specific := interests
			if len(specific) > maxSpecificAssets {
				specific = specific[:maxSpecificAssets]
			}
			resp.CoinPrices = a.prices.SpecificCoins(ctx, specific, currency)
			return
		}
		resp.CoinPrices = a.prices.TopCoins(ctx, sectionLimit, currency)
	}()

	go func() {
		defer wg.Done()
		resp.MarketNews = a.news.MarketNews(ctx, sectionLimit, interests)
	}()

	go func() {
		defer wg.Done()
		resp.AIInsight = a.insight.Insight(ctx, interests, investorType)
	}()

	go func() {
		defer wg.Done()
		resp.Meme = a.memes.RandomMeme(ctx)
	}()

	wg.Wait()

	if prefs != nil {
		resp.Preferences = &PreferenceEcho{
			InvestorType:       prefs.InvestorType,
			ContentPreferences: prefs.ContentPreferences,
		}
	}

	a.logger.Debug("dashboard assembled",
		zap.String("user_id", userID),
		zap.Int("coins", len(resp.CoinPrices)),
		zap.Int("news", len(resp.MarketNews)),
		zap.String("insight_model", resp.AIInsight.Model),
	)
	return resp, nil
}
