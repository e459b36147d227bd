// Package providers defines the normalized item shapes the dashboard is
// assembled from, and the ordered fallback-tier runner every adapter uses.
//
// Each adapter wraps one external data source and absorbs its failures: the
// last tier of every chain is local and cannot fail, so adapters never return
// errors to the aggregator.
package providers

import "time"

// CoinPrice is one coin-price snapshot, normalized from the market-data
// provider's row shape.
type CoinPrice struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	MarketCap                float64 `json:"market_cap"`
	Image                    string  `json:"image"`
}

// NewsSource describes where a news item came from.
type NewsSource struct {
	Title  string `json:"title"`
	Region string `json:"region"`
}

// NewsCurrency tags a news item with an affected asset.
type NewsCurrency struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// NewsItem is one normalized market-news entry.
type NewsItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	PublishedAt time.Time      `json:"published_at"`
	Source      NewsSource     `json:"source"`
	Currencies  []NewsCurrency `json:"currencies,omitempty"`
}

// Insight is one AI-generated market comment. Model records which tier
// produced it so the client can display provenance.
type Insight struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
	Model       string    `json:"model"`
}

// Meme is one meme entry.
type Meme struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Source   string `json:"source"`
	PostURL  string `json:"postUrl,omitempty"`
}
