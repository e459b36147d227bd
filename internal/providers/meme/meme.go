// Package meme returns one meme per request: a random image post from a
// themed community feed, or a random entry from the local catalog when the
// feed yields nothing.
package meme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/config"
	"github.com/coinboard/coinboard/internal/providers"
)

const (
	userAgent   = "coinboard/1.0"
	listingSize = 50
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// Client fetches memes from the configured subreddit's hot listing.
type Client struct {
	cfg        config.RedditConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a meme client.
func New(cfg config.RedditConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// RandomMeme returns one meme. The feed tier filters to image-bearing posts
// and picks uniformly at random; the catalog tier cannot fail, so no error
// is ever returned.
func (c *Client) RandomMeme(ctx context.Context) providers.Meme {
	m, _ := providers.RunTiers(ctx, c.logger, []providers.Tier[providers.Meme]{
		{Name: "reddit", Run: c.fromListing},
		{
			Name: "catalog",
			Run: func(ctx context.Context) (providers.Meme, error) {
				return catalog[rand.IntN(len(catalog))], nil
			},
		},
	})
	return m
}

// listingPost is the subset of the listing item shape the filter needs.
type listingPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	PostHint  string `json:"post_hint"`
	Preview   *struct {
		Images []json.RawMessage `json:"images"`
	} `json:"preview"`
}

func (c *Client) fromListing(ctx context.Context) (providers.Meme, error) {
	posts, err := c.fetchHot(ctx, c.cfg.BaseURL)
	if err != nil {
		// Host resolution for the primary form is flaky for some
		// resolvers; retry once against the alternate host form.
		c.logger.Debug("primary meme host failed, retrying alternate",
			zap.Error(err))
		posts, err = c.fetchHot(ctx, c.cfg.AltBaseURL)
		if err != nil {
			return providers.Meme{}, err
		}
	}

	images := make([]listingPost, 0, len(posts))
	for _, p := range posts {
		if isImagePost(p) {
			images = append(images, p)
		}
	}
	if len(images) == 0 {
		return providers.Meme{}, fmt.Errorf("no image posts in listing")
	}

	pick := images[rand.IntN(len(images))]
	return providers.Meme{
		ID:       pick.ID,
		Title:    pick.Title,
		ImageURL: pick.URL,
		Source:   "r/" + c.cfg.Subreddit,
		PostURL:  "https://www.reddit.com" + pick.Permalink,
	}, nil
}

func (c *Client) fetchHot(ctx context.Context, baseURL string) ([]listingPost, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", baseURL, c.cfg.Subreddit, listingSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data listingPost `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	posts := make([]listingPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// isImagePost reports whether the post carries a displayable image, by
// content-type hint, file extension, or presence of a preview image.
func isImagePost(p listingPost) bool {
	if p.URL == "" {
		return false
	}
	if p.PostHint == "image" {
		return true
	}
	lower := strings.ToLower(p.URL)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return p.Preview != nil && len(p.Preview.Images) > 0
}

// catalog is the local fallback set. Immutable.
var catalog = []providers.Meme{
	{ID: "1", Title: "HODL Strong", ImageURL: "https://via.placeholder.com/400x300?text=HODL+Strong+Meme", Source: "Crypto Memes"},
	{ID: "2", Title: "When Bitcoin Dips", ImageURL: "https://via.placeholder.com/400x300?text=When+BTC+Dips", Source: "Crypto Memes"},
	{ID: "3", Title: "Diamond Hands", ImageURL: "https://via.placeholder.com/400x300?text=Diamond+Hands", Source: "Crypto Memes"},
	{ID: "4", Title: "To the Moon", ImageURL: "https://via.placeholder.com/400x300?text=To+the+Moon", Source: "Crypto Memes"},
	{ID: "5", Title: "Buy the Dip", ImageURL: "https://via.placeholder.com/400x300?text=Buy+the+Dip", Source: "Crypto Memes"},
}
