// Package models defines the persisted records and the closed enum sets
// shared by the stores, handlers, and aggregator.
package models

import "time"

// InvestorType is the self-declared trading style chosen at onboarding.
type InvestorType string

const (
	InvestorHODLer       InvestorType = "HODLer"
	InvestorDayTrader    InvestorType = "Day Trader"
	InvestorNFTCollector InvestorType = "NFT Collector"
	InvestorSwingTrader  InvestorType = "Swing Trader"
	InvestorDeFi         InvestorType = "DeFi Investor"
	InvestorOther        InvestorType = "Other"
)

// Valid reports whether t is one of the known investor types.
func (t InvestorType) Valid() bool {
	switch t {
	case InvestorHODLer, InvestorDayTrader, InvestorNFTCollector,
		InvestorSwingTrader, InvestorDeFi, InvestorOther:
		return true
	}
	return false
}

// ContentPreference is a dashboard content category a user opts into.
type ContentPreference string

const (
	ContentMarketNews ContentPreference = "Market News"
	ContentCharts     ContentPreference = "Charts"
	ContentSocial     ContentPreference = "Social"
	ContentFun        ContentPreference = "Fun"
)

// Valid reports whether p is one of the known content categories.
func (p ContentPreference) Valid() bool {
	switch p {
	case ContentMarketNews, ContentCharts, ContentSocial, ContentFun:
		return true
	}
	return false
}

// FeedbackType identifies which dashboard section a vote applies to.
type FeedbackType string

const (
	FeedbackMarketNews FeedbackType = "market_news"
	FeedbackCoinPrices FeedbackType = "coin_prices"
	FeedbackAIInsight  FeedbackType = "ai_insight"
	FeedbackMeme       FeedbackType = "meme"
)

// Valid reports whether t is one of the known feedback types.
func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackMarketNews, FeedbackCoinPrices, FeedbackAIInsight, FeedbackMeme:
		return true
	}
	return false
}

// Vote is a thumbs-up or thumbs-down on a dashboard item.
type Vote string

const (
	VoteUp   Vote = "thumbs_up"
	VoteDown Vote = "thumbs_down"
)

// Valid reports whether v is one of the two vote values.
func (v Vote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// User is the persisted account record. Emails are stored lowercased so the
// unique index enforces case-insensitive uniqueness.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:320" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Preferences holds a user's onboarding choices. At most one record exists per
// user; writes replace the whole record and refresh CompletedAt.
type Preferences struct {
	ID                 string              `gorm:"primaryKey" json:"id"`
	UserID             string              `gorm:"uniqueIndex;size:64" json:"userId"`
	InterestedAssets   []string            `gorm:"serializer:json;type:text" json:"interestedAssets"`
	InvestorType       InvestorType        `gorm:"size:32" json:"investorType"`
	ContentPreferences []ContentPreference `gorm:"serializer:json;type:text" json:"contentPreferences"`
	CompletedAt        time.Time           `json:"completedAt"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Feedback is one vote on one dashboard item. The composite unique index keeps
// a single record per (user, feedback type, item); a repeat vote overwrites it.
type Feedback struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	UserID       string       `gorm:"uniqueIndex:idx_user_item_vote;size:64" json:"userId"`
	FeedbackType FeedbackType `gorm:"uniqueIndex:idx_user_item_vote;size:32" json:"feedbackType"`
	ItemID       string       `gorm:"uniqueIndex:idx_user_item_vote;size:128" json:"itemId"`
	Vote         Vote         `gorm:"size:16" json:"vote"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
