package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinboard/coinboard/internal/models"
)

func TestSaveFeedback_UpsertKeepsOneRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.SaveFeedback(ctx, "user-1", models.FeedbackMarketNews, "article-42", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUp, first.Vote)

	// Changing the vote overwrites, it does not duplicate.
	second, err := s.SaveFeedback(ctx, "user-1", models.FeedbackMarketNews, "article-42", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.VoteDown, second.Vote)

	var count int64
	require.NoError(t, s.db.Model(&models.Feedback{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSaveFeedback_DistinctKeysAreSeparate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveFeedback(ctx, "user-1", models.FeedbackMarketNews, "article-42", models.VoteUp)
	require.NoError(t, err)
	_, err = s.SaveFeedback(ctx, "user-1", models.FeedbackCoinPrices, "article-42", models.VoteUp)
	require.NoError(t, err)
	_, err = s.SaveFeedback(ctx, "user-2", models.FeedbackMarketNews, "article-42", models.VoteUp)
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.db.Model(&models.Feedback{}).Count(&count).Error)
	assert.EqualValues(t, 3, count, "different (user, type, item) keys store independently")
}

func TestGetFeedback_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetFeedback(context.Background(), "user-1", models.FeedbackMeme, "meme-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
