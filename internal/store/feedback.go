package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coinboard/coinboard/internal/models"
)

// SaveFeedback upserts a vote for (user, feedback type, item). Voting again
// on the same item overwrites the previous vote rather than adding a record.
// Enum validation happens at the handler; this layer assumes valid input.
func (s *Store) SaveFeedback(ctx context.Context, userID string, feedbackType models.FeedbackType, itemID string, vote models.Vote) (*models.Feedback, error) {
	fb := models.Feedback{
		ID:           uuid.NewString(),
		UserID:       userID,
		FeedbackType: feedbackType,
		ItemID:       itemID,
		Vote:         vote,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "feedback_type"}, {Name: "item_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "updated_at"}),
	}).Create(&fb).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	return s.GetFeedback(ctx, userID, feedbackType, itemID)
}

// GetFeedback returns the user's vote on an item, or ErrNotFound.
func (s *Store) GetFeedback(ctx context.Context, userID string, feedbackType models.FeedbackType, itemID string) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND feedback_type = ? AND item_id = ?", userID, feedbackType, itemID).
		First(&fb).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	return &fb, nil
}
