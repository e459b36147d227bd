package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coinboard/coinboard/internal/models"
)

// PreferencesInput is the onboarding payload written by SavePreferences.
type PreferencesInput struct {
	InterestedAssets   []string
	InvestorType       models.InvestorType
	ContentPreferences []models.ContentPreference
}

// SavePreferences upserts the user's onboarding record. A second save
// replaces every field and refreshes CompletedAt; the unique index on user_id
// guarantees at most one record per user. Returns the stored record.
func (s *Store) SavePreferences(ctx context.Context, userID string, in PreferencesInput) (*models.Preferences, error) {
	prefs := models.Preferences{
		ID:                 uuid.NewString(),
		UserID:             userID,
		InterestedAssets:   in.InterestedAssets,
		InvestorType:       in.InvestorType,
		ContentPreferences: in.ContentPreferences,
		CompletedAt:        time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"interested_assets", "investor_type", "content_preferences",
			"completed_at", "updated_at",
		}),
	}).Create(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	// On conflict the original row (and its id) survives; re-read so the
	// caller sees what is actually stored.
	return s.PreferencesByUser(ctx, userID)
}

// PreferencesByUser returns the user's preferences or ErrNotFound. Absent
// preferences is a normal state for users who have not finished onboarding.
func (s *Store) PreferencesByUser(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	return &prefs, nil
}

// HasCompletedOnboarding reports whether the user has saved preferences.
func (s *Store) HasCompletedOnboarding(ctx context.Context, userID string) (bool, error) {
	_, err := s.PreferencesByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
