package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/models"
	"github.com/coinboard/coinboard/internal/store"
)

// OnboardingRequest is the request body for POST /onboarding.
type OnboardingRequest struct {
	InterestedAssets   []string                   `json:"interestedAssets"`
	InvestorType       models.InvestorType        `json:"investorType"`
	ContentPreferences []models.ContentPreference `json:"contentPreferences"`
}

// PreferencesResponse wraps a stored preferences record.
type PreferencesResponse struct {
	Preferences *models.Preferences `json:"preferences"`
}

func (s *Server) handleSaveOnboarding(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req OnboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateOnboarding(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs, err := s.store.SavePreferences(c.Request().Context(), claims.UserID, store.PreferencesInput{
		InterestedAssets:   req.InterestedAssets,
		InvestorType:       req.InvestorType,
		ContentPreferences: req.ContentPreferences,
	})
	if err != nil {
		s.logger.Error("preferences save failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, PreferencesResponse{Preferences: prefs})
}

func (s *Server) handleGetOnboarding(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	prefs, err := s.store.PreferencesByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "preferences not found")
		}
		s.logger.Error("preferences lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, PreferencesResponse{Preferences: prefs})
}

// OnboardingStatusResponse is the response body for GET /onboarding/status.
type OnboardingStatusResponse struct {
	Completed bool `json:"completed"`
}

func (s *Server) handleOnboardingStatus(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	completed, err := s.store.HasCompletedOnboarding(c.Request().Context(), claims.UserID)
	if err != nil {
		s.logger.Error("onboarding status lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, OnboardingStatusResponse{Completed: completed})
}

func validateOnboarding(req OnboardingRequest) error {
	if len(req.InterestedAssets) == 0 {
		return errors.New("at least one crypto asset must be selected")
	}
	for _, asset := range req.InterestedAssets {
		if strings.TrimSpace(asset) == "" {
			return errors.New("each asset must be a non-empty string")
		}
	}
	if !req.InvestorType.Valid() {
		return fmt.Errorf("invalid investor type %q", req.InvestorType)
	}
	if len(req.ContentPreferences) == 0 {
		return errors.New("at least one content preference must be selected")
	}
	for _, pref := range req.ContentPreferences {
		if !pref.Valid() {
			return fmt.Errorf("invalid content preference %q", pref)
		}
	}
	return nil
}
