package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/models"
	"github.com/coinboard/coinboard/internal/store"
)

// FeedbackRequest is the request body for POST /feedback.
type FeedbackRequest struct {
	FeedbackType models.FeedbackType `json:"feedbackType"`
	ItemID       string              `json:"itemId"`
	Vote         models.Vote         `json:"vote"`
}

// FeedbackResponse wraps a stored feedback record.
type FeedbackResponse struct {
	Feedback *models.Feedback `json:"feedback"`
}

func (s *Server) handleSubmitFeedback(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Enum validation happens here, before the store sees the input.
	if !req.FeedbackType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid feedback type")
	}
	if !req.Vote.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vote type")
	}
	if req.ItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item ID is required")
	}

	fb, err := s.store.SaveFeedback(c.Request().Context(), claims.UserID, req.FeedbackType, req.ItemID, req.Vote)
	if err != nil {
		s.logger.Error("feedback save failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, FeedbackResponse{Feedback: fb})
}

func (s *Server) handleGetFeedback(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	feedbackType := models.FeedbackType(c.Param("feedbackType"))
	if !feedbackType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid feedback type")
	}
	itemID := c.Param("itemId")

	fb, err := s.store.GetFeedback(c.Request().Context(), claims.UserID, feedbackType, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "feedback not found")
		}
		s.logger.Error("feedback lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, FeedbackResponse{Feedback: fb})
}
