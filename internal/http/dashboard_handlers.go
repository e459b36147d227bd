package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
)

func (s *Server) handleDashboard(c echo.Context) error {
	claims, ok := auth.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	resp, err := s.aggregator.Dashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		s.logger.Error("dashboard assembly failed",
			zap.String("user_id", claims.UserID),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch dashboard data")
	}

	return c.JSON(http.StatusOK, resp)
}
