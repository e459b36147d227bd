package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/store"
)

const minPasswordLength = 8

// SignupRequest is the request body for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenResponse is the response body for signup and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (s *Server) handleSignup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateSignup(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	user, err := s.store.CreateUser(c.Request().Context(), strings.TrimSpace(req.Name), req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "email already exists")
		}
		s.logger.Error("user creation failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, TokenResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	// Unknown email and wrong password produce the same response.
	user, err := s.store.UserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		s.logger.Error("user lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func validateSignup(req SignupRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.New("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
