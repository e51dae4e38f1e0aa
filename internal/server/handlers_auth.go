package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/langzhe001/cf-domain/internal/domain"
	apperrors "github.com/langzhe001/cf-domain/internal/errors"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	err := s.app.Register(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return apperrors.ValidationError("username and password are required")
	case errors.Is(err, domain.ErrUserExists):
		return apperrors.ValidationError("user already exists").WithField("username", req.Username)
	case err != nil:
		return apperrors.InternalError("failed to register user", err)
	}

	if err := c.JSON(http.StatusOK, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.UnauthorizedError("invalid credentials")
	}

	token, err := s.app.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.UnauthorizedError("invalid credentials")
	case err != nil:
		return apperrors.InternalError("failed to log in", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"token": token}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
