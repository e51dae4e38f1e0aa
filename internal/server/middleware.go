package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/langzhe001/cf-domain/internal/correlation"
	apperrors "github.com/langzhe001/cf-domain/internal/errors"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

const bearerPrefix = "Bearer "

// requireAuth resolves the bearer token to a username and stores it in the
// echo context under "username". Missing, malformed, badly signed and expired
// tokens all produce the same 401; no further detail is exposed.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperrors.UnauthorizedError("missing bearer token")
		}

		username, err := s.app.VerifyToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return apperrors.UnauthorizedError("invalid or expired token")
		}

		c.Set("username", username)
		return next(c)
	}
}
