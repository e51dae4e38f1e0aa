package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/langzhe001/cf-domain/internal/domain"
	apperrors "github.com/langzhe001/cf-domain/internal/errors"
)

type addDomainRequest struct {
	Subdomain string `json:"subdomain"`
	Target    string `json:"target"`
}

func (s *Server) handleListDomains(c echo.Context) error {
	username, ok := c.Get("username").(string)
	if !ok {
		return apperrors.InternalError("invalid username in context", nil)
	}

	domains, err := s.app.ListDomains(c.Request().Context(), username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError("user not found").WithField("username", username)
	case err != nil:
		return apperrors.InternalError("failed to list domains", err)
	}

	// An empty inventory serializes as [], never null.
	if domains == nil {
		domains = []domain.DomainMapping{}
	}

	if err := c.JSON(http.StatusOK, map[string][]domain.DomainMapping{"domains": domains}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAddDomain(c echo.Context) error {
	username, ok := c.Get("username").(string)
	if !ok {
		return apperrors.InternalError("invalid username in context", nil)
	}

	var req addDomainRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	subdomain, err := s.app.AddDomain(c.Request().Context(), username, req.Subdomain, req.Target)
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return apperrors.ValidationError("subdomain and target are required")
	case errors.Is(err, domain.ErrProvisioningFailed):
		return apperrors.ProviderError("failed to create DNS record", err).
			WithField("subdomain", req.Subdomain)
	case errors.Is(err, domain.ErrInconsistentState):
		return apperrors.InconsistentError("DNS record created but inventory update failed", err).
			WithField("subdomain", req.Subdomain)
	case err != nil:
		return apperrors.InternalError("failed to add domain", err)
	}

	response := map[string]any{
		"success": true,
		"domain":  subdomain,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
