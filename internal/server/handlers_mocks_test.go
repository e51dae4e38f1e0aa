package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/langzhe001/cf-domain/internal/config"
	"github.com/langzhe001/cf-domain/internal/domain"
	apperrors "github.com/langzhe001/cf-domain/internal/errors"

	"github.com/labstack/echo/v4"
)

// --- Mock implementations ---

type mockAppService struct {
	registerFn    func(ctx context.Context, username, password string) error
	loginFn       func(ctx context.Context, username, password string) (string, error)
	verifyTokenFn func(token string) (string, error)
	listDomainsFn func(ctx context.Context, username string) ([]domain.DomainMapping, error)
	addDomainFn   func(ctx context.Context, username, subdomain, target string) (string, error)
}

func (m *mockAppService) Register(ctx context.Context, username, password string) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, username, password)
	}
	return nil
}

func (m *mockAppService) Login(ctx context.Context, username, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return "test-token", nil
}

func (m *mockAppService) VerifyToken(token string) (string, error) {
	if m.verifyTokenFn != nil {
		return m.verifyTokenFn(token)
	}
	return "", errors.New("not implemented")
}

func (m *mockAppService) ListDomains(ctx context.Context, username string) ([]domain.DomainMapping, error) {
	if m.listDomainsFn != nil {
		return m.listDomainsFn(ctx, username)
	}
	return nil, nil
}

func (m *mockAppService) AddDomain(ctx context.Context, username, subdomain, target string) (string, error) {
	if m.addDomainFn != nil {
		return m.addDomainFn(ctx, username, subdomain, target)
	}
	return subdomain, nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    &config.Config{Port: "8080", TokenTTL: time.Hour},
		app:       app,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}
