package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/langzhe001/cf-domain/internal/domain"
	"github.com/langzhe001/cf-domain/internal/metrics"
	"github.com/langzhe001/cf-domain/internal/retry"
)

const (
	// appendMaxAttempts bounds the optimistic-concurrency retry loop on the
	// inventory. A version conflict means another writer for the same user
	// committed in the meantime, so every retry follows system-wide progress;
	// the bound only has to exceed realistic per-user write concurrency.
	appendMaxAttempts = 50
	appendBackoff     = 1 * time.Millisecond
	appendMaxBackoff  = 25 * time.Millisecond
)

type Service struct {
	users     domain.UserRepository
	dns       domain.DNSProvider
	tokens    domain.TokenIssuer
	passwords domain.PasswordHasher
}

func NewService(users domain.UserRepository, dns domain.DNSProvider, tokens domain.TokenIssuer, passwords domain.PasswordHasher) *Service {
	return &Service{
		users:     users,
		dns:       dns,
		tokens:    tokens,
		passwords: passwords,
	}
}

// Register creates a new user with an empty domain inventory.
// Returns domain.ErrUserExists if the username is taken.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrMissingFields
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, username, hash); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	slog.InfoContext(ctx, "User registered", "username", username)
	return nil
}

// Login verifies the credentials and issues a bearer token bound to the
// username. Unknown users and wrong passwords both fail with
// domain.ErrInvalidCredentials; no distinction is exposed.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.passwords.Compare(user.PasswordHash, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return tok, nil
}

// VerifyToken returns the username a bearer token is bound to.
func (s *Service) VerifyToken(tok string) (string, error) {
	return s.tokens.Verify(tok)
}

// ListDomains returns the user's inventory in provisioning order.
func (s *Service) ListDomains(ctx context.Context, username string) ([]domain.DomainMapping, error) {
	return s.users.ListDomains(ctx, username)
}

// AddDomain provisions a subdomain: first the remote CNAME record, then the
// local inventory append.
//
// If the remote call fails the inventory is untouched and the error wraps
// domain.ErrProvisioningFailed. If the remote call succeeds but the append
// fails, the error wraps domain.ErrInconsistentState: the provider now holds
// a record with no inventory entry, and that divergence must stay visible to
// the caller. No rollback of the remote record is attempted.
func (s *Service) AddDomain(ctx context.Context, username, subdomain, target string) (string, error) {
	if subdomain == "" || target == "" {
		return "", domain.ErrMissingFields
	}

	if err := s.dns.CreateCNAME(ctx, subdomain, target); err != nil {
		metrics.ProvisioningTotal.WithLabelValues("provider_failed").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}

	mapping := domain.DomainMapping{Subdomain: subdomain, Target: target}
	if err := s.appendDomain(ctx, username, mapping); err != nil {
		metrics.ProvisioningTotal.WithLabelValues("inconsistent").Inc()
		slog.ErrorContext(ctx, "Remote record created but inventory append failed",
			"username", username,
			"subdomain", subdomain,
			"target", target,
			"error", err,
		)
		return "", fmt.Errorf("%w: %v", domain.ErrInconsistentState, err)
	}

	metrics.ProvisioningTotal.WithLabelValues("success").Inc()
	slog.InfoContext(ctx, "Domain provisioned", "username", username, "subdomain", subdomain, "target", target)
	return subdomain, nil
}

// appendDomain appends one mapping through a version-checked write, retrying
// only on version conflicts. Writers for distinct users never contend.
func (s *Service) appendDomain(ctx context.Context, username string, mapping domain.DomainMapping) error {
	policy := retry.Policy{
		MaxAttempts:    appendMaxAttempts,
		InitialBackoff: appendBackoff,
		MaxBackoff:     appendMaxBackoff,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			metrics.InventoryConflictRetries.Inc()
			slog.DebugContext(ctx, "Inventory version conflict, retrying",
				"username", username, "attempt", attempt, "backoff", backoff)
		},
	}

	classify := func(err error) retry.Action {
		if errors.Is(err, domain.ErrVersionConflict) {
			return retry.Retry
		}
		return retry.Stop
	}

	return retry.DoVoid(ctx, policy, classify, func() error {
		domains, version, err := s.users.GetDomainsForUpdate(ctx, username)
		if err != nil {
			return err
		}
		return s.users.CompareAndSwapDomains(ctx, username, append(domains, mapping), version)
	})
}
