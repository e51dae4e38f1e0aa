// Package dns talks to the Cloudflare API to create DNS records.
//
// The client is wrapped in a circuit breaker so a misbehaving Cloudflare API
// fails fast instead of holding request goroutines on a dead upstream.
package dns

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"github.com/langzhe001/cf-domain/internal/metrics"
)

// recordTTL is the fixed TTL for provisioned CNAME records, in seconds.
const recordTTL = 3600

// recordCreator is the slice of the Cloudflare API this package needs.
type recordCreator interface {
	CreateDNSRecord(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.CreateDNSRecordParams) (cloudflare.DNSRecord, error)
}

// CloudflareProvider implements domain.DNSProvider against a single zone.
type CloudflareProvider struct {
	api  recordCreator
	zone *cloudflare.ResourceContainer
	cb   circuitbreaker.CircuitBreaker[any]
}

func NewCloudflareProvider(apiToken, zoneID string) (*CloudflareProvider, error) {
	api, err := cloudflare.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}
	return newProvider(api, zoneID), nil
}

func newProvider(api recordCreator, zoneID string) *CloudflareProvider {
	return &CloudflareProvider{
		api:  api,
		zone: cloudflare.ZoneIdentifier(zoneID),
		cb:   newBreaker(),
	}
}

// newBreaker creates a circuit breaker with the following settings:
// - WithFailureRateThreshold: 60% failure rate, min 5 requests, 10s rolling window
// - WithDelay: 30s before transitioning from open to half-open
// - WithSuccessThreshold: 1 successful request in half-open to close
func newBreaker() circuitbreaker.CircuitBreaker[any] {
	return circuitbreaker.Builder[any]().
		WithFailureRateThreshold(60, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "cloudflare",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)

			metrics.CircuitBreakerStateChanges.WithLabelValues("cloudflare", e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues("cloudflare").Set(stateToFloat(e.NewState))
		}).
		Build()
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// CreateCNAME creates a CNAME record aliasing subdomain to target with a
// fixed TTL. Any transport error, API error or open circuit is returned as a
// plain error; callers decide how to classify it.
func (p *CloudflareProvider) CreateCNAME(ctx context.Context, subdomain, target string) error {
	if !p.cb.TryAcquirePermit() {
		metrics.DNSRecordCreateTotal.WithLabelValues("circuit_open").Inc()
		return fmt.Errorf("cloudflare circuit breaker open: %w", circuitbreaker.ErrOpen)
	}

	start := time.Now()
	_, err := p.api.CreateDNSRecord(ctx, p.zone, cloudflare.CreateDNSRecordParams{
		Type:    "CNAME",
		Name:    subdomain,
		Content: target,
		TTL:     recordTTL,
	})
	metrics.DNSRecordCreateDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		p.cb.RecordError(err)
		metrics.DNSRecordCreateTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to create CNAME record: %w", err)
	}

	p.cb.RecordSuccess()
	metrics.DNSRecordCreateTotal.WithLabelValues("success").Inc()
	return nil
}
