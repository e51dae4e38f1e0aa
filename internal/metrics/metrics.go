// Package metrics defines the prometheus collectors shared across components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provisioning metrics
var (
	// ProvisioningTotal tracks AddDomain outcomes: success, provider_failed, inconsistent
	ProvisioningTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provisioning_total",
			Help: "Domain provisioning attempts by outcome",
		},
		[]string{"outcome"},
	)

	// InventoryConflictRetries counts optimistic-concurrency conflicts on the
	// domain inventory that were retried
	InventoryConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_conflict_retries_total",
			Help: "Optimistic-concurrency conflicts retried during inventory appends",
		},
	)
)

// DNS provider metrics
var (
	// DNSRecordCreateDuration tracks Cloudflare record-creation latency in seconds
	DNSRecordCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dns_record_create_duration_seconds",
			Help:    "Cloudflare DNS record creation duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// DNSRecordCreateTotal tracks Cloudflare record-creation calls by status
	DNSRecordCreateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dns_record_create_total",
			Help: "Cloudflare DNS record creation calls by status",
		},
		[]string{"status"},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Auth metrics
var (
	// AuthAttemptsTotal tracks register/login attempts by operation and status
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Authentication attempts by operation and status",
		},
		[]string{"operation", "status"},
	)
)
