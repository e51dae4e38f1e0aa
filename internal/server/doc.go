// Package server exposes the JSON API over HTTP: registration, login, and
// the authenticated domain inventory endpoints, plus health probes and
// Prometheus metrics.
package server
