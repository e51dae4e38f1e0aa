// Package config loads process-wide configuration from environment variables
// (optionally a .env file) once at startup. Values are read-only afterwards.
package config
