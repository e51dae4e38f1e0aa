// Package database provides the PostgreSQL connection pool, schema
// migrations, and the user repository (credentials + domain inventory).
package database
