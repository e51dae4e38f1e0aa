package domain

import (
	"context"
	"time"
)

// User is a registered account. Domains is the ordered inventory of
// subdomains the user has provisioned; insertion order is provisioning order.
type User struct {
	Username     string
	PasswordHash string
	Domains      []DomainMapping
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DomainMapping is one provisioned subdomain and the host its CNAME points at.
type DomainMapping struct {
	Subdomain string `json:"subdomain"`
	Target    string `json:"target"`
}

type UserRepository interface {
	// Create inserts a new user with an empty inventory.
	// Returns ErrUserExists if the username is already taken.
	Create(ctx context.Context, username, passwordHash string) error

	// GetByUsername returns ErrUserNotFound if no such user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ListDomains returns the user's inventory in insertion order.
	ListDomains(ctx context.Context, username string) ([]DomainMapping, error)

	// GetDomainsForUpdate reads the inventory together with its version
	// token for a subsequent CompareAndSwapDomains.
	GetDomainsForUpdate(ctx context.Context, username string) ([]DomainMapping, int64, error)

	// CompareAndSwapDomains overwrites the inventory only if the stored
	// version still equals expectedVersion. Returns ErrVersionConflict when
	// another writer got there first.
	CompareAndSwapDomains(ctx context.Context, username string, domains []DomainMapping, expectedVersion int64) error
}
