package domain

import "context"

// DNSProvider creates CNAME records at the upstream DNS service.
// Implementations must treat any non-success response as an error.
type DNSProvider interface {
	CreateCNAME(ctx context.Context, subdomain, target string) error
}

// TokenIssuer issues and verifies bearer tokens bound to a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
	// Verify returns the embedded username. Malformed, badly signed and
	// expired tokens all fail with ErrInvalidToken.
	Verify(token string) (string, error)
}

// PasswordHasher derives and checks one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only if password matches the stored digest.
	Compare(hash, password string) error
}
