package domain

import "errors"

var (
	ErrMissingFields      = errors.New("missing fields")
	ErrUserExists         = errors.New("user exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrProvisioningFailed means the remote record creation did not report
	// success; the local inventory is untouched.
	ErrProvisioningFailed = errors.New("provisioning failed")

	// ErrInconsistentState means the remote record was created but the local
	// inventory append failed. The remote side now holds a record with no
	// inventory entry; callers must not report this as success.
	ErrInconsistentState = errors.New("remote record created but inventory update failed")

	// ErrVersionConflict signals a lost optimistic-concurrency race on the
	// inventory; the write is safe to retry after re-reading.
	ErrVersionConflict = errors.New("inventory version conflict")
)
