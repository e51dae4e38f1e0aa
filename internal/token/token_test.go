package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langzhe001/cf-domain/internal/domain"
)

const testSecret = "test-session-secret"

func TestIssueVerify_Roundtrip(t *testing.T) {
	svc := NewService(testSecret, time.Hour, clockwork.NewFakeClock())

	tok, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	subject, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issuer := NewService(testSecret, time.Hour, clock)
	verifier := NewService("a-different-secret", time.Hour, clock)

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := NewService(testSecret, time.Hour, clock)

	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Minute)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_StillValidJustBeforeExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := NewService(testSecret, time.Hour, clock)

	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)

	subject, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewService(testSecret, time.Hour, clockwork.NewFakeClock())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	svc := NewService(testSecret, time.Hour, clockwork.NewFakeClock())

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RejectsMissingExpiry(t *testing.T) {
	svc := NewService(testSecret, time.Hour, clockwork.NewFakeClock())

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(noExpiry)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RejectsEmptySubject(t *testing.T) {
	svc := NewService(testSecret, time.Hour, clockwork.NewFakeClock())

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(noSubject)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
