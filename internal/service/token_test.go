package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return &TokenService{
		Secret: []byte("test-jwt-secret"),
		TTL:    24 * time.Hour,
	}
}

func signToken(t *testing.T, secret []byte, subject string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	token, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, svc.Validate(token, "alice"))
}

func TestTokenService_Issue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	token, err := svc.Issue("alice")
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(tkn *jwt.Token) (any, error) {
		return svc.Secret, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(svc.TTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_Validate_WrongUsername(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	token, err := svc.Issue("alice")
	require.NoError(t, err)

	assert.False(t, svc.Validate(token, "bob"))
}

func TestTokenService_Validate_FailsClosed(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed token", token: "not-a-jwt"},
		{name: "empty token", token: ""},
		{name: "wrong secret", token: signToken(t, []byte("other-secret"), "alice", time.Now().Add(time.Hour))},
		{name: "expired", token: signToken(t, []byte("test-jwt-secret"), "alice", time.Now().Add(-time.Second))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, svc.Validate(tt.token, "alice"))
		})
	}
}

func TestTokenService_Validate_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()

	aboutToExpire := signToken(t, svc.Secret, "alice", time.Now().Add(time.Second))
	assert.True(t, svc.Validate(aboutToExpire, "alice"))

	justExpired := signToken(t, svc.Secret, "alice", time.Now().Add(-time.Second))
	assert.False(t, svc.Validate(justExpired, "alice"))
}

func TestTokenService_ExtractSubject(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	token, err := svc.Issue("alice")
	require.NoError(t, err)

	sub, err := svc.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestTokenService_ExtractSubject_IgnoresExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	expired := signToken(t, svc.Secret, "alice", time.Now().Add(-time.Hour))

	sub, err := svc.ExtractSubject(expired)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestTokenService_ExtractSubject_RejectsBadSignature(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService()
	forged := signToken(t, []byte("other-secret"), "alice", time.Now().Add(time.Hour))

	_, err := svc.ExtractSubject(forged)
	require.Error(t, err)
}
