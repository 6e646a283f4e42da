package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lincolndiasramos-coder/linkards-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		TokenLifetimeHours: 1,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	profileID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), profileID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, profileID, claims.ProfileID)
	assert.Equal(t, profileID.String(), claims.Subject)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)

	past := time.Now().Add(-48 * time.Hour)
	impl.timeFunc = func() time.Time { return past }
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestBcryptPasskeyRoundTrip(t *testing.T) {
	t.Parallel()

	pk := NewBcryptPasskey(4)

	hash, err := pk.Hash("sesame")
	require.NoError(t, err)
	require.NotEqual(t, "sesame", hash)

	assert.NoError(t, pk.Compare(hash, "sesame"))
	assert.ErrorIs(t, pk.Compare(hash, "wrong"), ErrInvalidPasskey)
}
