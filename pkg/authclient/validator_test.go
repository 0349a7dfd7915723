package authclient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "42", "exp": exp.Unix(), "iat": time.Now().Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func storeWith(t *testing.T, access string, expiry time.Time) TokenStore {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, store.Save(TokenPair{
		AccessToken:  access,
		RefreshToken: "refresh-raw",
		AccessExpiry: expiry,
	}))
	return store
}

func TestValidateAccessTokenMissing(t *testing.T) {
	v := Validator{Store: NewMemoryStore()}
	got := v.ValidateAccessToken()
	assert.False(t, got.Valid)
	assert.Equal(t, "missing tokens", got.Reason)
}

func TestValidateAccessTokenMalformed(t *testing.T) {
	v := Validator{Store: storeWith(t, "not-a-jwt", time.Now().Add(time.Hour))}
	got := v.ValidateAccessToken()
	assert.False(t, got.Valid)
	assert.Equal(t, "malformed access token", got.Reason)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	now := time.Now()
	exp := now.Add(-time.Minute)
	v := Validator{
		Store: storeWith(t, signedToken(t, exp), exp),
		Now:   func() time.Time { return now },
	}
	got := v.ValidateAccessToken()
	assert.False(t, got.Valid)
	assert.Equal(t, "access token expired", got.Reason)
}

// A token expiring at exactly the current instant is already invalid:
// there is no grace window.
func TestValidateAccessTokenExpiryBoundary(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	v := Validator{
		Store: storeWith(t, signedToken(t, now), now),
		Now:   func() time.Time { return now },
	}
	got := v.ValidateAccessToken()
	assert.False(t, got.Valid)
	assert.Equal(t, "access token expired", got.Reason)
}

func TestValidateAccessTokenValid(t *testing.T) {
	now := time.Now()
	exp := now.Add(15 * time.Minute)
	v := Validator{
		Store: storeWith(t, signedToken(t, exp), exp),
		Now:   func() time.Time { return now },
	}
	got := v.ValidateAccessToken()
	assert.True(t, got.Valid)
	assert.Empty(t, got.Reason)
}

func TestValidateAccessTokenZeroExpiry(t *testing.T) {
	v := Validator{Store: storeWith(t, signedToken(t, time.Now().Add(time.Hour)), time.Time{})}
	got := v.ValidateAccessToken()
	assert.False(t, got.Valid)
	assert.Equal(t, "access token expired", got.Reason)
}
