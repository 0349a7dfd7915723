package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errServer(status int, msg string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}))
}

func TestClientErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"401 is AuthError", http.StatusUnauthorized, func(t *testing.T, err error) {
			var e *AuthError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusUnauthorized, e.Status)
		}},
		{"403 is AuthError", http.StatusForbidden, func(t *testing.T, err error) {
			var e *AuthError
			require.ErrorAs(t, err, &e)
		}},
		{"422 is ValidationError", http.StatusUnprocessableEntity, func(t *testing.T, err error) {
			var e *ValidationError
			require.ErrorAs(t, err, &e)
		}},
		{"400 is ValidationError", http.StatusBadRequest, func(t *testing.T, err error) {
			var e *ValidationError
			require.ErrorAs(t, err, &e)
		}},
		{"500 is NetworkError", http.StatusInternalServerError, func(t *testing.T, err error) {
			var e *NetworkError
			require.ErrorAs(t, err, &e)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := errServer(tc.status, "nope")
			defer srv.Close()

			client := New(srv.URL, NewMemoryStore())
			_, err := client.Login(context.Background(), "x@example.com", "pw")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClientUnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := New(srv.URL, NewMemoryStore())
	_, err := client.Login(context.Background(), "x@example.com", "pw")

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestClientLogoutClearsWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(samplePair()))

	client := New(srv.URL, store)
	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, HasTokens(store))
}

func TestClientRefreshRejectionClearsStore(t *testing.T) {
	srv := errServer(http.StatusUnauthorized, "invalid refresh token")
	defer srv.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(samplePair()))

	client := New(srv.URL, store)
	_, err := client.RefreshTokens(context.Background())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, HasTokens(store))
}

func TestClientRefreshWithoutTokens(t *testing.T) {
	srv := errServer(http.StatusUnauthorized, "unused")
	defer srv.Close()

	client := New(srv.URL, NewMemoryStore())
	_, err := client.RefreshTokens(context.Background())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

// Concurrent refreshes must serialize: every caller gets a usable pair
// and the store never holds a half-rotated one.
func TestClientRefreshSerialized(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": User{ID: 1},
			"access": map[string]any{
				"token": signedToken(t, samplePair().AccessExpiry), "expires": samplePair().AccessExpiry,
			},
			"refresh": map[string]any{
				"token": "rotated-" + string(rune('a'+n)), "expires": samplePair().AccessExpiry,
			},
		})
	}))
	defer srv.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(samplePair()))
	client := New(srv.URL, store)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := client.RefreshTokens(context.Background())
			assert.NoError(t, err)
			assert.NotEmpty(t, pair.RefreshToken)
		}()
	}
	wg.Wait()

	got, ok := store.Load()
	require.True(t, ok)
	assert.Contains(t, got.RefreshToken, "rotated-")
}

func TestUserHasRole(t *testing.T) {
	u := User{Roles: []string{"Trainer"}}
	assert.True(t, u.HasRole("trainer"), "role comparison is case-insensitive")
	assert.False(t, u.HasRole("sales"))

	admin := User{Roles: []string{"admin"}}
	assert.True(t, admin.HasRole("sales"))
	assert.True(t, admin.HasRole("course_manager"))
}
