package authclient

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePair() TokenPair {
	return TokenPair{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-def",
		AccessExpiry: time.Now().Add(15 * time.Minute).Truncate(time.Second),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Load()
	assert.False(t, ok, "empty store should not report tokens")
	assert.False(t, HasTokens(store))

	require.NoError(t, store.Save(samplePair()))
	pair, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "access-abc", pair.AccessToken)
	assert.Equal(t, "refresh-def", pair.RefreshToken)
	assert.True(t, HasTokens(store))

	require.NoError(t, store.Clear())
	_, ok = store.Load()
	assert.False(t, ok, "cleared store should not report tokens")
}

func TestMemoryStoreIncompletePairNotLoadable(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(TokenPair{AccessToken: "only-access"}))

	_, ok := store.Load()
	assert.False(t, ok, "pair missing the refresh token must not load")
	assert.False(t, HasTokens(store))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	store := NewFileStore(path)

	_, ok := store.Load()
	assert.False(t, ok)

	want := samplePair()
	require.NoError(t, store.Save(want))

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.AccessExpiry.Equal(got.AccessExpiry))

	require.NoError(t, store.Clear())
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, store.Save(samplePair()))

	second := samplePair()
	second.AccessToken = "access-v2"
	second.RefreshToken = "refresh-v2"
	require.NoError(t, store.Save(second))

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "access-v2", got.AccessToken)
	assert.Equal(t, "refresh-v2", got.RefreshToken)
}
