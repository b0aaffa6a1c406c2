package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("yandexToken", "oauth-abc"))

	got, found, err := s.Get("yandexToken")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "oauth-abc", got)
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Remove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("vkid_token", "tok"))
	require.NoError(t, s.Remove("vkid_token"))

	_, found, err := s.Get("vkid_token")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing a missing key is not an error
	assert.NoError(t, s.Remove("vkid_token"))
}

func TestStore_TTLExpiry(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetWithTTL("vkid_token", "tok", 10*time.Millisecond))

	got, found, err := s.Get("vkid_token")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok", got)

	time.Sleep(20 * time.Millisecond)

	_, found, err = s.Get("vkid_token")
	require.NoError(t, err)
	assert.False(t, found, "expired entry should report not found")
}

func TestStore_TTLDefault(t *testing.T) {
	s := openTestStore(t)

	// Non-positive TTL falls back to the 24h default, so the value
	// must still be readable immediately.
	require.NoError(t, s.SetWithTTL("consent", "accepted", 0))

	got, found, err := s.Get("consent")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "accepted", got)
}

func TestStore_OverwriteKeepsLatest(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("vkid_token", "old"))
	require.NoError(t, s.Set("vkid_token", "new"))

	got, found, err := s.Get("vkid_token")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", got)
}
