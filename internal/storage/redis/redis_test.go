package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	srv := miniredis.RunT(t)

	s, err := New(Config{Addr: srv.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestConnectFailure(t *testing.T) {
	_, err := New(Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("k", []byte("v"), 0))

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete("k"))

	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMissingKeyIsNotAnError(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpiry(t *testing.T) {
	srv := miniredis.RunT(t)

	s, err := New(Config{Addr: srv.Addr()})
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))

	srv.FastForward(2 * time.Minute)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKeyPrefixIsolation(t *testing.T) {
	srv := miniredis.RunT(t)

	a, err := New(Config{Addr: srv.Addr(), KeyPrefix: "a:"})
	require.NoError(t, err)

	b, err := New(Config{Addr: srv.Addr(), KeyPrefix: "b:"})
	require.NoError(t, err)

	require.NoError(t, a.Set("k", []byte("from-a"), 0))

	got, err := b.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
