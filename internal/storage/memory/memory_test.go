package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s := New()

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
	s := New()

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, s.Delete("missing"))
}

func TestExpiry(t *testing.T) {
	s := New()

	require.NoError(t, s.Set("k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()

	require.NoError(t, s.Set("k", []byte("abc"), 0))

	got, err := s.Get("k")
	require.NoError(t, err)

	got[0] = 'x'

	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestReset(t *testing.T) {
	s := New()

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Reset())

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)
}
