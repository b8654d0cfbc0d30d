package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set("k", "v1"))
	require.NoError(t, m.Set("k", "v2"))

	value, ok, err := m.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", value)

	require.NoError(t, m.Delete("k"))
	require.NoError(t, m.Delete("k"))
	_, ok, err = m.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryEmptyKey(t *testing.T) {
	m := NewMemory()
	require.ErrorIs(t, m.Set("", "v"), types.ErrKeyEmpty)
	_, _, err := m.Get("")
	require.ErrorIs(t, err, types.ErrKeyEmpty)
	require.ErrorIs(t, m.Delete(""), types.ErrKeyEmpty)
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	require.ErrorIs(t, m.Set("k", "v"), types.ErrStoreClosed)
	_, _, err := m.Get("k")
	require.ErrorIs(t, err, types.ErrStoreClosed)
	require.ErrorIs(t, m.Delete("k"), types.ErrStoreClosed)
}
