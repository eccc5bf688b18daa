package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRegistryRegisterAndGet(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("a", 1))

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestBaseRegistryRegisterEmptyNameErrors(t *testing.T) {
	r := NewBaseRegistry[int]()
	err := r.Register("", 1)
	assert.Error(t, err)
}

func TestBaseRegistryRegisterOverwriteKeepsSingleOrderEntry(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("a", 2))

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"a"}, r.Names())
}

func TestBaseRegistryListAndNamesPreserveRegistrationOrder(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("c", 3))
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	assert.Equal(t, []string{"c", "a", "b"}, r.Names())
	assert.Equal(t, []int{3, 1, 2}, r.List())
}

func TestBaseRegistrySortedNames(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("c", 3))
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	assert.Equal(t, []string{"a", "b", "c"}, r.SortedNames())
}

func TestBaseRegistryRemove(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	require.NoError(t, r.Remove("a"))

	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, r.Names())
	assert.Equal(t, 1, r.Count())
}

func TestBaseRegistryRemoveMissingErrors(t *testing.T) {
	r := NewBaseRegistry[int]()
	err := r.Remove("missing")
	assert.Error(t, err)
}

func TestBaseRegistryCountAndClear(t *testing.T) {
	r := NewBaseRegistry[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	assert.Equal(t, 2, r.Count())

	r.Clear()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Names())
}
