package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	// --- Arrange ---
	r := New[string, int]()

	// --- Act ---
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 1))
	err := r.Register("b", 20)

	// --- Assert ---
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	v, ok := r.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v, "a failed registration must not overwrite")
	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, []int{2, 1}, r.All())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Forget(t *testing.T) {
	r := New[string, int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("c", 3))

	assert.True(t, r.Forget("b"))
	assert.False(t, r.Forget("b"))

	assert.Equal(t, []string{"a", "c"}, r.Keys())
	assert.Equal(t, 2, r.Len())

	// The key is free again.
	require.NoError(t, r.Register("b", 4))
	assert.Equal(t, []string{"a", "c", "b"}, r.Keys())
}
