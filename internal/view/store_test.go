package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReadWrite(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Read("missing")
	assert.False(t, ok)

	store.Write("k", "v1")
	v, ok := store.Read("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	store.Write("k", "v2")
	v, _ = store.Read("k")
	assert.Equal(t, "v2", v)

	store.Delete("k")
	_, ok = store.Read("k")
	assert.False(t, ok)
}

func TestSnapshotRestore(t *testing.T) {
	t.Run("Restores Previous Values", func(t *testing.T) {
		store := NewMemoryStore()
		store.Write("a", 1)
		store.Write("b", 2)

		snap := store.Snapshot("a", "b")
		store.Write("a", 10)
		store.Write("b", 20)

		store.Restore(snap)
		a, _ := store.Read("a")
		b, _ := store.Read("b")
		assert.Equal(t, 1, a)
		assert.Equal(t, 2, b)
	})

	t.Run("Removes Keys Absent At Snapshot Time", func(t *testing.T) {
		store := NewMemoryStore()
		snap := store.Snapshot("a")
		store.Write("a", 1)
		store.Restore(snap)
		_, ok := store.Read("a")
		assert.False(t, ok)
	})

	t.Run("Untracked Keys Untouched", func(t *testing.T) {
		store := NewMemoryStore()
		store.Write("a", 1)
		store.Write("other", "keep")
		snap := store.Snapshot("a")
		store.Write("a", 2)
		store.Write("other", "changed")
		store.Restore(snap)
		other, _ := store.Read("other")
		assert.Equal(t, "changed", other)
	})
}

func TestStaleMarking(t *testing.T) {
	store := NewMemoryStore()
	assert.False(t, store.IsStale("k"))

	store.MarkStale("k", "j")
	assert.True(t, store.IsStale("k"))
	assert.True(t, store.IsStale("j"))

	store.ClearStale("k")
	assert.False(t, store.IsStale("k"))
	assert.True(t, store.IsStale("j"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "order:ord-1", OrderKey("ord-1"))
	assert.Equal(t, "workflow:ord-1", WorkflowKey("ord-1"))
	assert.NotEqual(t, VendorOrdersKey, NotificationsKey)
}
