package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tsumikidb/storage"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

func TestHashIndex(t *testing.T) {
	idx := storage.NewHashIndex("t", "ix")
	for i := 0; i < 50; i++ {
		require.NoError(t, idx.Insert(types.NewInteger(int64(i%5)), tuple.RID{Slot: uint32(i)}))
	}
	assert.ErrorIs(t, idx.Insert(types.NewInteger(0), tuple.RID{Slot: 0}), storage.ItemAlreadyExistsError)

	assert.Len(t, idx.Search(types.NewInteger(3)), 10)
	assert.Empty(t, idx.Search(types.NewInteger(9)))

	assert.True(t, idx.Delete(types.NewInteger(3), tuple.RID{Slot: 3}))
	assert.False(t, idx.Delete(types.NewInteger(3), tuple.RID{Slot: 3}))
	assert.Len(t, idx.Search(types.NewInteger(3)), 9)

	count := 0
	idx.Ascend(func(types.Value, tuple.RID) bool {
		count++
		return true
	})
	assert.Equal(t, 49, count)
}

func TestHashIndexPersist(t *testing.T) {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 4, nil)
	idx, err := storage.NewIndex(storage.HashIndexKind, "t", "ix")
	require.NoError(t, err)
	require.NoError(t, idx.Insert(types.NewVarchar("Bob"), tuple.RID{PageId: 1, Slot: 2}))
	require.NoError(t, st.WriteIndex(idx))

	loaded, err := st.ReadIndex("t", "ix", storage.HashIndexKind)
	require.NoError(t, err)
	assert.Equal(t, []tuple.RID{{PageId: 1, Slot: 2}}, loaded.Search(types.NewVarchar("Bob")))

	_, err = storage.NewIndex("bitmap", "t", "ix")
	assert.Error(t, err)
}

func TestIndexCursor(t *testing.T) {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 4, nil)
	heap := st.OpenHeapFile("foo", fooSchema)
	idx := storage.NewBTree("foo", "ix_a")
	for _, a := range []int{3, 1, 2, 1} {
		rid, err := heap.InsertTuple(fooRow(a))
		require.NoError(t, err)
		require.NoError(t, idx.Insert(types.NewInteger(int64(a)), rid))
	}

	keyCursor, err := storage.OpenKeyCursor(heap, idx, types.NewInteger(1))
	require.NoError(t, err)
	rows := drain(t, keyCursor)
	assert.Len(t, rows, 2)
	require.NoError(t, keyCursor.Restart())
	assert.Len(t, drain(t, keyCursor), 2)

	full, err := storage.OpenIndexCursor(heap, idx)
	require.NoError(t, err)
	ordered := make([]int64, 0)
	for _, tp := range drain(t, full) {
		ordered = append(ordered, tp.Value(0).ToInteger())
	}
	assert.Equal(t, []int64{1, 1, 2, 3}, ordered)
	assert.Equal(t, 2, st.OpenHandles())

	require.NoError(t, keyCursor.Close())
	require.NoError(t, full.Close())
	assert.Equal(t, 0, st.OpenHandles())

	_, err = storage.OpenIndexCursor(st.OpenHeapFile("bar", fooSchema), idx)
	assert.Error(t, err)
}
