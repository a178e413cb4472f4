package indexes

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPushTruncateSet(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	list, err := NewListIndex(fork, metaldb.NewIndexAddress("events"), metaldb.Uint64Value{})
	require.NoError(t, err)

	for i := uint64(0); i < 100; i++ {
		require.NoError(t, list.Push(i))
	}
	assert.Equal(t, uint64(100), list.Len())

	require.NoError(t, list.Truncate(10))
	assert.Equal(t, uint64(10), list.Len())

	var got []uint64
	it := list.Iter()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	require.NoError(t, list.Set(9, 999))
	v, ok := list.Get(9)
	require.True(t, ok)
	assert.Equal(t, uint64(999), v)

	err = list.Set(10, 1)
	assert.ErrorIs(t, err, metaldb.ErrOutOfRange)
}

func TestListPopAndClear(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	list, err := NewListIndex(fork, metaldb.NewIndexAddress("events"), metaldb.Uint64Value{})
	require.NoError(t, err)

	require.NoError(t, list.Extend([]uint64{1, 2, 3}))
	v, ok, err := list.Pop()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(3), v)
	assert.Equal(t, uint64(2), list.Len())

	require.NoError(t, list.Clear())
	assert.Equal(t, uint64(0), list.Len())
	_, ok, err = list.Pop()
	require.NoError(t, err)
	assert.False(t, ok)
}
