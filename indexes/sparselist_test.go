package indexes

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseListIterationSkipsHoles(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	sl, err := NewSparseListIndex(fork, metaldb.NewIndexAddress("slots"), metaldb.StringValue{})
	require.NoError(t, err)

	for _, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, sl.Push(v))
	}
	_, removed, err := sl.Remove(1)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, uint64(3), sl.Len())
	assert.Equal(t, uint64(4), sl.Capacity())

	var got []string
	it := sl.Iter()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "c", "d"}, got)

	_, ok := sl.Get(1)
	assert.False(t, ok)
}
