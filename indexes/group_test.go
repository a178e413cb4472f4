package indexes

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWalletList(a metaldb.Access, addr metaldb.IndexAddress) (*ListIndex[uint64], error) {
	return NewListIndex(a, addr, metaldb.Uint64Value{})
}

func TestGroupNamespacesAreIsolated(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	group := NewGroup(fork, metaldb.NewIndexAddress("wallets"), metaldb.Uint64Key{}, openWalletList)

	list7, err := group.Get(7)
	require.NoError(t, err)
	require.NoError(t, list7.Extend([]uint64{1, 2, 3}))

	list8, err := group.Get(8)
	require.NoError(t, err)
	require.NoError(t, list8.Extend([]uint64{9}))

	assert.Equal(t, uint64(3), list7.Len())
	assert.Equal(t, uint64(1), list8.Len())

	var got7 []uint64
	it := list7.Iter()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		got7 = append(got7, v)
	}
	assert.Equal(t, []uint64{1, 2, 3}, got7)
}

func TestLazyOpensOnlyOnce(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	opens := 0
	opener := func(a metaldb.Access, addr metaldb.IndexAddress) (*Entry[string], error) {
		opens++
		return NewEntry(a, addr, metaldb.StringValue{})
	}

	lazy := NewLazy(fork, metaldb.NewIndexAddress("config"), opener)
	assert.Equal(t, 0, opens)

	e, err := lazy.Get()
	require.NoError(t, err)
	require.NoError(t, e.Set("XNM"))

	again, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, opens)
	v, ok := again.Get()
	require.True(t, ok)
	assert.Equal(t, "XNM", v)
}
