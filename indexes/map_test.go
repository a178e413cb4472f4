package indexes

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBasicPutIterateGet(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	m, err := NewMapIndex(fork, metaldb.NewIndexAddress("test"), metaldb.Uint8Key{}, metaldb.Int32Value{})
	require.NoError(t, err)

	require.NoError(t, m.Put(1, 10))
	require.NoError(t, m.Put(2, 20))
	require.NoError(t, m.Put(1, 11))

	it := m.Iterate()
	var got []MapEntry[uint8, int32]
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, e)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []MapEntry[uint8, int32]{{Key: 1, Value: 11}, {Key: 2, Value: 20}}, got)

	_, ok := m.Get(3)
	assert.False(t, ok)
}

func TestMapClearMixesWithSnapshot(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	addr := metaldb.NewIndexAddress("test")

	seed := db.Fork()
	seedMap, err := NewMapIndex(seed, addr, metaldb.Uint8Key{}, metaldb.Int32Value{})
	require.NoError(t, err)
	for i := uint8(0); i < 16; i++ {
		require.NoError(t, seedMap.Put(i, int32(i)))
	}
	patch := seed.IntoPatch()
	require.NoError(t, db.Merge(patch))

	snap := db.Snapshot()
	defer snap.Close()

	fork := db.Fork()
	defer fork.Close()
	m, err := NewMapIndex(fork, addr, metaldb.Uint8Key{}, metaldb.Int32Value{})
	require.NoError(t, err)
	require.NoError(t, m.Clear())
	require.NoError(t, m.Put(0, 42))

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.Equal(t, []uint8{0}, keys)

	snapMap, err := NewMapIndex(snap, addr, metaldb.Uint8Key{}, metaldb.Int32Value{})
	require.NoError(t, err)
	snapKeys, err := snapMap.Keys()
	require.NoError(t, err)
	assert.Len(t, snapKeys, 16)
}

func TestKeySetAndValueSet(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	ks, err := NewKeySetIndex(fork, metaldb.NewIndexAddress("ids"), metaldb.StringKey{})
	require.NoError(t, err)
	require.NoError(t, ks.Add("alice"))
	require.NoError(t, ks.Add("bob"))
	assert.True(t, ks.Contains("alice"))
	require.NoError(t, ks.Remove("alice"))
	assert.False(t, ks.Contains("alice"))

	vs, err := NewValueSetIndex(fork, metaldb.NewIndexAddress("payloads"), metaldb.BytesValue{})
	require.NoError(t, err)
	require.NoError(t, vs.Add([]byte("hello")))
	assert.True(t, vs.Contains([]byte("hello")))
	assert.False(t, vs.Contains([]byte("world")))
}
