package metaldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentDBMergeAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaldb.bolt")

	db, err := OpenPersistentDB(path, NewDBOptions())
	require.NoError(t, err)
	defer db.Close()

	fork := db.Fork()
	ra := fork.Resolve(wallets)
	fork.Put(ra, []byte("alice"), []byte("100"))
	require.NoError(t, db.MergeSync(fork.IntoPatch()))
	require.NoError(t, fork.Close())

	snap := db.Snapshot()
	defer snap.Close()
	v, ok := snap.Get(ra, []byte("alice"))
	require.True(t, ok)
	assert.Equal(t, []byte("100"), v)
}

func TestPersistentDBClearedRangeIsFullyRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaldb.bolt")
	db, err := OpenPersistentDB(path, NewDBOptions())
	require.NoError(t, err)
	defer db.Close()

	seed := db.Fork()
	ra := seed.Resolve(wallets)
	for i := 0; i < 8; i++ {
		seed.Put(ra, []byte{byte(i)}, []byte{byte(i)})
	}
	require.NoError(t, db.Merge(seed.IntoPatch()))

	fork := db.Fork()
	fork.Clear(ra)
	require.NoError(t, db.Merge(fork.IntoPatch()))

	snap := db.Snapshot()
	defer snap.Close()
	it := snap.Iterate(ra, nil)
	assert.False(t, it.Next())
}

func TestCheckpointIsIndependentOfSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.bolt")
	ckptPath := filepath.Join(dir, "checkpoint.bolt")

	db, err := OpenPersistentDB(srcPath, NewDBOptions())
	require.NoError(t, err)
	defer db.Close()

	first := make([]byte, 1024)
	for i := range first {
		first[i] = 0x01
	}

	fork := db.Fork()
	entryAddr := NewIndexAddress("entries")
	fork.Put(fork.Resolve(entryAddr), []byte("first"), first)
	require.NoError(t, db.MergeSync(fork.IntoPatch()))

	require.NoError(t, db.Checkpoint(ckptPath))

	second := make([]byte, 1024)
	for i := range second {
		second[i] = 0x02
	}
	fork2 := db.Fork()
	fork2.Put(fork2.Resolve(entryAddr), []byte("second"), second)
	require.NoError(t, db.MergeSync(fork2.IntoPatch()))

	ckptDB, err := OpenPersistentDB(ckptPath, NewDBOptions())
	require.NoError(t, err)
	defer ckptDB.Close()

	snap := ckptDB.Snapshot()
	defer snap.Close()
	ra := baseResolve(entryAddr)

	v, ok := snap.Get(ra, []byte("first"))
	require.True(t, ok)
	assert.Equal(t, first, v)

	_, ok = snap.Get(ra, []byte("second"))
	assert.False(t, ok, "checkpoint must not see writes made after it was taken")
}

func TestTemporaryDBMergeIsImmediatelyVisible(t *testing.T) {
	db := NewTemporaryDB()
	fork := db.Fork()
	ra := fork.Resolve(wallets)
	fork.Put(ra, []byte("a"), []byte("1"))
	require.NoError(t, db.Merge(fork.IntoPatch()))

	snap := db.Snapshot()
	defer snap.Close()
	v, ok := snap.Get(ra, []byte("a"))
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)
}
