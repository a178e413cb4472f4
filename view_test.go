package metaldb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenViewAllocatesIdentityOnFirstOpen(t *testing.T) {
	db := NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	v, err := OpenView(fork, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, v.Meta().Identity)
	assert.Equal(t, IndexTypeMap, v.Meta().Type)
}

func TestOpenViewReopenSameTypeReusesIdentity(t *testing.T) {
	db := NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	first, err := OpenView(fork, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	require.NoError(t, db.Merge(fork.IntoPatch()))

	fork2 := db.Fork()
	defer fork2.Close()
	second, err := OpenView(fork2, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	assert.Equal(t, first.Meta().Identity, second.Meta().Identity)
}

func TestOpenViewTypeMismatch(t *testing.T) {
	db := NewTemporaryDB()

	fork := db.Fork()
	_, err := OpenView(fork, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	require.NoError(t, db.Merge(fork.IntoPatch()))

	fork2 := db.Fork()
	defer fork2.Close()
	_, err = OpenView(fork2, NewIndexAddress("test"), IndexTypeList)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestOpenViewTombstoneIsReusable(t *testing.T) {
	db := NewTemporaryDB()

	fork := db.Fork()
	_, err := OpenView(fork, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	ra := fork.Resolve(NewIndexAddress("test"))
	fork.Catalog().Tombstone(fork, ra)
	require.NoError(t, db.Merge(fork.IntoPatch()))

	fork2 := db.Fork()
	defer fork2.Close()
	v, err := OpenView(fork2, NewIndexAddress("test"), IndexTypeList)
	require.NoError(t, err)
	assert.Equal(t, IndexTypeList, v.Meta().Type)
}

func TestViewReadOnlyAccessRejectsWrites(t *testing.T) {
	db := NewTemporaryDB()
	fork := db.Fork()
	_, err := OpenView(fork, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)
	require.NoError(t, db.Merge(fork.IntoPatch()))
	require.NoError(t, fork.Close())

	snap := db.Snapshot()
	defer snap.Close()
	v, err := OpenView(snap, NewIndexAddress("test"), IndexTypeMap)
	require.NoError(t, err)

	err = v.Put([]byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrReadOnlyAccess)
}
