package migration

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/olegnn/metaldb/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushWithNothingStagedIsConflict(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	err := Flush(fork, "test")
	assert.ErrorIs(t, err, metaldb.ErrMigrationConflict)
}

func TestStageIsInvisibleToLiveAccessBeforeFlush(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	staged := Stage("test", fork)
	ra := staged.Resolve(metaldb.NewIndexAddress("config"))
	staged.Put(ra, []byte("k"), []byte("v"))

	liveRA := access.NewPrefixed("test", fork).Resolve(metaldb.NewIndexAddress("config"))
	_, ok := fork.Get(liveRA, []byte("k"))
	assert.False(t, ok)

	stagedRA := access.NewMigration("test", fork).Resolve(metaldb.NewIndexAddress("config"))
	v, ok := fork.Get(stagedRA, []byte("k"))
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}
