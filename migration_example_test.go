package metaldb_test

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/olegnn/metaldb/access"
	"github.com/olegnn/metaldb/indexes"
	"github.com/olegnn/metaldb/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configV2 struct {
	Ticker       string
	Divisibility int32
}

// TestSchemaMigrationFlip mirrors a v1 -> v2 schema migration: v1 stored
// "ticker" and "divisibility" as separate entries under root "test"; v2
// merges them into one "config" entry while leaving "wallets" and an
// unrelated top-level list untouched.
func TestSchemaMigrationFlip(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	root := "test"

	seed := db.Fork()
	seedNS := access.NewPrefixedWrite(root, seed)

	ticker, err := indexes.NewEntry(seedNS, metaldb.NewIndexAddress("ticker"), metaldb.StringValue{})
	require.NoError(t, err)
	require.NoError(t, ticker.Set("XNM"))

	divisibility, err := indexes.NewEntry(seedNS, metaldb.NewIndexAddress("divisibility"), metaldb.Int32Value{})
	require.NoError(t, err)
	require.NoError(t, divisibility.Set(8))

	wallets, err := indexes.NewMapIndex(seedNS, metaldb.NewIndexAddress("wallets"), metaldb.StringKey{}, metaldb.Uint64Value{})
	require.NoError(t, err)
	require.NoError(t, wallets.Put("alice", 100))
	require.NoError(t, wallets.Put("bob", 200))

	unrelated, err := indexes.NewListIndex(seed, metaldb.NewIndexAddress("unrelated.list"), metaldb.Uint64Value{})
	require.NoError(t, err)
	require.NoError(t, unrelated.Extend([]uint64{1, 2, 3}))

	require.NoError(t, db.Merge(seed.IntoPatch()))

	// Stage v2.
	fork := db.Fork()
	staged := migration.Stage(root, fork)

	liveNS := access.NewPrefixedWrite(root, fork)
	oldTicker, err := indexes.NewEntry(liveNS, metaldb.NewIndexAddress("ticker"), metaldb.StringValue{})
	require.NoError(t, err)
	tickerVal, ok := oldTicker.Get()
	require.True(t, ok)

	config, err := indexes.NewEntry(staged, metaldb.NewIndexAddress("config"), metaldb.JSONValue[configV2]{})
	require.NoError(t, err)
	require.NoError(t, config.Set(configV2{Ticker: tickerVal, Divisibility: 8}))

	// Before flush: old schema is intact, staged schema readable only
	// through Migration access.
	assert.True(t, oldTicker.Exists())
	migrationNS := access.NewMigration(root, fork)
	assert.True(t, migrationNS.Exists(metaldb.NewIndexAddress("config")))
	stagedConfig, ok := config.Get()
	require.True(t, ok)
	assert.Equal(t, "XNM", stagedConfig.Ticker)

	// The migrator records a removal set for fields the new schema drops:
	// Flush only moves what was staged, it doesn't know which live fields
	// are obsolete.
	oldDivisibility, err := indexes.NewEntry(liveNS, metaldb.NewIndexAddress("divisibility"), metaldb.Int32Value{})
	require.NoError(t, err)
	require.NoError(t, oldTicker.Remove())
	require.NoError(t, oldDivisibility.Remove())

	require.NoError(t, migration.Flush(fork, root))
	require.NoError(t, db.Merge(fork.IntoPatch()))

	snap := db.Snapshot()
	defer snap.Close()

	liveSnapNS := access.NewPrefixed(root, snap)
	newConfig, err := indexes.NewEntry(liveSnapNS, metaldb.NewIndexAddress("config"), metaldb.JSONValue[configV2]{})
	require.NoError(t, err)
	got, ok := newConfig.Get()
	require.True(t, ok)
	assert.Equal(t, int32(8), got.Divisibility)
	assert.Equal(t, "XNM", got.Ticker)

	oldTickerAfter, err := indexes.NewEntry(liveSnapNS, metaldb.NewIndexAddress("ticker"), metaldb.StringValue{})
	require.NoError(t, err)
	assert.False(t, oldTickerAfter.Exists())

	unrelatedAfter, err := indexes.NewListIndex(snap, metaldb.NewIndexAddress("unrelated.list"), metaldb.Uint64Value{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), unrelatedAfter.Len())
}
