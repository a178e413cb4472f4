package indexes

import (
	"testing"

	"github.com/olegnn/metaldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryGetSetRemove(t *testing.T) {
	db := metaldb.NewTemporaryDB()
	fork := db.Fork()
	defer fork.Close()

	e, err := NewEntry(fork, metaldb.NewIndexAddress("config"), metaldb.StringValue{})
	require.NoError(t, err)

	_, ok := e.Get()
	assert.False(t, ok)
	assert.False(t, e.Exists())

	require.NoError(t, e.Set("XNM"))
	v, ok := e.Get()
	require.True(t, ok)
	assert.Equal(t, "XNM", v)
	assert.True(t, e.Exists())

	taken, existed, err := e.Take()
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "XNM", taken)
	assert.False(t, e.Exists())
}
