package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/index/indextest"
	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

func openSimple(t *testing.T, spec index.Spec) index.Backend {
	idx := index.NewSimpleIndex(spec)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSimpleIndex_Conformance(t *testing.T) {
	indextest.Run(t, openSimple)
}

func TestSimpleIndex_RetainsStoredStrings(t *testing.T) {
	idx := index.NewSimpleIndex(indextest.PeopleSpec())
	name := value.StringVal("dora")

	require.NoError(t, idx.Apply([]index.Change{
		index.Add("d", value.Int32Val(9), value.BoolVal(true), name),
	}))
	assert.Equal(t, int32(2), name.Refs())

	name.Release()
	row, err := idx.Row("d")
	require.NoError(t, err)
	assert.Equal(t, "dora", row[2].(value.SIString).Text())
	assert.Equal(t, int32(2), name.Refs())
	value.Release(row[2])

	require.NoError(t, idx.Apply([]index.Change{index.Delete("d")}))
	assert.False(t, name.Live())
}

func TestSimpleIndex_FailedBatchRetainsNothing(t *testing.T) {
	idx := index.NewSimpleIndex(indextest.PeopleSpec())
	name := value.StringVal("ghost")
	defer name.Release()

	err := idx.Apply([]index.Change{
		index.Add("g", value.Int32Val(1), value.BoolVal(true), name),
		index.Delete("missing"),
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), name.Refs())
	assert.Equal(t, 0, idx.Len())
}

func TestSimpleIndex_CloseReleasesRows(t *testing.T) {
	idx := index.NewSimpleIndex(indextest.PeopleSpec())
	name := value.StringVal("temp")
	require.NoError(t, idx.Apply([]index.Change{
		index.Add("t", value.Int32Val(1), value.NullVal(), name),
	}))
	name.Release()

	require.NoError(t, idx.Close())
	assert.False(t, name.Live())
	assert.Equal(t, 0, idx.Len())
}

func TestSimpleIndex_CursorSkipsRowsDeletedMidIteration(t *testing.T) {
	idx := index.NewSimpleIndex(index.NewSpec(index.Property{Type: value.KindInt64}))
	require.NoError(t, idx.Apply([]index.Change{
		index.Add("1", value.Int64Val(1)),
		index.Add("2", value.Int64Val(2)),
		index.Add("3", value.Int64Val(3)),
	}))

	cur := idx.Find(nil)
	assert.Equal(t, 3, cur.Total())
	id, ok := cur.Next()
	require.True(t, ok)
	assert.Equal(t, index.ID("1"), id)

	require.NoError(t, idx.Apply([]index.Change{index.Delete("2")}))

	ids, err := cur.Collect()
	require.NoError(t, err)
	assert.Equal(t, []index.ID{"3"}, ids)
}

func TestSimpleIndex_NullQueryWarningStillRuns(t *testing.T) {
	idx := index.NewSimpleIndex(index.NewSpec(index.Property{Type: value.KindInt32}))
	require.NoError(t, idx.Apply([]index.Change{index.Add("a", value.Int32Val(1))}))

	cur := idx.Find(query.NewPredicateNode(0, query.EQ, value.NullVal()))
	ids, err := cur.Collect()
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNewID_IsUUIDv7(t *testing.T) {
	a, b := index.NewID(), index.NewID()
	assert.Len(t, string(a), 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14])
}
