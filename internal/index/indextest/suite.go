// Package indextest provides a conformance suite for index.Backend
// implementations.
package indextest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

// Factory opens an empty backend for spec. Implementations should register
// cleanup with t.
type Factory func(t *testing.T, spec index.Spec) index.Backend

// PeopleSpec is the schema used by the suite:
//
//	$0 age    int32  NOT NULL
//	$1 active bool
//	$2 name   string UNIQUE
func PeopleSpec() index.Spec {
	return index.NewSpec(
		index.Property{Name: "age", Type: value.KindInt32, Flags: index.FlagNotNull},
		index.Property{Name: "active", Type: value.KindBool},
		index.Property{Name: "name", Type: value.KindString, Flags: index.FlagUnique},
	)
}

// person builds an Add change for PeopleSpec. An empty name stores Null.
func person(id index.ID, age int32, active bool, name string) index.Change {
	var n value.SIValue = value.NullVal()
	if name != "" {
		n = value.StringVal(name)
	}
	return index.Add(id, value.Int32Val(age), value.BoolVal(active), n)
}

// releaseChanges drops the caller's references after Apply.
func releaseChanges(changes []index.Change) {
	for _, ch := range changes {
		for _, v := range ch.Values {
			value.Release(v)
		}
	}
}

// seed loads four people:
//
//	a  30 true  alice
//	b  17 true  bob
//	c  45 false carol
//	d  18 true  NULL
func seed(t *testing.T, idx index.SIIndex) {
	t.Helper()
	changes := []index.Change{
		person("c", 45, false, "carol"),
		person("a", 30, true, "alice"),
		person("d", 18, true, ""),
		person("b", 17, true, "bob"),
	}
	require.NoError(t, idx.Apply(changes))
	releaseChanges(changes)
}

func collect(t *testing.T, idx index.SIIndex, q query.ParseNode) []index.ID {
	t.Helper()
	cur := idx.Find(q)
	ids, err := cur.Collect()
	require.NoError(t, err)
	return ids
}

// Run executes the suite against backends produced by open.
func Run(t *testing.T, open Factory) {
	t.Run("EmptyFindExhaustsWithoutError", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		cur := idx.Find(query.NewPredicateNode(0, query.GT, value.Int32Val(1)))

		id, ok := cur.Next()
		assert.False(t, ok)
		assert.Equal(t, index.ID(""), id)
		assert.False(t, cur.Failed())
		assert.NoError(t, cur.Err())
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("AndQuery", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)
		assert.Equal(t, 4, idx.Len())

		q := query.NewConditionNode(
			query.NewPredicateNode(0, query.GE, value.Int32Val(18)),
			query.AND,
			query.NewPredicateNode(1, query.EQ, value.BoolVal(true)),
		)
		defer query.Free(q)
		assert.Equal(t, []index.ID{"a", "d"}, collect(t, idx, q))
	})

	t.Run("OrQuery", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		q := query.NewConditionNode(
			query.NewPredicateNode(0, query.LT, value.Int32Val(18)),
			query.OR,
			query.NewPredicateNode(1, query.EQ, value.BoolVal(false)),
		)
		assert.Equal(t, []index.ID{"b", "c"}, collect(t, idx, q))
	})

	t.Run("NilQueryMatchesAllInIDOrder", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)
		assert.Equal(t, []index.ID{"a", "b", "c", "d"}, collect(t, idx, nil))
	})

	t.Run("StringPredicates", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		bob := value.StringVal("bob")
		eq := query.NewPredicateNode(2, query.EQ, bob.Copy())
		ne := query.NewPredicateNode(2, query.NE, bob.Copy())
		lt := query.NewPredicateNode(2, query.LT, bob)
		defer query.Free(query.And(eq, ne, lt))

		assert.Equal(t, []index.ID{"b"}, collect(t, idx, eq))
		assert.Equal(t, []index.ID{"a", "c"}, collect(t, idx, ne)) // d is NULL
		assert.Equal(t, []index.ID{"a"}, collect(t, idx, lt))
	})

	t.Run("MixedNumericLiteral", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		q := query.NewPredicateNode(0, query.GT, value.Float64Val(17.5))
		assert.Equal(t, []index.ID{"a", "c", "d"}, collect(t, idx, q))
	})

	t.Run("InfinityLiterals", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		below := query.NewPredicateNode(2, query.LT, value.PositiveInfinityVal())
		assert.Equal(t, []index.ID{"a", "b", "c"}, collect(t, idx, below))

		above := query.NewPredicateNode(0, query.GT, value.PositiveInfinityVal())
		assert.Empty(t, collect(t, idx, above))

		floor := query.NewPredicateNode(0, query.GE, value.NegativeInfinityVal())
		assert.Equal(t, []index.ID{"a", "b", "c", "d"}, collect(t, idx, floor))
	})

	t.Run("NullLiteralNeverMatches", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		assert.Empty(t, collect(t, idx, query.NewPredicateNode(2, query.EQ, value.NullVal())))
		assert.Empty(t, collect(t, idx, query.NewPredicateNode(2, query.NE, value.NullVal())))
	})

	t.Run("NaNLiteralNeverMatches", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		nan := value.Float64Val(math.NaN())
		for _, op := range []query.CompOp{query.EQ, query.NE, query.LT, query.GE} {
			q := query.NewPredicateNode(0, op, nan)
			assert.Empty(t, collect(t, idx, q), "$0 %s NaN", op)
		}
	})

	t.Run("NaNIsNotStorable", func(t *testing.T) {
		for _, flags := range []uint32{0, index.FlagNotNull} {
			idx := open(t, index.NewSpec(index.Property{Name: "score", Type: value.KindFloat64, Flags: flags}))

			err := idx.Apply([]index.Change{index.Add("x", value.Float64Val(math.NaN()))})
			require.Error(t, err)
			assert.True(t, index.HasCode(err, index.ErrCodeSchemaViolation), "%v", err)
			assert.Contains(t, err.Error(), "NaN")
			assert.Equal(t, 0, idx.Len())
		}

		idx := open(t, index.NewSpec(index.Property{Name: "score", Type: value.KindFloat32}))
		err := idx.Apply([]index.Change{index.Add("x", value.Float32Val(float32(math.NaN())))})
		assert.True(t, index.HasCode(err, index.ErrCodeSchemaViolation), "%v", err)
	})

	t.Run("IntegerFloatComparisonIsExact", func(t *testing.T) {
		idx := open(t, index.NewSpec(index.Property{Name: "n", Type: value.KindInt64}))
		require.NoError(t, idx.Apply([]index.Change{
			index.Add("x", value.Int64Val(9007199254740993)),
			index.Add("y", value.Int64Val(9007199254740992)),
		}))

		bound := value.Float64Val(9007199254740992)
		assert.Equal(t, []index.ID{"y"}, collect(t, idx, query.NewPredicateNode(0, query.EQ, bound)))
		assert.Equal(t, []index.ID{"x"}, collect(t, idx, query.NewPredicateNode(0, query.GT, bound)))
		assert.Equal(t, []index.ID{"x"}, collect(t, idx, query.NewPredicateNode(0, query.NE, bound)))
	})

	t.Run("NormalizedTextEquality", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		changes := []index.Change{person("x", 20, true, "caf\u00e9")}
		require.NoError(t, idx.Apply(changes))
		releaseChanges(changes)

		q := query.NewPredicateNode(2, query.EQ, value.StringVal("cafe\u0301"))
		defer query.Free(q)
		assert.Equal(t, []index.ID{"x"}, collect(t, idx, q))
	})

	t.Run("InvalidQuerySetsErrorFlag", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		for _, q := range []query.ParseNode{
			query.NewPredicateNode(7, query.EQ, value.Int32Val(1)),
			query.NewPredicateNode(1, query.EQ, value.Int32Val(1)),
		} {
			cur := idx.Find(q)
			id, ok := cur.Next()
			assert.False(t, ok)
			assert.Equal(t, index.ID(""), id)
			assert.True(t, cur.Failed())
			assert.True(t, index.HasCode(cur.Err(), index.ErrCodeInvalidQuery))
		}
	})

	t.Run("CursorIsSinglePass", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		cur := idx.Find(nil)
		for i := 1; i <= 4; i++ {
			_, ok := cur.Next()
			require.True(t, ok)
			assert.Equal(t, i, cur.Offset())
		}
		_, ok := cur.Next()
		assert.False(t, ok)
		_, ok = cur.Next()
		assert.False(t, ok)
		assert.NoError(t, cur.Err())
		assert.Equal(t, 4, cur.Offset())
	})

	t.Run("CloseStopsEarly", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		cur := idx.Find(nil)
		_, ok := cur.Next()
		require.True(t, ok)
		require.NoError(t, cur.Close())
		_, ok = cur.Next()
		assert.False(t, ok)
		assert.NoError(t, cur.Err())
	})

	t.Run("DuplicateAddFailsWholeBatch", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		changes := []index.Change{person("e", 50, true, "eve"), person("a", 1, true, "again")}
		err := idx.Apply(changes)
		releaseChanges(changes)

		require.Error(t, err)
		assert.True(t, index.HasCode(err, index.ErrCodeDuplicateID))
		assert.Equal(t, 4, idx.Len())
		assert.Equal(t, []index.ID{"a", "b", "c", "d"}, collect(t, idx, nil))
	})

	t.Run("DeleteMissingFailsWholeBatch", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		err := idx.Apply([]index.Change{index.Delete("a"), index.Delete("zzz")})
		require.Error(t, err)
		assert.True(t, index.HasCode(err, index.ErrCodeMissingID))
		assert.Equal(t, 4, idx.Len())
	})

	t.Run("DeleteThenAddReplaces", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		changes := []index.Change{index.Delete("b"), person("b", 99, false, "bob"), index.Delete("c")}
		require.NoError(t, idx.Apply(changes))
		releaseChanges(changes)

		assert.Equal(t, 3, idx.Len())
		q := query.NewPredicateNode(0, query.EQ, value.Int32Val(99))
		assert.Equal(t, []index.ID{"b"}, collect(t, idx, q))
	})

	t.Run("SchemaViolations", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		bad := [][]index.Change{
			{index.Add("short", value.Int32Val(1))},
			{index.Add("kind", value.Int64Val(1), value.BoolVal(true), value.NullVal())},
			{index.Add("nn", value.NullVal(), value.BoolVal(true), value.NullVal())},
			{person("dup-name", 40, true, "alice")},
		}
		for _, batch := range bad {
			err := idx.Apply(batch)
			require.Error(t, err)
			assert.True(t, index.HasCode(err, index.ErrCodeSchemaViolation), "%v", err)
			releaseChanges(batch)
		}
		assert.Equal(t, 4, idx.Len())
	})

	t.Run("UniqueAllowsManyNulls", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		changes := []index.Change{person("n1", 1, true, ""), person("n2", 2, true, "")}
		require.NoError(t, idx.Apply(changes))
		assert.Equal(t, 6, idx.Len())
	})

	t.Run("UniqueWithinBatch", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		changes := []index.Change{person("p", 1, true, "same"), person("q", 2, true, "same")}
		err := idx.Apply(changes)
		releaseChanges(changes)

		assert.True(t, index.HasCode(err, index.ErrCodeSchemaViolation))
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("InvalidChange", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		err := idx.Apply([]index.Change{{Kind: index.ChangeAdd}})
		assert.True(t, index.HasCode(err, index.ErrCodeInvalidChange))

		err = idx.Apply([]index.Change{{Kind: index.ChangeKind(9), ID: "x"}})
		assert.True(t, index.HasCode(err, index.ErrCodeInvalidChange))
	})

	t.Run("RowMaterializesValues", func(t *testing.T) {
		idx := open(t, PeopleSpec())
		seed(t, idx)

		row, err := idx.Row("a")
		require.NoError(t, err)
		require.Len(t, row, 3)
		assert.Equal(t, value.SIInt32(30), row[0])
		assert.Equal(t, value.SIBool(true), row[1])
		assert.Equal(t, "alice", row[2].(value.SIString).Text())
		for _, v := range row {
			value.Release(v)
		}

		row, err = idx.Row("d")
		require.NoError(t, err)
		assert.Equal(t, value.SINull{}, row[2])

		_, err = idx.Row("nobody")
		assert.True(t, index.HasCode(err, index.ErrCodeMissingID))
	})
}
