package executor_test

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/expression"
	"tsumikidb/storage"
	"tsumikidb/types"
)

func ints(ns ...int64) []types.Value {
	vals := make([]types.Value, len(ns))
	for i, n := range ns {
		vals[i] = types.NewInteger(n)
	}
	return vals
}

func intColumns(names ...string) catalog.ColumnSchemas {
	cols := make(catalog.ColumnSchemas, len(names))
	for i, n := range names {
		cols[i] = catalog.ColumnSchema{Name: n, Type: types.Integer}
	}
	return cols
}

func setup(t *testing.T) *executor.ExecutorContext {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 16, nil)
	ct, err := catalog.LoadCatalog(st, nil)
	require.NoError(t, err)
	ctx := executor.NewExecutorContext(ct, st, nil)

	_, err = executor.NewCreateTableExecutor(ctx).Execute(&catalog.TableSchema{Name: "Foo", Columns: intColumns("a", "b", "c", "d", "e")})
	require.NoError(t, err)
	_, err = executor.NewCreateTableExecutor(ctx).Execute(&catalog.TableSchema{Name: "Bar", Columns: intColumns("x")})
	require.NoError(t, err)

	_, err = executor.NewInsertExecutor(ctx).Execute("Foo", [][]types.Value{
		ints(1, 2, 8, 4, 5),
		ints(2, 2, 8, 4, 5),
		ints(1, 5, 3, 4, 5),
		ints(1, 4, 8, 5, 5),
		ints(1, 4, 3, 4, 6),
	})
	require.NoError(t, err)
	_, err = executor.NewInsertExecutor(ctx).Execute("Bar", [][]types.Value{ints(1), ints(2), ints(3)})
	require.NoError(t, err)

	_, err = executor.NewCreateIndexExecutor(ctx).Execute(catalog.IndexDesc{TableName: "Foo", ColumnName: "a", IndexName: "IX_A", Kind: storage.BTreeIndexKind})
	require.NoError(t, err)
	return ctx
}

func eq(col string, n int64) *expression.Clause {
	return expression.NewClause(expression.NewPredicate(expression.OpEqual, expression.Column(col), expression.Literal(types.NewInteger(n))))
}

func indexDesc(t *testing.T, ctx *executor.ExecutorContext, table string) catalog.IndexDesc {
	descs := ctx.Catalog.GetIndexes(table)
	require.Len(t, descs, 1)
	return descs[0]
}

func TestFullScan(t *testing.T) {
	ctx := setup(t)
	scan, err := executor.NewFullScanExecutor(ctx, "Foo")
	require.NoError(t, err)

	assert.Equal(t, "FullScan(Foo)\n", executor.ExplainString(scan))
	rows, err := executor.DrainAll(scan)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	_, err = scan.Next()
	assert.True(t, errors.Is(err, common.ErrExhausted))

	require.NoError(t, scan.Restart())
	rows, err = executor.DrainAll(scan)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	require.NoError(t, scan.Close())
	require.NoError(t, scan.Close())
	assert.Equal(t, 0, ctx.Storage.OpenHandles())

	_, err = executor.NewFullScanExecutor(ctx, "Nope")
	assert.True(t, errors.Is(err, common.ErrSchema))
}

func TestSelectionAndProjection(t *testing.T) {
	ctx := setup(t)
	scan, err := executor.NewFullScanExecutor(ctx, "Foo")
	require.NoError(t, err)

	sel := executor.NewSelectionExecutor(scan, eq("a", 1))
	proj, err := executor.NewProjectionExecutor(sel, []int{1, 0})
	require.NoError(t, err)
	defer proj.Close()

	assert.Equal(t, "Projection(b, a)\n  Selection(a = 1)\n    FullScan(Foo)\n", executor.ExplainString(proj))

	ok, err := proj.HasNext()
	require.NoError(t, err)
	assert.True(t, ok)
	// HasNext does not consume
	ok, err = proj.HasNext()
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := executor.DrainAll(proj)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"b", "a"}, proj.Schema().Names())
	for _, r := range rows {
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, int64(1), r.Value(1).ToInteger())
	}

	_, err = executor.NewProjectionExecutor(sel, []int{7})
	assert.True(t, errors.Is(err, common.ErrSchema))
}

func TestSelectionTypeMismatch(t *testing.T) {
	ctx := setup(t)
	scan, err := executor.NewFullScanExecutor(ctx, "Foo")
	require.NoError(t, err)
	defer scan.Close()

	clause := expression.NewClause(expression.NewPredicate(expression.OpEqual, expression.Column("a"), expression.Literal(types.NewVarchar("x"))))
	_, err = executor.DrainAll(executor.NewSelectionExecutor(scan, clause))
	assert.True(t, errors.Is(err, common.ErrTypeMismatch))
}

func TestJoin(t *testing.T) {
	ctx := setup(t)
	open := func(table string) executor.Executor {
		scan, err := executor.NewFullScanExecutor(ctx, table)
		require.NoError(t, err)
		return scan
	}

	cross := executor.NewJoinExecutor(open("Foo"), open("Bar"), nil)
	rows, err := executor.DrainAll(cross)
	require.NoError(t, err)
	assert.Len(t, rows, 15)
	assert.Equal(t, 6, cross.Schema().Count())
	require.NoError(t, cross.Close())

	clause := expression.NewClause(expression.NewPredicate(expression.OpEqual, expression.Column("a"), expression.Column("x")))
	join := executor.NewJoinExecutor(open("Foo"), open("Bar"), clause)
	assert.Equal(t, "Join(a = x)\n  FullScan(Foo)\n  FullScan(Bar)\n", executor.ExplainString(join))
	rows, err = executor.DrainAll(join)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	require.NoError(t, join.Restart())
	rows, err = executor.DrainAll(join)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	require.NoError(t, join.Close())
	assert.Equal(t, 0, ctx.Storage.OpenHandles())
}

func TestIndexScans(t *testing.T) {
	ctx := setup(t)
	desc := indexDesc(t, ctx, "Foo")

	key, err := executor.NewKeyScanExecutor(ctx, desc, types.NewInteger(1))
	require.NoError(t, err)
	assert.Equal(t, "KeyScan(Foo, IX_A, a = 1)\n", executor.ExplainString(key))
	rows, err := executor.DrainAll(key)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	require.NoError(t, key.Close())

	full, err := executor.NewIndexScanExecutor(ctx, desc)
	require.NoError(t, err)
	assert.Equal(t, executor.IndexScan, full.Kind())
	rows, err = executor.DrainAll(full)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, int64(2), rows[4].Value(0).ToInteger())
	require.NoError(t, full.Close())
}

func TestExecutePrintsTable(t *testing.T) {
	ctx := setup(t)
	scan, err := executor.NewFullScanExecutor(ctx, "Bar")
	require.NoError(t, err)
	defer scan.Close()

	buf := &bytes.Buffer{}
	require.NoError(t, executor.Execute(scan, buf))
	assert.Equal(t, "x\n-\n1\n2\n3\n3 rows\n", buf.String())
}

func TestDeleteAndUpdate(t *testing.T) {
	ctx := setup(t)
	desc := indexDesc(t, ctx, "Foo")

	scan, err := executor.NewFullScanExecutor(ctx, "Foo")
	require.NoError(t, err)
	rs, err := executor.NewDeleteExecutor(ctx).Execute("Foo", executor.NewSelectionExecutor(scan, eq("a", 2)))
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 rows!", rs.Message)

	n, err := ctx.Catalog.GetRecCount("Foo")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	key, err := executor.NewKeyScanExecutor(ctx, desc, types.NewInteger(2))
	require.NoError(t, err)
	rows, err := executor.DrainAll(key)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, key.Close())

	scan, err = executor.NewFullScanExecutor(ctx, "Foo")
	require.NoError(t, err)
	rs, err = executor.NewUpdateExecutor(ctx).Execute("Foo", executor.NewSelectionExecutor(scan, eq("b", 5)), map[int]types.Value{0: types.NewInteger(7)})
	require.NoError(t, err)
	assert.Equal(t, "updated 1 rows!", rs.Message)

	key, err = executor.NewKeyScanExecutor(ctx, desc, types.NewInteger(7))
	require.NoError(t, err)
	rows, err = executor.DrainAll(key)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].Value(1).ToInteger())
	require.NoError(t, key.Close())

	key, err = executor.NewKeyScanExecutor(ctx, desc, types.NewInteger(1))
	require.NoError(t, err)
	rows, err = executor.DrainAll(key)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NoError(t, key.Close())

	assert.Equal(t, 0, ctx.Storage.OpenHandles())
}
