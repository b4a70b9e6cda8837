package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tsumikidb/catalog"
	"tsumikidb/expression"
	"tsumikidb/planner"
	"tsumikidb/storage"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

var (
	leftSchema = tuple.NewSchema(
		tuple.Column{Name: "a", Type: types.Integer},
		tuple.Column{Name: "f", Type: types.Float},
	)
	rightSchema = tuple.NewSchema(
		tuple.Column{Name: "b", Type: types.Integer},
	)
)

func pred(op expression.Op, l, r expression.Operand) *expression.Predicate {
	return expression.NewPredicate(op, l, r)
}

func col(name string) expression.Operand { return expression.Column(name) }

func lit(v int64) expression.Operand { return expression.Literal(types.NewInteger(v)) }

func TestReduction(t *testing.T) {
	pm := planner.NewPredicateManager(nil, 10, 3)

	tests := []struct {
		name   string
		clause *expression.Clause
		want   float64
	}{
		{name: "column equals literal", clause: expression.NewClause(pred(expression.OpEqual, col("a"), lit(1))), want: 10},
		{name: "column equals column", clause: expression.NewClause(pred(expression.OpEqual, col("a"), col("b"))), want: 10},
		{name: "range on literal", clause: expression.NewClause(pred(expression.OpGreater, lit(1), col("a"))), want: 3},
		{name: "columns not equal", clause: expression.NewClause(pred(expression.OpNotEqual, col("a"), col("b"))), want: 1},
		{name: "literals only", clause: expression.NewClause(pred(expression.OpEqual, lit(1), lit(1))), want: 1},
		{
			name: "duplicates count once",
			clause: expression.NewClause(
				pred(expression.OpEqual, col("a"), lit(1)),
				pred(expression.OpEqual, col("a"), lit(1)),
			),
			want: 10,
		},
		{
			name: "equalities in a disjunction",
			clause: expression.NewClause(
				pred(expression.OpEqual, col("a"), col("b")),
				pred(expression.OpEqual, col("c"), lit(4)),
			),
			want: 10,
		},
		{
			name: "equality mixed with inequality",
			clause: expression.NewClause(
				pred(expression.OpEqual, col("a"), col("b")),
				pred(expression.OpNotEqual, col("c"), col("d")),
			),
			want: 1,
		},
		{
			name: "comparisons with literals",
			clause: expression.NewClause(
				pred(expression.OpEqual, col("a"), lit(1)),
				pred(expression.OpLessEqual, col("b"), lit(2)),
			),
			want: 3,
		},
		{
			name: "ranges in a disjunction",
			clause: expression.NewClause(
				pred(expression.OpGreater, col("a"), lit(1)),
				pred(expression.OpLess, col("c"), lit(1)),
			),
			want: 3,
		},
		{
			name: "column equality mixed with range",
			clause: expression.NewClause(
				pred(expression.OpEqual, col("a"), col("b")),
				pred(expression.OpGreater, col("c"), lit(1)),
			),
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pm.Reduction(tt.clause))
		})
	}
}

func TestBestJoinClause(t *testing.T) {
	rng := expression.NewClause(pred(expression.OpLess, col("a"), lit(3)))
	first := expression.NewClause(pred(expression.OpEqual, col("a"), col("b")))
	second := expression.NewClause(pred(expression.OpEqual, col("b"), col("a")))
	pm := planner.NewPredicateManager(expression.CNF{rng, first, second}, 10, 3)

	joined := tuple.Join(leftSchema, rightSchema)
	best, reduction := pm.BestJoinClause(joined)
	assert.Same(t, first, best)
	assert.Equal(t, 10.0, reduction)

	best, reduction = pm.BestJoinClause(leftSchema)
	assert.Same(t, rng, best)
	assert.Equal(t, 3.0, reduction)

	best, _ = pm.BestJoinClause(rightSchema)
	assert.Nil(t, best)

	// nothing is removed by looking
	assert.Equal(t, 3, pm.Len())
}

func TestRemoveAndApplicable(t *testing.T) {
	onLeft := expression.NewClause(pred(expression.OpEqual, col("a"), lit(1)))
	onRight := expression.NewClause(pred(expression.OpEqual, col("b"), lit(1)))
	onBoth := expression.NewClause(pred(expression.OpEqual, col("a"), col("b")))
	pm := planner.NewPredicateManager(expression.CNF{onLeft, onRight, onBoth}, 10, 3)

	assert.Equal(t, []*expression.Clause{onLeft}, pm.Applicable(leftSchema))
	assert.Equal(t, 3, pm.Len())

	popped := pm.PopApplicable(rightSchema)
	require.Len(t, popped, 1)
	assert.Same(t, onRight, popped[0])
	assert.False(t, pm.Remove(onRight))

	assert.True(t, pm.Remove(onBoth))
	assert.Equal(t, []*expression.Clause{onLeft}, pm.Remaining())
	assert.Equal(t, []*expression.Clause{onRight, onBoth}, pm.Consumed())
}

func TestPopIndexEquality(t *testing.T) {
	indexes := []catalog.IndexDesc{
		{TableName: "T", ColumnName: "f", IndexName: "IX_F", Kind: storage.BTreeIndexKind},
	}
	onA := expression.NewClause(pred(expression.OpEqual, col("a"), lit(1)))
	rangeOnF := expression.NewClause(pred(expression.OpGreater, col("f"), lit(1)))
	twoKeys := expression.NewClause(
		pred(expression.OpEqual, col("f"), lit(1)),
		pred(expression.OpEqual, col("f"), lit(2)),
	)
	otherTable := expression.NewClause(pred(expression.OpEqual, expression.QualifiedColumn("U", "f"), lit(2)))
	onF := expression.NewClause(pred(expression.OpEqual, lit(7), col("f")))
	pm := planner.NewPredicateManager(expression.CNF{onA, rangeOnF, twoKeys, otherTable, onF}, 10, 3)

	_, ok := pm.PopIndexEquality(leftSchema, nil)
	assert.False(t, ok)

	m, ok := pm.PopIndexEquality(leftSchema, indexes)
	require.True(t, ok)
	assert.Same(t, onF, m.Clause)
	assert.Equal(t, "IX_F", m.Index.IndexName)
	assert.Equal(t, types.Float, m.Key.ValueType())
	assert.Equal(t, 7.0, m.Key.ToFloat())
	assert.Equal(t, 4, pm.Len())

	_, ok = pm.PopIndexEquality(leftSchema, indexes)
	assert.False(t, ok)
}

func TestTableSet(t *testing.T) {
	left := planner.NewTableSet("L", leftSchema, 4)
	right := planner.NewTableSet("R", rightSchema, 5)

	joined := planner.JoinTableSets(left, right)
	assert.Equal(t, 2, joined.Size())
	assert.True(t, joined.Contains("L"))
	assert.True(t, joined.Contains("R"))
	assert.False(t, left.Contains("R"))
	assert.Equal(t, []string{"L", "R"}, joined.Names())
	assert.Equal(t, 20.0, joined.Cost())
	assert.Equal(t, []string{"a", "f", "b"}, joined.Schema().Names())
	assert.Equal(t, "{L, R}", joined.String())

	cheaper := joined.WithCost(2)
	assert.Equal(t, 2.0, cheaper.Cost())
	assert.Equal(t, 20.0, joined.Cost())
}
