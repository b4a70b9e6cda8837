package expression_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/common"
	"tsumikidb/expression"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

var fooSchema = tuple.NewSchema(
	tuple.Column{Name: "a", Type: types.Integer},
	tuple.Column{Name: "b", Type: types.Integer},
	tuple.Column{Name: "c", Type: types.Integer},
	tuple.Column{Name: "d", Type: types.Integer},
	tuple.Column{Name: "e", Type: types.Integer},
)

func fooRows(t *testing.T) []*tuple.Tuple {
	rows := [][]int64{{1, 2, 8, 4, 5}, {2, 2, 8, 4, 5}, {1, 5, 3, 4, 5}, {1, 4, 8, 5, 5}, {1, 4, 3, 4, 6}}
	out := make([]*tuple.Tuple, 0, len(rows))
	for _, r := range rows {
		vals := make([]types.Value, len(r))
		for i, n := range r {
			vals[i] = types.NewInteger(n)
		}
		tp, err := tuple.NewTuple(fooSchema, vals)
		require.NoError(t, err)
		out = append(out, tp)
	}
	return out
}

func parseWhere(t *testing.T, where string) expression.CNF {
	stmt, err := sqlparser.Parse("select * from foo where " + where)
	require.NoError(t, err)
	cnf, err := expression.GetWhereFromWhereExpr(stmt.(*sqlparser.Select).Where, 64)
	require.NoError(t, err)
	return cnf
}

func matches(t *testing.T, cnf expression.CNF, tp *tuple.Tuple) bool {
	for _, c := range cnf {
		ok, err := c.Evaluate(tp)
		require.NoError(t, err)
		if !ok {
			return false
		}
	}
	return true
}

func TestBuildCNF(t *testing.T) {
	tests := []struct {
		where   string
		clauses int
		matched int
		str     string
	}{
		{where: "a = 1", clauses: 1, matched: 4, str: "a = 1"},
		{where: "a = 1 and b = 2", clauses: 2, matched: 1, str: "a = 1 AND b = 2"},
		{where: "a = 1 and b = 2 or c = 3 and d = 4 and e = 5", clauses: 6, matched: 2},
		{where: "(a = 2 or b = 5) and e <> 6", clauses: 2, matched: 2, str: "(a = 2 OR b = 5) AND e <> 6"},
		{where: "3 > c", clauses: 1, matched: 0, str: "3 > c"},
		{where: "c >= 3 and -1 < a", clauses: 2, matched: 5},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			cnf := parseWhere(t, tt.where)
			assert.Len(t, cnf, tt.clauses)
			if tt.str != "" {
				assert.Equal(t, tt.str, cnf.String())
			}
			n := 0
			for _, tp := range fooRows(t) {
				if matches(t, cnf, tp) {
					n++
				}
			}
			assert.Equal(t, tt.matched, n)
		})
	}
}

func TestBuildCNFLimits(t *testing.T) {
	stmt, err := sqlparser.Parse("select * from foo where a = 1 and b = 1 or c = 1 and d = 1")
	require.NoError(t, err)
	_, err = expression.GetWhereFromWhereExpr(stmt.(*sqlparser.Select).Where, 3)
	assert.ErrorIs(t, err, expression.TooManyClausesError)

	stmt, err = sqlparser.Parse("select * from foo where a like 'x%'")
	require.NoError(t, err)
	_, err = expression.GetWhereFromWhereExpr(stmt.(*sqlparser.Select).Where, 0)
	assert.Error(t, err)

	cnf, err := expression.GetWhereFromWhereExpr(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, cnf)
}

func TestPredicateEvaluate(t *testing.T) {
	schema := tuple.NewSchema(
		tuple.Column{Name: "sid", Type: types.Integer},
		tuple.Column{Name: "name", Type: types.Varchar},
		tuple.Column{Name: "age", Type: types.Float},
	)
	tp, err := tuple.NewTuple(schema, []types.Value{types.NewInteger(3), types.NewVarchar("Bob"), types.NewFloat(30.0)})
	require.NoError(t, err)

	eval := func(p *expression.Predicate) bool {
		ok, err := p.Evaluate(tp)
		require.NoError(t, err)
		return ok
	}

	// integer widened against float
	assert.True(t, eval(expression.NewPredicate(expression.OpEqual, expression.Column("age"), expression.Literal(types.NewInteger(30)))))
	assert.True(t, eval(expression.NewPredicate(expression.OpLess, expression.Column("sid"), expression.Column("age"))))
	assert.True(t, eval(expression.NewPredicate(expression.OpGreater, expression.Column("name"), expression.Literal(types.NewVarchar("Andy")))))
	assert.True(t, eval(expression.NewPredicate(expression.OpEqual, expression.Field(1), expression.Literal(types.NewVarchar("Bob")))))
	assert.False(t, eval(expression.NewPredicate(expression.OpNotEqual, expression.Field(0), expression.Literal(types.NewInteger(3)))))

	p := expression.NewPredicate(expression.OpEqual, expression.Column("name"), expression.Literal(types.NewInteger(3)))
	_, err = p.Evaluate(tp)
	assert.True(t, errors.Is(err, common.ErrTypeMismatch))
	assert.True(t, errors.Is(err, common.ErrPredicate))
	assert.True(t, errors.Is(p.TypeCheck(schema), common.ErrTypeMismatch))

	missing := expression.NewPredicate(expression.OpEqual, expression.Column("gpa"), expression.Literal(types.NewInteger(3)))
	assert.False(t, missing.Validate(schema))
	assert.False(t, expression.NewPredicate(expression.OpEqual, expression.Field(3), expression.Field(0)).Validate(schema))
	_, err = missing.Evaluate(tp)
	assert.True(t, errors.Is(err, common.ErrPredicate))
}

func TestColumnLiteral(t *testing.T) {
	p := expression.NewPredicate(expression.OpLess, expression.Literal(types.NewInteger(3)), expression.Column("a"))
	col, op, v, ok := p.ColumnLiteral()
	require.True(t, ok)
	assert.Equal(t, "a", col.Name)
	assert.Empty(t, col.Table)
	assert.Equal(t, expression.OpGreater, op)
	assert.Equal(t, int64(3), v.ToInteger())

	_, _, _, ok = expression.NewPredicate(expression.OpEqual, expression.Column("a"), expression.Column("b")).ColumnLiteral()
	assert.False(t, ok)
}

func TestClauseDistinct(t *testing.T) {
	cnf := parseWhere(t, "a = 1 or a = 1 or b = 2")
	require.Len(t, cnf, 1)
	assert.Len(t, cnf[0].Distinct(), 2)
	assert.Equal(t, "a = 1 OR a = 1 OR b = 2", cnf[0].String())
}
