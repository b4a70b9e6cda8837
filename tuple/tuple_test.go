package tuple_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tsumikidb/common"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

var (
	students = tuple.NewSchema(
		tuple.Column{Name: "sid", Type: types.Integer},
		tuple.Column{Name: "name", Type: types.Varchar},
	)
	grades = tuple.NewSchema(
		tuple.Column{Name: "gsid", Type: types.Integer},
		tuple.Column{Name: "points", Type: types.Float},
	)
)

func TestSchema(t *testing.T) {
	joined := tuple.Join(students, grades)
	assert.Equal(t, 4, joined.Count())
	assert.Equal(t, []string{"sid", "name", "gsid", "points"}, joined.Names())

	f, ok := joined.FieldNumber("points")
	require.True(t, ok)
	assert.Equal(t, 3, f)
	_, ok = joined.FieldNumber("cid")
	assert.False(t, ok)
	assert.True(t, joined.HasField(3))
	assert.False(t, joined.HasField(4))

	projected := joined.Project([]int{3, 1})
	assert.Equal(t, []string{"points", "name"}, projected.Names())
	assert.Equal(t, "(points FLOAT, name VARCHAR)", projected.String())
	assert.True(t, tuple.Join(students, grades).Equal(joined))
	assert.False(t, students.Equal(grades))

	// the first of two same-named columns wins
	self := tuple.Join(students, students)
	f, _ = self.FieldNumber("name")
	assert.Equal(t, 1, f)
}

func TestSchemaLookup(t *testing.T) {
	left := tuple.NewSchema(
		tuple.Column{Table: "Students", Name: "sid", Type: types.Integer},
		tuple.Column{Table: "Students", Name: "name", Type: types.Varchar},
	)
	right := tuple.NewSchema(
		tuple.Column{Table: "Enroll", Name: "sid", Type: types.Integer},
		tuple.Column{Table: "Enroll", Name: "cid", Type: types.Integer},
	)
	joined := tuple.Join(left, right)

	tests := []struct {
		ref       string
		field     int
		ambiguous bool
		missing   bool
	}{
		{ref: "name", field: 1},
		{ref: "cid", field: 3},
		{ref: "Students.sid", field: 0},
		{ref: "Enroll.sid", field: 2},
		{ref: "sid", ambiguous: true},
		{ref: "Grades.sid", missing: true},
		{ref: "Enroll.name", missing: true},
		{ref: "age", missing: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			f, err := joined.Lookup(tuple.SplitColumnRef(tt.ref))
			switch {
			case tt.ambiguous:
				assert.True(t, errors.Is(err, common.ErrAmbiguousColumn), "%v", err)
				assert.True(t, errors.Is(err, common.ErrSchema), "%v", err)
			case tt.missing:
				assert.True(t, errors.Is(err, common.ErrSchema), "%v", err)
				assert.False(t, errors.Is(err, common.ErrAmbiguousColumn), "%v", err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.field, f)
			}
		})
	}

	f, err := left.Lookup("", "sid")
	require.NoError(t, err)
	assert.Equal(t, 0, f)

	table, name := tuple.SplitColumnRef("points")
	assert.Empty(t, table)
	assert.Equal(t, "points", name)
}

func TestTuple(t *testing.T) {
	s, err := tuple.NewTuple(students, []types.Value{types.NewInteger(1), types.NewVarchar("Alice")})
	require.NoError(t, err)
	g, err := tuple.NewTuple(grades, []types.Value{types.NewInteger(1), types.NewFloat(3.1)})
	require.NoError(t, err)

	_, ok := s.RID()
	assert.False(t, ok)

	joined := tuple.JoinTuples(tuple.Join(students, grades), s, g)
	assert.Equal(t, 4, joined.Len())
	assert.Equal(t, "(1, Alice, 1, 3.1)", joined.String())

	v, err := joined.ValueByName("points")
	require.NoError(t, err)
	assert.Equal(t, 3.1, v.ToFloat())
	_, err = joined.ValueByName("bad")
	assert.True(t, errors.Is(err, common.ErrSchema))

	fields := []int{1, 3}
	projected := joined.Project(joined.Schema().Project(fields), fields)
	assert.Equal(t, []string{"Alice", "3.1"}, projected.Strings())

	stored := tuple.NewStoredTuple(students, s.Values(), tuple.RID{PageId: 2, Slot: 7})
	rid, ok := stored.RID()
	require.True(t, ok)
	assert.Equal(t, "(2,7)", rid.String())
}

func TestNewTupleChecks(t *testing.T) {
	_, err := tuple.NewTuple(students, []types.Value{types.NewInteger(1)})
	assert.Error(t, err)

	_, err = tuple.NewTuple(students, []types.Value{types.NewVarchar("1"), types.NewVarchar("Alice")})
	assert.Error(t, err)
}
