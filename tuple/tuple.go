package tuple

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/types"
)

// RID addresses a stored row.
type RID struct {
	PageId uint64
	Slot   uint32
}

func (r RID) String() string {
	return fmt.Sprintf("(%d,%d)", r.PageId, r.Slot)
}

// Tuple is a fixed-arity row bound to a schema. Operators treat it as
// read-only.
type Tuple struct {
	schema *Schema
	values []types.Value
	rid    *RID
}

func NewTuple(schema *Schema, values []types.Value) (*Tuple, error) {
	if len(values) != schema.Count() {
		return nil, errors.Newf("tuple arity mismatch. schema: %d, values: %d", schema.Count(), len(values))
	}
	for i, v := range values {
		if v.ValueType() != schema.Column(i).Type {
			return nil, errors.Newf("column %s expects %s, got %s", schema.Column(i).Name, schema.Column(i).Type, v.ValueType())
		}
	}
	return &Tuple{schema: schema, values: values}, nil
}

// NewStoredTuple builds a tuple read from storage at rid.
func NewStoredTuple(schema *Schema, values []types.Value, rid RID) *Tuple {
	return &Tuple{schema: schema, values: values, rid: &rid}
}

func (t *Tuple) Schema() *Schema { return t.schema }

func (t *Tuple) Len() int { return len(t.values) }

func (t *Tuple) Value(i int) types.Value { return t.values[i] }

func (t *Tuple) Values() []types.Value {
	vals := make([]types.Value, len(t.values))
	copy(vals, t.values)
	return vals
}

// RID returns the storage address of the tuple. Joined and projected tuples
// have none.
func (t *Tuple) RID() (RID, bool) {
	if t.rid == nil {
		return RID{}, false
	}
	return *t.rid, true
}

func (t *Tuple) ValueByName(name string) (types.Value, error) {
	i, ok := t.schema.FieldNumber(name)
	if !ok {
		return types.Value{}, common.SchemaErrorf("column not found: %s", name)
	}
	return t.values[i], nil
}

// JoinTuples concatenates left and right under schema, which must be the
// join of their schemas.
func JoinTuples(schema *Schema, left, right *Tuple) *Tuple {
	vals := make([]types.Value, 0, len(left.values)+len(right.values))
	vals = append(vals, left.values...)
	vals = append(vals, right.values...)
	return &Tuple{schema: schema, values: vals}
}

// Project narrows t to fields under schema, which must be the matching
// projection of t's schema.
func (t *Tuple) Project(schema *Schema, fields []int) *Tuple {
	vals := make([]types.Value, len(fields))
	for i, f := range fields {
		vals[i] = t.values[f]
	}
	return &Tuple{schema: schema, values: vals}
}

func (t *Tuple) Strings() []string {
	row := make([]string, len(t.values))
	for i, v := range t.values {
		row[i] = v.String()
	}
	return row
}

func (t *Tuple) String() string {
	return "(" + strings.Join(t.Strings(), ", ") + ")"
}
