package planner

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"tsumikidb/tuple"
)

// TableSet is an immutable group of base tables that has been, or is about
// to be, joined into one subtree.
type TableSet struct {
	names  mapset.Set[string]
	order  []string
	schema *tuple.Schema
	cost   float64
}

func NewTableSet(name string, schema *tuple.Schema, cost float64) *TableSet {
	return &TableSet{
		names:  mapset.NewSet[string](name),
		order:  []string{name},
		schema: schema,
		cost:   cost,
	}
}

// JoinTableSets merges a and b. The trial cost of the result is the product
// of their costs.
func JoinTableSets(a *TableSet, b *TableSet) *TableSet {
	order := make([]string, 0, len(a.order)+len(b.order))
	order = append(order, a.order...)
	order = append(order, b.order...)
	return &TableSet{
		names:  a.names.Union(b.names),
		order:  order,
		schema: tuple.Join(a.schema, b.schema),
		cost:   a.cost * b.cost,
	}
}

func (ts *TableSet) WithCost(cost float64) *TableSet {
	cp := *ts
	cp.cost = cost
	return &cp
}

func (ts *TableSet) Contains(name string) bool { return ts.names.Contains(name) }

func (ts *TableSet) Size() int { return ts.names.Cardinality() }

// Names lists the tables in join order.
func (ts *TableSet) Names() []string {
	out := make([]string, len(ts.order))
	copy(out, ts.order)
	return out
}

func (ts *TableSet) Schema() *tuple.Schema { return ts.schema }

func (ts *TableSet) Cost() float64 { return ts.cost }

func (ts *TableSet) String() string {
	return "{" + strings.Join(ts.order, ", ") + "}"
}
