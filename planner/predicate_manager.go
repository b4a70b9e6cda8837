package planner

import (
	"tsumikidb/catalog"
	"tsumikidb/expression"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

// PredicateManager owns the clauses of a query that have not been attached
// to the plan yet. Every clause is handed out at most once.
type PredicateManager struct {
	live     []*expression.Clause
	consumed []*expression.Clause

	equalityReduction float64
	rangeReduction    float64
}

func NewPredicateManager(cnf expression.CNF, equalityReduction float64, rangeReduction float64) *PredicateManager {
	live := make([]*expression.Clause, len(cnf))
	copy(live, cnf)
	return &PredicateManager{
		live:              live,
		consumed:          make([]*expression.Clause, 0, len(cnf)),
		equalityReduction: equalityReduction,
		rangeReduction:    rangeReduction,
	}
}

func (pm *PredicateManager) Len() int { return len(pm.live) }

// Remaining returns the live clauses in their original order.
func (pm *PredicateManager) Remaining() []*expression.Clause {
	out := make([]*expression.Clause, len(pm.live))
	copy(out, pm.live)
	return out
}

// Consumed returns the clauses handed out so far, in hand-out order.
func (pm *PredicateManager) Consumed() []*expression.Clause {
	out := make([]*expression.Clause, len(pm.consumed))
	copy(out, pm.consumed)
	return out
}

// Remove takes clause out of the live set. It reports false when the clause
// is not live.
func (pm *PredicateManager) Remove(clause *expression.Clause) bool {
	for i, c := range pm.live {
		if c == clause {
			pm.live = append(pm.live[:i], pm.live[i+1:]...)
			pm.consumed = append(pm.consumed, clause)
			return true
		}
	}
	return false
}

// Applicable lists, without removing them, the live clauses whose every
// predicate resolves in schema.
func (pm *PredicateManager) Applicable(schema *tuple.Schema) []*expression.Clause {
	out := make([]*expression.Clause, 0)
	for _, c := range pm.live {
		if c.Validate(schema) {
			out = append(out, c)
		}
	}
	return out
}

func (pm *PredicateManager) PopApplicable(schema *tuple.Schema) []*expression.Clause {
	out := pm.Applicable(schema)
	for _, c := range out {
		pm.Remove(c)
	}
	return out
}

// IndexEquality is a clause that can be answered by probing one index.
type IndexEquality struct {
	Clause *expression.Clause
	Index  catalog.IndexDesc
	Key    types.Value
}

// indexEquality matches a clause made of a single distinct `column = literal`
// predicate on an indexed column of schema. The key is cast to the column
// type.
func indexEquality(clause *expression.Clause, schema *tuple.Schema, indexes []catalog.IndexDesc) (*IndexEquality, bool) {
	preds := clause.Distinct()
	if len(preds) != 1 || !preds[0].IsEquality() {
		return nil, false
	}
	col, _, lit, ok := preds[0].ColumnLiteral()
	if !ok {
		return nil, false
	}
	field, err := schema.Lookup(col.Table, col.Name)
	if err != nil {
		return nil, false
	}
	key, ok := lit.CastAs(schema.Column(field).Type)
	if !ok {
		return nil, false
	}
	for _, desc := range indexes {
		if desc.ColumnName == col.Name {
			return &IndexEquality{Clause: clause, Index: desc, Key: key}, true
		}
	}
	return nil, false
}

// PopIndexEquality removes and returns the first live clause that can be
// answered by a key lookup on one of indexes.
func (pm *PredicateManager) PopIndexEquality(schema *tuple.Schema, indexes []catalog.IndexDesc) (*IndexEquality, bool) {
	if len(indexes) == 0 {
		return nil, false
	}
	for _, c := range pm.live {
		if m, ok := indexEquality(c, schema, indexes); ok {
			pm.Remove(c)
			return m, true
		}
	}
	return nil, false
}

// Reduction is the factor by which clause is assumed to shrink its input.
// The equality factor applies when every distinct predicate is an equality
// against a column or a literal, the range factor when every predicate
// compares a column with a literal. Any other clause gets no reduction.
func (pm *PredicateManager) Reduction(clause *expression.Clause) float64 {
	preds := clause.Distinct()
	if len(preds) == 0 {
		return 1
	}

	allEquality, allColumnLiteral := true, true
	for _, p := range preds {
		_, _, _, columnLiteral := p.ColumnLiteral()
		columnColumn := !p.Left.IsLiteral() && !p.Right.IsLiteral()
		if !p.IsEquality() || !(columnColumn || columnLiteral) {
			allEquality = false
		}
		if !columnLiteral {
			allColumnLiteral = false
		}
	}

	switch {
	case allEquality:
		return pm.equalityReduction
	case allColumnLiteral:
		return pm.rangeReduction
	default:
		return 1
	}
}

// BestJoinClause picks the live clause valid on schema with the highest
// reduction. Ties go to the earliest clause. It returns nil when no clause
// is valid.
func (pm *PredicateManager) BestJoinClause(schema *tuple.Schema) (*expression.Clause, float64) {
	var best *expression.Clause
	bestReduction := 0.0
	for _, c := range pm.live {
		if !c.Validate(schema) {
			continue
		}
		if r := pm.Reduction(c); best == nil || r > bestReduction {
			best = c
			bestReduction = r
		}
	}
	return best, bestReduction
}
