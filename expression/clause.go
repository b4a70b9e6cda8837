package expression

import (
	"strings"

	"tsumikidb/tuple"
)

// Clause is a disjunction of predicates.
type Clause struct {
	Predicates []*Predicate
}

func NewClause(preds ...*Predicate) *Clause {
	return &Clause{Predicates: preds}
}

func (c *Clause) Validate(schema *tuple.Schema) bool {
	for _, p := range c.Predicates {
		if !p.Validate(schema) {
			return false
		}
	}
	return true
}

func (c *Clause) TypeCheck(schema *tuple.Schema) error {
	for _, p := range c.Predicates {
		if err := p.TypeCheck(schema); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate is true when any predicate holds. Evaluation stops at the first
// true predicate.
func (c *Clause) Evaluate(t *tuple.Tuple) (bool, error) {
	for _, p := range c.Predicates {
		ok, err := p.Evaluate(t)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Distinct drops predicates that repeat an earlier one.
func (c *Clause) Distinct() []*Predicate {
	seen := make(map[string]struct{}, len(c.Predicates))
	out := make([]*Predicate, 0, len(c.Predicates))
	for _, p := range c.Predicates {
		k := p.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (c *Clause) String() string {
	parts := make([]string, len(c.Predicates))
	for i, p := range c.Predicates {
		parts[i] = p.String()
	}
	return strings.Join(parts, " OR ")
}

// CNF is a conjunction of clauses.
type CNF []*Clause

func (cnf CNF) String() string {
	parts := make([]string, len(cnf))
	for i, c := range cnf {
		if len(c.Predicates) > 1 {
			parts[i] = "(" + c.String() + ")"
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, " AND ")
}
