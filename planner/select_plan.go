package planner

import (
	"io"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/parser/statements"
	"tsumikidb/tuple"
)

// SelectPlan owns the realized operator tree of one SELECT.
type SelectPlan struct {
	root    executor.Executor
	explain bool
	drained bool
}

func BuildSelectPlan(ctx *executor.ExecutorContext, cfg common.PlannerConfig, selectStmt *statements.SelectStmt) (*SelectPlan, error) {
	q := &Query{
		Tables: selectStmt.Tables,
		Where:  selectStmt.Where,
	}
	if !selectStmt.IsAllColumns {
		q.Columns = selectStmt.ColumnNames
	}

	root, err := NewOptimizer(ctx, cfg).Build(q)
	if err != nil {
		return nil, err
	}
	return &SelectPlan{
		root:    root,
		explain: selectStmt.Explain,
	}, nil
}

func (p *SelectPlan) Root() executor.Executor { return p.root }

func (p *SelectPlan) IsExplain() bool { return p.explain }

func (p *SelectPlan) Schema() *tuple.Schema { return p.root.Schema() }

// Execute prints the rows, or the plan for EXPLAIN, and closes the tree.
func (p *SelectPlan) Execute(w io.Writer) error {
	defer p.Close()

	if p.explain {
		p.Explain(w)
		return nil
	}
	p.drained = true
	return executor.Execute(p.root, w)
}

// Result is Execute collected into a ResultSet.
func (p *SelectPlan) Result() (*executor.ResultSet, error) {
	defer p.Close()

	if p.explain {
		return &executor.ResultSet{
			Message: executor.ExplainString(p.root),
		}, nil
	}
	p.drained = true
	return executor.Collect(p.root)
}

// DrainAll returns every tuple. Draining again needs a Restart in between.
func (p *SelectPlan) DrainAll() ([]*tuple.Tuple, error) {
	if p.drained {
		return nil, errors.New("plan already drained, restart it first")
	}
	p.drained = true
	return executor.DrainAll(p.root)
}

func (p *SelectPlan) Explain(w io.Writer) {
	p.root.Explain(w, 0)
}

func (p *SelectPlan) Restart() error {
	p.drained = false
	return p.root.Restart()
}

func (p *SelectPlan) Close() error {
	return p.root.Close()
}
