package executor

import (
	"io"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/expression"
	"tsumikidb/tuple"
)

// SelectionExecutor passes the child tuples that satisfy clause.
type SelectionExecutor struct {
	child  Executor
	clause *expression.Clause

	fetched   bool
	lookahead *tuple.Tuple
	closed    bool
}

func NewSelectionExecutor(child Executor, clause *expression.Clause) *SelectionExecutor {
	return &SelectionExecutor{
		child:  child,
		clause: clause,
	}
}

func (e *SelectionExecutor) advance() error {
	e.fetched = true
	e.lookahead = nil
	for {
		ok, err := e.child.HasNext()
		if err != nil || !ok {
			return err
		}
		t, err := e.child.Next()
		if err != nil {
			return err
		}
		pass, err := e.clause.Evaluate(t)
		if err != nil {
			return err
		}
		if pass {
			e.lookahead = t
			return nil
		}
	}
}

func (e *SelectionExecutor) Restart() error {
	e.fetched = false
	e.lookahead = nil
	return e.child.Restart()
}

func (e *SelectionExecutor) HasNext() (bool, error) {
	if e.closed {
		return false, nil
	}
	if !e.fetched {
		if err := e.advance(); err != nil {
			return false, err
		}
	}
	return e.lookahead != nil, nil
}

func (e *SelectionExecutor) Next() (*tuple.Tuple, error) {
	ok, err := e.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(common.ErrExhausted, "selection %s", e.clause)
	}
	t := e.lookahead
	e.fetched = false
	e.lookahead = nil
	return t, nil
}

func (e *SelectionExecutor) Schema() *tuple.Schema { return e.child.Schema() }

func (e *SelectionExecutor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.lookahead = nil
	return e.child.Close()
}

func (e *SelectionExecutor) Explain(w io.Writer, depth int) {
	explainLine(w, depth, "Selection(%s)", e.clause)
	e.child.Explain(w, depth+1)
}
