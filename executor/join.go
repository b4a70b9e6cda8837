package executor

import (
	"io"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/expression"
	"tsumikidb/tuple"
)

// JoinExecutor is a nested-loop join. The right input is restarted once per
// outer tuple. A nil clause yields the cross product.
type JoinExecutor struct {
	left   Executor
	right  Executor
	clause *expression.Clause
	schema *tuple.Schema

	outer     *tuple.Tuple
	fetched   bool
	lookahead *tuple.Tuple
	closed    bool
}

func NewJoinExecutor(left Executor, right Executor, clause *expression.Clause) *JoinExecutor {
	return &JoinExecutor{
		left:   left,
		right:  right,
		clause: clause,
		schema: tuple.Join(left.Schema(), right.Schema()),
	}
}

func (e *JoinExecutor) advance() error {
	e.fetched = true
	e.lookahead = nil

	for {
		if e.outer == nil {
			ok, err := e.left.HasNext()
			if err != nil || !ok {
				return err
			}
			if e.outer, err = e.left.Next(); err != nil {
				return err
			}
			if err := e.right.Restart(); err != nil {
				return err
			}
		}

		for {
			ok, err := e.right.HasNext()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			inner, err := e.right.Next()
			if err != nil {
				return err
			}
			t := tuple.JoinTuples(e.schema, e.outer, inner)
			if e.clause != nil {
				pass, err := e.clause.Evaluate(t)
				if err != nil {
					return err
				}
				if !pass {
					continue
				}
			}
			e.lookahead = t
			return nil
		}
		e.outer = nil
	}
}

func (e *JoinExecutor) Restart() error {
	e.outer = nil
	e.fetched = false
	e.lookahead = nil
	return e.left.Restart()
}

func (e *JoinExecutor) HasNext() (bool, error) {
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

func (e *JoinExecutor) Next() (*tuple.Tuple, error) {
	ok, err := e.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(common.ErrExhausted, "join")
	}
	t := e.lookahead
	e.fetched = false
	e.lookahead = nil
	return t, nil
}

func (e *JoinExecutor) Schema() *tuple.Schema { return e.schema }

func (e *JoinExecutor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.outer = nil
	e.lookahead = nil
	return errors.CombineErrors(e.left.Close(), e.right.Close())
}

func (e *JoinExecutor) Explain(w io.Writer, depth int) {
	if e.clause == nil {
		explainLine(w, depth, "Join")
	} else {
		explainLine(w, depth, "Join(%s)", e.clause)
	}
	e.left.Explain(w, depth+1)
	e.right.Explain(w, depth+1)
}
