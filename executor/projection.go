package executor

import (
	"io"
	"strings"

	"tsumikidb/common"
	"tsumikidb/tuple"
)

type ProjectionExecutor struct {
	child  Executor
	fields []int
	schema *tuple.Schema
	closed bool
}

// NewProjectionExecutor narrows child tuples to fields, in that order.
func NewProjectionExecutor(child Executor, fields []int) (*ProjectionExecutor, error) {
	for _, f := range fields {
		if !child.Schema().HasField(f) {
			return nil, common.SchemaErrorf("field %d out of range for %s", f, child.Schema())
		}
	}
	return &ProjectionExecutor{
		child:  child,
		fields: fields,
		schema: child.Schema().Project(fields),
	}, nil
}

func (e *ProjectionExecutor) Restart() error {
	return e.child.Restart()
}

func (e *ProjectionExecutor) HasNext() (bool, error) {
	if e.closed {
		return false, nil
	}
	return e.child.HasNext()
}

func (e *ProjectionExecutor) Next() (*tuple.Tuple, error) {
	t, err := e.child.Next()
	if err != nil {
		return nil, err
	}
	return t.Project(e.schema, e.fields), nil
}

func (e *ProjectionExecutor) Schema() *tuple.Schema { return e.schema }

func (e *ProjectionExecutor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.child.Close()
}

func (e *ProjectionExecutor) Explain(w io.Writer, depth int) {
	explainLine(w, depth, "Projection(%s)", strings.Join(e.schema.Names(), ", "))
	e.child.Explain(w, depth+1)
}
