package executor

import (
	"fmt"

	"tsumikidb/types"
)

type UpdateExecutor struct {
	ctx *ExecutorContext
}

func NewUpdateExecutor(ctx *ExecutorContext) *UpdateExecutor {
	return &UpdateExecutor{
		ctx: ctx,
	}
}

// Execute rewrites every row source yields in place. assignments maps field
// numbers to their new, already typed, values.
func (e *UpdateExecutor) Execute(tableName string, source Executor, assignments map[int]types.Value) (*ResultSet, error) {
	targets, err := collectTargets(source)
	if err != nil {
		return nil, err
	}
	heap, err := e.ctx.openHeap(tableName)
	if err != nil {
		return nil, err
	}
	descs, indexes, err := e.ctx.loadIndexes(tableName)
	if err != nil {
		return nil, err
	}
	columns := make([]int, len(descs))
	for i, desc := range descs {
		columns[i], _ = heap.Schema().FieldNumber(desc.ColumnName)
	}

	updated := 0
	err = e.ctx.Storage.WithExclusive(tableName, func() error {
		for _, t := range targets {
			rid, _ := t.RID()
			values := t.Values()
			for f, v := range assignments {
				values[f] = v
			}
			if err := heap.UpdateTuple(rid, values); err != nil {
				return err
			}
			updated++
			for i, idx := range indexes {
				if _, changed := assignments[columns[i]]; !changed {
					continue
				}
				idx.Delete(t.Value(columns[i]), rid)
				if err := idx.Insert(values[columns[i]], rid); err != nil {
					return err
				}
			}
		}
		return e.ctx.writeIndexes(indexes)
	})
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: fmt.Sprintf("updated %d rows!", updated),
	}, nil
}
