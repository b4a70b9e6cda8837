package executor

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"tsumikidb/tuple"
)

type DeleteExecutor struct {
	ctx *ExecutorContext
}

func NewDeleteExecutor(ctx *ExecutorContext) *DeleteExecutor {
	return &DeleteExecutor{
		ctx: ctx,
	}
}

// collectTargets drains and closes source. Rows are written only after the
// cursors are gone, so the exclusive lock can be taken.
func collectTargets(source Executor) ([]*tuple.Tuple, error) {
	targets, err := DrainAll(source)
	if cerr := source.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if _, ok := t.RID(); !ok {
			return nil, errors.New("source yields tuples without row ids")
		}
	}
	return targets, nil
}

// Execute deletes every row source yields. source must read tableName
// directly so its tuples carry row ids.
func (e *DeleteExecutor) Execute(tableName string, source Executor) (*ResultSet, error) {
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

	deleted := 0
	err = e.ctx.Storage.WithExclusive(tableName, func() error {
		for _, t := range targets {
			rid, _ := t.RID()
			if err := heap.DeleteTuple(rid); err != nil {
				return err
			}
			deleted++
			for i, idx := range indexes {
				key, err := t.ValueByName(descs[i].ColumnName)
				if err != nil {
					return err
				}
				idx.Delete(key, rid)
			}
		}
		return e.ctx.writeIndexes(indexes)
	})
	if deleted > 0 {
		if cerr := e.ctx.Catalog.AdjustRecCount(tableName, -int64(deleted)); cerr != nil && err == nil {
			err = cerr
		}
		if serr := e.ctx.Catalog.Save(); serr != nil && err == nil {
			err = serr
		}
	}
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: fmt.Sprintf("deleted %d rows!", deleted),
	}, nil
}
