package executor

import (
	"fmt"

	"tsumikidb/types"
)

type InsertExecutor struct {
	ctx *ExecutorContext
}

func NewInsertExecutor(ctx *ExecutorContext) *InsertExecutor {
	return &InsertExecutor{
		ctx: ctx,
	}
}

// Execute stores rows, which must already match the table's column types,
// and maintains every index of the table.
func (e *InsertExecutor) Execute(tableName string, rows [][]types.Value) (*ResultSet, error) {
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

	inserted := 0
	err = e.ctx.Storage.WithExclusive(tableName, func() error {
		for _, values := range rows {
			rid, err := heap.InsertTuple(values)
			if err != nil {
				return err
			}
			inserted++
			for i, idx := range indexes {
				if err := idx.Insert(values[columns[i]], rid); err != nil {
					return err
				}
			}
		}
		return e.ctx.writeIndexes(indexes)
	})
	if inserted > 0 {
		if cerr := e.ctx.Catalog.AdjustRecCount(tableName, int64(inserted)); cerr != nil && err == nil {
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
		Message: fmt.Sprintf("successfully inserted %d rows!", inserted),
	}, nil
}
