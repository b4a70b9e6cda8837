package executor

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"tsumikidb/catalog"
	"tsumikidb/storage"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

type CreateIndexExecutor struct {
	ctx *ExecutorContext
}

func NewCreateIndexExecutor(ctx *ExecutorContext) *CreateIndexExecutor {
	return &CreateIndexExecutor{
		ctx: ctx,
	}
}

// Execute builds the index from the rows already stored in the table.
func (e *CreateIndexExecutor) Execute(desc catalog.IndexDesc) (*ResultSet, error) {
	ts, err := e.ctx.Catalog.GetTable(desc.TableName)
	if err != nil {
		return nil, err
	}
	col, ok := ts.Columns.Contains(desc.ColumnName)
	if !ok {
		return nil, errors.Newf("column %s not found in %s", desc.ColumnName, desc.TableName)
	}

	idx, err := storage.NewIndex(desc.Kind, desc.TableName, desc.IndexName)
	if err != nil {
		return nil, err
	}

	heap := e.ctx.Storage.OpenHeapFile(desc.TableName, ts.Schema())
	scan, err := heap.OpenScan()
	if err != nil {
		return nil, err
	}
	type entry struct {
		key types.Value
		rid tuple.RID
	}
	entries := make([]entry, 0)
	for {
		ok, err := scan.HasNext()
		if err != nil {
			scan.Close()
			return nil, err
		}
		if !ok {
			break
		}
		t, err := scan.Next()
		if err != nil {
			scan.Close()
			return nil, err
		}
		rid, _ := t.RID()
		entries = append(entries, entry{key: t.Value(int(col)), rid: rid})
	}
	if err := scan.Close(); err != nil {
		return nil, err
	}

	err = e.ctx.Storage.WithExclusive(desc.TableName, func() error {
		for _, en := range entries {
			if err := idx.Insert(en.key, en.rid); err != nil {
				return err
			}
		}
		if err := e.ctx.Storage.WriteIndex(idx); err != nil {
			return err
		}
		if err := e.ctx.Catalog.AddIndex(desc); err != nil {
			return err
		}
		return e.ctx.Catalog.Save()
	})
	if err != nil {
		return nil, err
	}

	e.ctx.Logger.Debug("index created",
		zap.String("index", desc.IndexName),
		zap.String("table", desc.TableName),
		zap.String("kind", string(desc.Kind)),
		zap.Int("entries", len(entries)))
	return &ResultSet{
		Message: "successfully created index!",
	}, nil
}
