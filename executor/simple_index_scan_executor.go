package executor

import (
	"fmt"

	"tsumikidb/catalog"
	"tsumikidb/storage"
	"tsumikidb/types"
)

// NewKeyScanExecutor searches the index for rows whose indexed column equals
// key.
func NewKeyScanExecutor(ctx *ExecutorContext, desc catalog.IndexDesc, key types.Value) (*ScanExecutor, error) {
	heap, idx, err := openIndexed(ctx, desc)
	if err != nil {
		return nil, err
	}
	cursor, err := storage.OpenKeyCursor(heap, idx, key)
	if err != nil {
		return nil, err
	}
	return &ScanExecutor{
		kind:      KeyScan,
		tableName: desc.TableName,
		detail:    fmt.Sprintf("%s, %s = %s", desc.IndexName, desc.ColumnName, key.SQLString()),
		schema:    heap.Schema(),
		cursor:    cursor,
	}, nil
}

// NewIndexScanExecutor walks every entry of the index.
func NewIndexScanExecutor(ctx *ExecutorContext, desc catalog.IndexDesc) (*ScanExecutor, error) {
	heap, idx, err := openIndexed(ctx, desc)
	if err != nil {
		return nil, err
	}
	cursor, err := storage.OpenIndexCursor(heap, idx)
	if err != nil {
		return nil, err
	}
	return &ScanExecutor{
		kind:      IndexScan,
		tableName: desc.TableName,
		detail:    desc.IndexName,
		schema:    heap.Schema(),
		cursor:    cursor,
	}, nil
}

func openIndexed(ctx *ExecutorContext, desc catalog.IndexDesc) (*storage.HeapFile, storage.Index, error) {
	heap, err := ctx.openHeap(desc.TableName)
	if err != nil {
		return nil, nil, err
	}
	idx, err := ctx.Storage.ReadIndex(desc.TableName, desc.IndexName, desc.Kind)
	if err != nil {
		return nil, nil, err
	}
	return heap, idx, nil
}
