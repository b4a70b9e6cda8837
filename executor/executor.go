package executor

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"tsumikidb/catalog"
	"tsumikidb/storage"
	"tsumikidb/tuple"
)

// Executor is a pull-based operator. HasNext never consumes a tuple, Next
// fails with common.ErrExhausted once the input is drained and Close may be
// called any number of times.
type Executor interface {
	Restart() error
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Schema() *tuple.Schema
	Close() error
	Explain(w io.Writer, depth int)
}

type ExecutorContext struct {
	Catalog *catalog.Catalog
	Storage *storage.Storage
	Logger  *zap.Logger
}

func NewExecutorContext(ct *catalog.Catalog, st *storage.Storage, logger *zap.Logger) *ExecutorContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutorContext{
		Catalog: ct,
		Storage: st,
		Logger:  logger,
	}
}

func (ctx *ExecutorContext) openHeap(tableName string) (*storage.HeapFile, error) {
	schema, err := ctx.Catalog.GetSchema(tableName)
	if err != nil {
		return nil, err
	}
	return ctx.Storage.OpenHeapFile(tableName, schema), nil
}

// loadIndexes reads every index of tableName, in catalog order.
func (ctx *ExecutorContext) loadIndexes(tableName string) ([]catalog.IndexDesc, []storage.Index, error) {
	descs := ctx.Catalog.GetIndexes(tableName)
	indexes := make([]storage.Index, len(descs))
	for i, desc := range descs {
		idx, err := ctx.Storage.ReadIndex(desc.TableName, desc.IndexName, desc.Kind)
		if err != nil {
			return nil, nil, err
		}
		indexes[i] = idx
	}
	return descs, indexes, nil
}

func (ctx *ExecutorContext) writeIndexes(indexes []storage.Index) error {
	for _, idx := range indexes {
		if err := ctx.Storage.WriteIndex(idx); err != nil {
			return err
		}
	}
	return nil
}

func explainLine(w io.Writer, depth int, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}
