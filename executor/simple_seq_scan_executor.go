package executor

import (
	"io"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/storage"
	"tsumikidb/tuple"
)

type ScanKind uint8

const (
	FullScan ScanKind = iota
	KeyScan
	IndexScan
)

func (k ScanKind) String() string {
	switch k {
	case FullScan:
		return "FullScan"
	case KeyScan:
		return "KeyScan"
	case IndexScan:
		return "IndexScan"
	default:
		return "Scan"
	}
}

// ScanExecutor is a leaf over one base table. It owns exactly one storage
// cursor.
type ScanExecutor struct {
	kind      ScanKind
	tableName string
	detail    string
	schema    *tuple.Schema
	cursor    storage.Cursor
	closed    bool
}

func NewFullScanExecutor(ctx *ExecutorContext, tableName string) (*ScanExecutor, error) {
	heap, err := ctx.openHeap(tableName)
	if err != nil {
		return nil, err
	}
	cursor, err := heap.OpenScan()
	if err != nil {
		return nil, err
	}
	return &ScanExecutor{
		kind:      FullScan,
		tableName: tableName,
		schema:    heap.Schema(),
		cursor:    cursor,
	}, nil
}

func (e *ScanExecutor) Kind() ScanKind { return e.kind }

func (e *ScanExecutor) TableName() string { return e.tableName }

func (e *ScanExecutor) Restart() error {
	if e.closed {
		return errors.Newf("restart of closed %s on %s", e.kind, e.tableName)
	}
	return e.cursor.Restart()
}

func (e *ScanExecutor) HasNext() (bool, error) {
	if e.closed {
		return false, nil
	}
	return e.cursor.HasNext()
}

func (e *ScanExecutor) Next() (*tuple.Tuple, error) {
	if e.closed {
		return nil, errors.Wrapf(common.ErrExhausted, "%s on %s is closed", e.kind, e.tableName)
	}
	return e.cursor.Next()
}

func (e *ScanExecutor) Schema() *tuple.Schema { return e.schema }

func (e *ScanExecutor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.cursor.Close()
}

func (e *ScanExecutor) Explain(w io.Writer, depth int) {
	if e.detail == "" {
		explainLine(w, depth, "%s(%s)", e.kind, e.tableName)
		return
	}
	explainLine(w, depth, "%s(%s, %s)", e.kind, e.tableName, e.detail)
}
