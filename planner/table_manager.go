package planner

import (
	"sort"

	"github.com/golang-collections/collections/stack"
	"go.uber.org/zap"
	"tsumikidb/catalog"
	"tsumikidb/executor"
	"tsumikidb/tuple"
)

// baseTable is what validation learned about one FROM entry.
type baseTable struct {
	name     string
	schema   *tuple.Schema
	recCount uint64
	indexes  []catalog.IndexDesc
}

// planEntry is one subtree of the plan under construction.
type planEntry struct {
	tables *TableSet
	it     executor.Executor
	base   *baseTable
	// bare is true while it is still the unwrapped leaf of base
	bare bool
}

// TableManager hands out base tables cheapest first, each with its leaf
// access path already opened.
type TableManager struct {
	ctx    *executor.ExecutorContext
	logger *zap.Logger
	tables *stack.Stack
}

func NewTableManager(ctx *executor.ExecutorContext, tables []*baseTable, logger *zap.Logger) *TableManager {
	sorted := make([]*baseTable, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].recCount < sorted[j].recCount
	})

	s := stack.New()
	for i := len(sorted) - 1; i >= 0; i-- {
		s.Push(sorted[i])
	}
	return &TableManager{
		ctx:    ctx,
		logger: logger,
		tables: s,
	}
}

func (tm *TableManager) Len() int { return tm.tables.Len() }

// NextCandidate pops the next table and opens its leaf. A clause that can be
// answered with a key lookup is consumed from pm and applied right away.
func (tm *TableManager) NextCandidate(pm *PredicateManager) (*planEntry, error) {
	t, ok := tm.tables.Pop().(*baseTable)
	if !ok {
		return nil, nil
	}
	ts := NewTableSet(t.name, t.schema, float64(t.recCount))

	if m, ok := pm.PopIndexEquality(t.schema, t.indexes); ok {
		scan, err := executor.NewKeyScanExecutor(tm.ctx, m.Index, m.Key)
		if err != nil {
			return nil, err
		}
		tm.logger.Debug("access path chosen",
			zap.String("table", t.name),
			zap.String("path", scan.Kind().String()),
			zap.String("index", m.Index.IndexName),
			zap.Stringer("clause", m.Clause))
		return &planEntry{
			tables: ts,
			it:     executor.NewSelectionExecutor(scan, m.Clause),
			base:   t,
		}, nil
	}

	scan, err := executor.NewFullScanExecutor(tm.ctx, t.name)
	if err != nil {
		return nil, err
	}
	tm.logger.Debug("access path chosen", zap.String("table", t.name), zap.String("path", scan.Kind().String()))
	return &planEntry{
		tables: ts,
		it:     scan,
		base:   t,
		bare:   true,
	}, nil
}
