package planner

import (
	"github.com/cockroachdb/errors"
	mapset "github.com/deckarep/golang-set/v2"
	pair "github.com/notEpsilon/go-pair"
	"go.uber.org/zap"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/expression"
	"tsumikidb/tuple"
)

type OptimizerState uint8

const (
	Validating OptimizerState = iota
	Building
	Finalized
	Failed
)

func (s OptimizerState) String() string {
	switch s {
	case Validating:
		return "Validating"
	case Building:
		return "Building"
	case Finalized:
		return "Finalized"
	default:
		return "Failed"
	}
}

// Query is the optimizer input. An empty Columns list keeps every field.
type Query struct {
	Tables  []string
	Columns []string
	Where   expression.CNF
}

// Optimizer turns one Query into an operator tree. An Optimizer is single
// use.
type Optimizer struct {
	ctx     *executor.ExecutorContext
	catalog catalog.Reader
	cfg     common.PlannerConfig
	logger  *zap.Logger

	state   OptimizerState
	pm      *PredicateManager
	entries []*planEntry
}

func NewOptimizer(ctx *executor.ExecutorContext, cfg common.PlannerConfig) *Optimizer {
	return &Optimizer{
		ctx:     ctx,
		catalog: ctx.Catalog,
		cfg:     cfg,
		logger:  ctx.Logger.Named("optimizer"),
		state:   Validating,
	}
}

func (o *Optimizer) State() OptimizerState { return o.state }

func (o *Optimizer) PredicateManager() *PredicateManager { return o.pm }

func (o *Optimizer) Build(q *Query) (executor.Executor, error) {
	if o.state != Validating {
		return nil, errors.Newf("optimizer already used, state %s", o.state)
	}

	tables, err := o.validate(q)
	if err != nil {
		o.fail()
		return nil, common.PlanValidationError(err)
	}
	if err := o.openLeaves(tables); err != nil {
		o.fail()
		return nil, common.PlanValidationError(err)
	}

	o.state = Building
	if err := o.build(); err != nil {
		o.fail()
		return nil, err
	}

	root := o.entries[0].it
	if len(q.Columns) > 0 {
		fields := make([]int, len(q.Columns))
		for i, col := range q.Columns {
			f, err := root.Schema().Lookup(tuple.SplitColumnRef(col))
			if err != nil {
				o.fail()
				return nil, errors.Mark(errors.Wrapf(err, "column %s lost during planning", col), common.ErrPlanningInvariant)
			}
			fields[i] = f
		}
		proj, err := executor.NewProjectionExecutor(root, fields)
		if err != nil {
			o.fail()
			return nil, err
		}
		root = proj
	}

	o.state = Finalized
	o.entries = nil
	return root, nil
}

func (o *Optimizer) validate(q *Query) ([]*baseTable, error) {
	if len(q.Tables) == 0 {
		return nil, errors.New("no tables to read")
	}

	seen := mapset.NewSet[string]()
	tables := make([]*baseTable, 0, len(q.Tables))
	var combined *tuple.Schema
	for _, name := range q.Tables {
		if !seen.Add(name) {
			return nil, errors.Newf("table %s listed twice", name)
		}
		schema, err := o.catalog.GetSchema(name)
		if err != nil {
			return nil, err
		}
		count, err := o.catalog.GetRecCount(name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, &baseTable{
			name:     name,
			schema:   schema,
			recCount: count,
			indexes:  o.catalog.GetIndexes(name),
		})
		if combined == nil {
			combined = schema
		} else {
			combined = tuple.Join(combined, schema)
		}
	}

	for _, clause := range q.Where {
		for _, p := range clause.Predicates {
			if err := p.Resolve(combined); err != nil {
				return nil, err
			}
			if err := p.TypeCheck(combined); err != nil {
				return nil, err
			}
		}
	}

	for _, col := range q.Columns {
		if _, err := combined.Lookup(tuple.SplitColumnRef(col)); err != nil {
			return nil, err
		}
	}

	o.pm = NewPredicateManager(q.Where, o.cfg.EqualityReduction, o.cfg.RangeReduction)
	return tables, nil
}

func (o *Optimizer) openLeaves(tables []*baseTable) error {
	tm := NewTableManager(o.ctx, tables, o.logger)
	for tm.Len() > 0 {
		entry, err := tm.NextCandidate(o.pm)
		if err != nil {
			return err
		}
		o.entries = append(o.entries, entry)
	}
	return nil
}

func (o *Optimizer) build() error {
	for len(o.entries) > 1 || o.pm.Len() > 0 {
		pushed, err := o.pushdown()
		if err != nil {
			return err
		}
		joined, err := o.joinCheapestPair()
		if err != nil {
			return err
		}
		if !pushed && !joined {
			return errors.Wrapf(common.ErrPlanningInvariant, "no progress with %d subtrees and %d clauses left", len(o.entries), o.pm.Len())
		}
	}
	return nil
}

// pushdown attaches every clause that a single subtree can answer.
func (o *Optimizer) pushdown() (bool, error) {
	pushed := false
	for _, entry := range o.entries {
		for _, clause := range o.pm.Applicable(entry.tables.Schema()) {
			if entry.bare {
				if err := o.replaceAccessPath(entry, clause); err != nil {
					return pushed, err
				}
			}
			entry.it = executor.NewSelectionExecutor(entry.it, clause)
			entry.bare = false
			o.pm.Remove(clause)
			pushed = true

			o.logger.Debug("clause pushed", zap.Stringer("tables", entry.tables), zap.Stringer("clause", clause))
		}
	}
	return pushed, nil
}

// replaceAccessPath swaps a bare full scan for an index scan when clause
// constrains an indexed column. Key lookups were already taken when the leaf
// was opened.
func (o *Optimizer) replaceAccessPath(entry *planEntry, clause *expression.Clause) error {
	for _, p := range clause.Predicates {
		if !p.Left.IsColumn() {
			continue
		}
		desc, ok := findIndex(entry.base, p.Left.Name)
		if !ok {
			continue
		}
		scan, err := o.reopen(entry, func() (*executor.ScanExecutor, error) {
			return executor.NewIndexScanExecutor(o.ctx, desc)
		})
		if err != nil {
			return err
		}
		o.logger.Debug("access path chosen",
			zap.String("table", entry.base.name),
			zap.String("path", scan.Kind().String()),
			zap.Stringer("clause", clause))
		return nil
	}
	return nil
}

// reopen closes the current leaf of entry before opening its replacement.
func (o *Optimizer) reopen(entry *planEntry, open func() (*executor.ScanExecutor, error)) (*executor.ScanExecutor, error) {
	if err := entry.it.Close(); err != nil {
		return nil, err
	}
	scan, err := open()
	if err != nil {
		// entry.it is left closed, closing it again is a no-op
		return nil, err
	}
	entry.it = scan
	return scan, nil
}

func findIndex(t *baseTable, column string) (catalog.IndexDesc, bool) {
	for _, d := range t.indexes {
		if d.ColumnName == column {
			return d, true
		}
	}
	return catalog.IndexDesc{}, false
}

// joinCheapestPair merges the two subtrees whose join is estimated cheapest.
func (o *Optimizer) joinCheapestPair() (bool, error) {
	if len(o.entries) < 2 {
		return false, nil
	}

	pairs := make([]pair.Pair[int, int], 0)
	for i := range o.entries {
		for j := i + 1; j < len(o.entries); j++ {
			pairs = append(pairs, pair.Pair[int, int]{First: i, Second: j})
		}
	}

	var (
		best       pair.Pair[int, int]
		bestSet    *TableSet
		bestClause *expression.Clause
		bestCost   float64
		found      bool
	)
	for _, p := range pairs {
		joined := JoinTableSets(o.entries[p.First].tables, o.entries[p.Second].tables)
		clause, reduction := o.pm.BestJoinClause(joined.Schema())
		cost := joined.Cost()
		if clause != nil {
			cost /= reduction
		}
		if !found || cost < bestCost {
			best, bestSet, bestClause, bestCost, found = p, joined, clause, cost, true
		}
	}

	left, right := o.entries[best.First], o.entries[best.Second]
	merged := &planEntry{
		tables: bestSet.WithCost(bestCost),
		it:     executor.NewJoinExecutor(left.it, right.it, bestClause),
	}
	if bestClause != nil {
		o.pm.Remove(bestClause)
	}
	o.entries[best.First] = merged
	o.entries = append(o.entries[:best.Second], o.entries[best.Second+1:]...)

	fields := []zap.Field{
		zap.Stringer("left", left.tables),
		zap.Stringer("right", right.tables),
		zap.Float64("cost", bestCost),
	}
	if bestClause != nil {
		fields = append(fields, zap.Stringer("clause", bestClause))
	}
	o.logger.Debug("join pair chosen", fields...)
	return true, nil
}

// fail closes every subtree opened so far.
func (o *Optimizer) fail() {
	o.state = Failed
	for _, entry := range o.entries {
		if err := entry.it.Close(); err != nil {
			o.logger.Warn("close after failed planning", zap.Error(err))
		}
	}
	o.entries = nil
}
