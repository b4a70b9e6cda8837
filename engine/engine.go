package engine

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/parser"
	"tsumikidb/parser/statements"
	"tsumikidb/planner"
	"tsumikidb/storage"
	"tsumikidb/tuple"
)

// Engine runs single SQL statements against one catalog and storage.
type Engine struct {
	cfg     *common.Config
	logger  *zap.Logger
	storage *storage.Storage
	catalog *catalog.Catalog
	ctx     *executor.ExecutorContext
	parser  *parser.SimpleParser
	planner *planner.SimplePlanner
}

func Open(cfg *common.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = common.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var dm storage.DiskManager
	if cfg.Storage.Dir == "" {
		dm = storage.NewVirtualDiskManager()
	} else {
		fdm, err := storage.NewFileDiskManager(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		dm = fdm
	}

	st := storage.NewStorage(dm, cfg.Storage.MaxOpenHandles, logger.Named("storage"))
	ct, err := catalog.LoadCatalog(st, logger.Named("catalog"))
	if err != nil {
		return nil, err
	}
	ctx := executor.NewExecutorContext(ct, st, logger)

	logger.Info("engine opened",
		zap.String("dir", cfg.Storage.Dir),
		zap.Int("tables", len(ct.TableNames())))
	return &Engine{
		cfg:     cfg,
		logger:  logger,
		storage: st,
		catalog: ct,
		ctx:     ctx,
		parser:  parser.NewSimpleParser(cfg.Planner.MaxCNFClauses),
		planner: planner.NewSimplePlanner(ctx, cfg.Planner),
	}, nil
}

func (e *Engine) Storage() *storage.Storage { return e.storage }

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Plan parses and plans sql. A returned SelectPlan holds open cursors until
// it is closed.
func (e *Engine) Plan(sql string) (planner.Plan, error) {
	stmt, err := e.parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return e.planner.MakePlan(stmt)
}

func (e *Engine) Execute(sql string) (*executor.ResultSet, error) {
	rs, err := e.execute(sql)
	if err != nil {
		e.logger.Warn("statement failed", zap.String("sql", sql), zap.Error(err))
		return nil, err
	}
	return rs, nil
}

func (e *Engine) execute(sql string) (*executor.ResultSet, error) {
	pl, err := e.Plan(sql)
	if err != nil {
		return nil, err
	}

	switch p := pl.(type) {
	case *planner.SelectPlan:
		return p.Result()
	case *planner.InsertPlan:
		return executor.NewInsertExecutor(e.ctx).Execute(p.Into, p.Rows)
	case *planner.DeletePlan:
		source, err := p.Source(e.ctx)
		if err != nil {
			return nil, err
		}
		return executor.NewDeleteExecutor(e.ctx).Execute(p.TableName, source)
	case *planner.UpdatePlan:
		source, err := p.Source(e.ctx)
		if err != nil {
			return nil, err
		}
		return executor.NewUpdateExecutor(e.ctx).Execute(p.TableName, source, p.Assignments)
	case *planner.CreateTablePlan:
		return executor.NewCreateTableExecutor(e.ctx).Execute(p.TableSchema)
	case *planner.CreateIndexPlan:
		return executor.NewCreateIndexExecutor(e.ctx).Execute(p.IndexDesc)
	case *planner.DropIndexPlan:
		return executor.NewDropIndexExecutor(e.ctx).Execute(p.IndexDesc)
	case *planner.DescribePlan:
		return executor.NewDescribeExecutor(e.ctx).Execute(p.TableSchema)
	default:
		return nil, errors.Newf("not supported plan type: %T", p)
	}
}

func (e *Engine) selectPlan(sql string) (*planner.SelectPlan, error) {
	stmt, err := e.parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	selectStmt, ok := stmt.(*statements.SelectStmt)
	if !ok {
		return nil, errors.Newf("not a query: %s", strings.TrimSpace(sql))
	}
	return planner.BuildSelectPlan(e.ctx, e.cfg.Planner, selectStmt)
}

// Query runs a SELECT and returns all of its rows.
func (e *Engine) Query(sql string) ([]*tuple.Tuple, error) {
	p, err := e.selectPlan(sql)
	if err != nil {
		e.logger.Warn("query failed", zap.String("sql", sql), zap.Error(err))
		return nil, err
	}
	defer p.Close()

	return p.DrainAll()
}

// Explain renders the operator tree a SELECT would run, without running it.
func (e *Engine) Explain(sql string) (string, error) {
	p, err := e.selectPlan(sql)
	if err != nil {
		return "", err
	}
	defer p.Close()

	return executor.ExplainString(p.Root()), nil
}

func (e *Engine) Close() error {
	return e.storage.ShutDown()
}
