package planner

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/parser"
	"tsumikidb/parser/statements"
	"tsumikidb/parser/statements/ddl"
)

type SimplePlanner struct {
	ctx *executor.ExecutorContext
	cfg common.PlannerConfig
}

func NewSimplePlanner(ctx *executor.ExecutorContext, cfg common.PlannerConfig) *SimplePlanner {
	return &SimplePlanner{
		ctx: ctx,
		cfg: cfg,
	}
}

func (p *SimplePlanner) MakePlan(stmt parser.Stmt) (Plan, error) {
	switch s := stmt.(type) {
	case *statements.SelectStmt:
		return BuildSelectPlan(p.ctx, p.cfg, s)
	case *statements.InsertStmt:
		return BuildInsertPlan(p.ctx.Catalog, s)
	case *statements.UpdateStmt:
		return BuildUpdatePlan(p.ctx.Catalog, s)
	case *statements.DeleteStmt:
		return BuildDeletePlan(p.ctx.Catalog, s)
	case *ddl.CreateTableStmt:
		return BuildCreateTablePlan(p.ctx.Catalog, s)
	case *ddl.CreateIndexStmt:
		return BuildCreateIndexPlan(p.ctx.Catalog, s)
	case *ddl.DropIndexStmt:
		return BuildDropIndexPlan(p.ctx.Catalog, s)
	case *ddl.DescribeStmt:
		return BuildDescribePlan(p.ctx.Catalog, s)
	default:
		return nil, errors.Newf("not supported statement type: %T", s)
	}
}
