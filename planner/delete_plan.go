package planner

import (
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/expression"
	"tsumikidb/parser/statements"
)

type DeletePlan struct {
	TableName string
	Where     expression.CNF
}

func BuildDeletePlan(ct *catalog.Catalog, deleteStmt *statements.DeleteStmt) (*DeletePlan, error) {
	if err := validateWhere(ct, deleteStmt.Target, deleteStmt.Where); err != nil {
		return nil, common.PlanValidationError(err)
	}

	return &DeletePlan{
		TableName: deleteStmt.Target,
		Where:     deleteStmt.Where,
	}, nil
}

// Source opens the scan that yields the rows to delete.
func (p *DeletePlan) Source(ctx *executor.ExecutorContext) (executor.Executor, error) {
	return openFilteredScan(ctx, p.TableName, p.Where)
}

func validateWhere(ct *catalog.Catalog, tableName string, where expression.CNF) error {
	schema, err := ct.GetSchema(tableName)
	if err != nil {
		return err
	}
	for _, clause := range where {
		for _, p := range clause.Predicates {
			if err := p.Resolve(schema); err != nil {
				return err
			}
			if err := p.TypeCheck(schema); err != nil {
				return err
			}
		}
	}
	return nil
}

// openFilteredScan is a full scan with one selection per clause. Its tuples
// keep their row ids.
func openFilteredScan(ctx *executor.ExecutorContext, tableName string, where expression.CNF) (executor.Executor, error) {
	scan, err := executor.NewFullScanExecutor(ctx, tableName)
	if err != nil {
		return nil, err
	}
	var it executor.Executor = scan
	for _, clause := range where {
		it = executor.NewSelectionExecutor(it, clause)
	}
	return it, nil
}
