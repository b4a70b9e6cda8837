package planner

import (
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/executor"
	"tsumikidb/expression"
	"tsumikidb/parser/statements"
	"tsumikidb/types"
)

type UpdatePlan struct {
	TableName   string
	Assignments map[int]types.Value
	Where       expression.CNF
}

func BuildUpdatePlan(ct *catalog.Catalog, updateStmt *statements.UpdateStmt) (*UpdatePlan, error) {
	tableSchema, err := ct.GetTable(updateStmt.Target)
	if err != nil {
		return nil, common.PlanValidationError(err)
	}

	assignments := make(map[int]types.Value, len(updateStmt.UpdatedColumnNames))
	for i, colName := range updateStmt.UpdatedColumnNames {
		order, found := tableSchema.Columns.Contains(colName)
		if !found {
			return nil, common.PlanValidationError(common.SchemaErrorf("column not found: %s", colName))
		}
		col := tableSchema.Columns[order]
		v, ok := updateStmt.UpdatedColumnValues[i].CastAs(col.Type)
		if !ok {
			return nil, common.PlanValidationError(common.TypeMismatchErrorf("value %s does not fit column %s %s", updateStmt.UpdatedColumnValues[i].SQLString(), col.Name, col.Type))
		}
		assignments[int(order)] = v
	}

	if err := validateWhere(ct, updateStmt.Target, updateStmt.Where); err != nil {
		return nil, common.PlanValidationError(err)
	}

	return &UpdatePlan{
		TableName:   updateStmt.Target,
		Assignments: assignments,
		Where:       updateStmt.Where,
	}, nil
}

// Source opens the scan that yields the rows to update.
func (p *UpdatePlan) Source(ctx *executor.ExecutorContext) (executor.Executor, error) {
	return openFilteredScan(ctx, p.TableName, p.Where)
}
