package planner

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/parser/statements/ddl"
)

type DescribePlan struct {
	TableSchema *catalog.TableSchema
}

func BuildDescribePlan(ct *catalog.Catalog, stmt *ddl.DescribeStmt) (*DescribePlan, error) {
	ts, err := ct.GetTable(stmt.TableName)
	if err != nil {
		return nil, common.PlanValidationError(err)
	}
	return &DescribePlan{
		TableSchema: ts,
	}, nil
}

type DropIndexPlan struct {
	IndexDesc catalog.IndexDesc
}

func BuildDropIndexPlan(ct *catalog.Catalog, stmt *ddl.DropIndexStmt) (*DropIndexPlan, error) {
	if stmt.TableName == "" {
		desc, err := ct.FindIndex(stmt.IndexName)
		if err != nil {
			return nil, common.PlanValidationError(err)
		}
		return &DropIndexPlan{IndexDesc: desc}, nil
	}

	if _, err := ct.GetTable(stmt.TableName); err != nil {
		return nil, common.PlanValidationError(err)
	}
	for _, desc := range ct.GetIndexes(stmt.TableName) {
		if desc.IndexName == stmt.IndexName {
			return &DropIndexPlan{IndexDesc: desc}, nil
		}
	}
	return nil, common.PlanValidationError(
		errors.Wrapf(catalog.IndexNotFoundError, "%s on %s", stmt.IndexName, stmt.TableName))
}
