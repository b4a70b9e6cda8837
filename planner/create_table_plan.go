package planner

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/catalog"
	"tsumikidb/parser/statements/ddl"
)

type CreateTablePlan struct {
	TableSchema *catalog.TableSchema
}

func BuildCreateTablePlan(ct *catalog.Catalog, stmt *ddl.CreateTableStmt) (*CreateTablePlan, error) {
	if _, err := ct.GetTable(stmt.Into); err == nil {
		return nil, errors.Wrapf(catalog.TableAlreadyExistsError, "%s", stmt.Into)
	}

	return &CreateTablePlan{
		TableSchema: stmt.TableSchema,
	}, nil
}

type CreateIndexPlan struct {
	IndexDesc catalog.IndexDesc
}

func BuildCreateIndexPlan(ct *catalog.Catalog, stmt *ddl.CreateIndexStmt) (*CreateIndexPlan, error) {
	desc := stmt.IndexDesc
	ts, err := ct.GetTable(desc.TableName)
	if err != nil {
		return nil, err
	}
	if _, ok := ts.Columns.Contains(desc.ColumnName); !ok {
		return nil, errors.Newf("column not found: %s", desc.ColumnName)
	}
	for _, ix := range ts.Indexes {
		if ix.IndexName == desc.IndexName {
			return nil, errors.Wrapf(catalog.IndexAlreadyExistsError, "%s", desc.IndexName)
		}
	}

	return &CreateIndexPlan{
		IndexDesc: desc,
	}, nil
}
