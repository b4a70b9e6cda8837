package planner

import (
	"github.com/cockroachdb/errors"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/parser/statements"
	"tsumikidb/types"
)

type InsertPlan struct {
	Into string
	// full rows in column order, cast to the column types
	Rows [][]types.Value
}

func BuildInsertPlan(ct *catalog.Catalog, insertStmt *statements.InsertStmt) (*InsertPlan, error) {
	tableSchema, err := ct.GetTable(insertStmt.Into)
	if err != nil {
		return nil, err
	}

	columnOrders := make([]uint64, 0, len(tableSchema.Columns))
	if len(insertStmt.ColumnNames) == 0 {
		for order := range tableSchema.Columns {
			columnOrders = append(columnOrders, uint64(order))
		}
	} else {
		// TODO: support NULL so that columns may be left out
		if len(insertStmt.ColumnNames) != len(tableSchema.Columns) {
			return nil, errors.Newf("all %d columns of %s must be given, got %d", len(tableSchema.Columns), tableSchema.Name, len(insertStmt.ColumnNames))
		}
		for _, col := range insertStmt.ColumnNames {
			order, found := tableSchema.Columns.Contains(col)
			if !found {
				return nil, common.SchemaErrorf("column not found: %s", col)
			}
			columnOrders = append(columnOrders, order)
		}
	}

	rows := make([][]types.Value, 0, len(insertStmt.Rows))
	for _, values := range insertStmt.Rows {
		if len(values) != len(columnOrders) {
			return nil, errors.Newf("column length and value length are not matched. column length: %d, value length: %d", len(columnOrders), len(values))
		}
		row := make([]types.Value, len(tableSchema.Columns))
		for i, order := range columnOrders {
			col := tableSchema.Columns[order]
			v, ok := values[i].CastAs(col.Type)
			if !ok {
				return nil, common.TypeMismatchErrorf("value %s does not fit column %s %s", values[i].SQLString(), col.Name, col.Type)
			}
			row[order] = v
		}
		rows = append(rows, row)
	}

	return &InsertPlan{
		Into: tableSchema.Name,
		Rows: rows,
	}, nil
}
