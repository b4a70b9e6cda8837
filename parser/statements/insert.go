package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/expression"
	"tsumikidb/types"
)

type InsertStmt struct {
	Into        string
	ColumnNames []string
	Rows        [][]types.Value
}

func BuildInsertStmt(statement *sqlparser.Insert) (*InsertStmt, error) {
	var columnNames []string
	for _, colName := range statement.Columns {
		columnNames = append(columnNames, colName.String())
	}

	values, ok := statement.Rows.(sqlparser.Values)
	if !ok {
		return nil, errors.Newf("not supported insert source: %T", statement.Rows)
	}

	rows := make([][]types.Value, 0, len(values))
	for _, row := range values {
		vals := make([]types.Value, 0, len(row))
		for _, expr := range row {
			v, err := expression.GetLiteral(expr)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		rows = append(rows, vals)
	}

	return &InsertStmt{
		Into:        statement.Table.Name.String(),
		ColumnNames: columnNames,
		Rows:        rows,
	}, nil
}
