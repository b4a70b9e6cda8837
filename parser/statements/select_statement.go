package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/expression"
)

type SelectStmt struct {
	// FROM order, names as written
	Tables []string

	// Actual column name (not alias)
	ColumnNames []string

	IsAllColumns bool

	Where expression.CNF

	Explain bool
}

func BuildSelectStmt(statement *sqlparser.Select, maxClauses int) (*SelectStmt, error) {
	if len(statement.From) == 0 {
		return nil, errors.New("select without from is not supported")
	}

	tables := make([]string, 0, len(statement.From))
	for _, from := range statement.From {
		tableName, err := getTableNameFromTableExpr(from)
		if err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	columnNames, err := getColumnNamesFromSelectExprs(statement.SelectExprs)
	if err != nil {
		return nil, err
	}

	where, err := expression.GetWhereFromWhereExpr(statement.Where, maxClauses)
	if err != nil {
		return nil, err
	}

	return &SelectStmt{
		Tables:       tables,
		ColumnNames:  columnNames,
		IsAllColumns: isAllColumns(statement.SelectExprs),
		Where:        where,
	}, nil
}

func getTableNameFromTableExpr(from sqlparser.TableExpr) (string, error) {
	switch t := from.(type) {
	case *sqlparser.AliasedTableExpr:
		switch expr := t.Expr.(type) {
		case sqlparser.TableName:
			return expr.Name.String(), nil
		default:
			return "", errors.Newf("not supported table expression type: %T", expr)
		}
	default:
		return "", errors.Newf("not supported table type: %T", from)
	}
}

func getColumnNamesFromSelectExprs(selectExprs sqlparser.SelectExprs) ([]string, error) {
	var columnNames []string
	for _, selectExpr := range selectExprs {
		switch e := selectExpr.(type) {
		case *sqlparser.AliasedExpr:
			switch col := e.Expr.(type) {
			case *sqlparser.ColName:
				name := col.Name.String()
				if !col.Qualifier.IsEmpty() {
					name = col.Qualifier.Name.String() + "." + name
				}
				columnNames = append(columnNames, name)
			default:
				return nil, errors.Newf("not supported column expression type: %T", e.Expr)
			}
		case *sqlparser.StarExpr:
			// '*' will be handled separately and specially
			return nil, nil
		default:
			return nil, errors.Newf("not supported select expression type: %T", selectExpr)
		}
	}
	return columnNames, nil
}

func isAllColumns(selectExprs sqlparser.SelectExprs) bool {
	for _, selectExpr := range selectExprs {
		switch selectExpr.(type) {
		case *sqlparser.StarExpr:
			return true
		default:
			return false
		}
	}
	return false
}
