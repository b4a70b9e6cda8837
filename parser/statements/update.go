package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/expression"
	"tsumikidb/types"
)

type UpdateStmt struct {
	Target string

	UpdatedColumnNames  []string
	UpdatedColumnValues []types.Value

	Where expression.CNF
}

func BuildUpdateStmt(statement *sqlparser.Update, maxClauses int) (*UpdateStmt, error) {
	if len(statement.TableExprs) != 1 {
		return nil, errors.Newf("only support one table. got: %d", len(statement.TableExprs))
	}

	target, err := getTableNameFromTableExpr(statement.TableExprs[0])
	if err != nil {
		return nil, err
	}

	updatedColumnNames := make([]string, 0)
	updatedColumnValues := make([]types.Value, 0)
	for _, expr := range statement.Exprs {
		v, err := expression.GetLiteral(expr.Expr)
		if err != nil {
			return nil, err
		}
		updatedColumnNames = append(updatedColumnNames, expr.Name.Name.String())
		updatedColumnValues = append(updatedColumnValues, v)
	}

	where, err := expression.GetWhereFromWhereExpr(statement.Where, maxClauses)
	if err != nil {
		return nil, err
	}

	return &UpdateStmt{
		Target:              target,
		UpdatedColumnNames:  updatedColumnNames,
		UpdatedColumnValues: updatedColumnValues,
		Where:               where,
	}, nil
}
