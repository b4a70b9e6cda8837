package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/expression"
)

type DeleteStmt struct {
	Target string
	Where  expression.CNF
}

func BuildDeleteStmt(statement *sqlparser.Delete, maxClauses int) (*DeleteStmt, error) {
	if len(statement.TableExprs) != 1 {
		return nil, errors.Newf("only support one table. got: %d", len(statement.TableExprs))
	}

	target, err := getTableNameFromTableExpr(statement.TableExprs[0])
	if err != nil {
		return nil, err
	}

	where, err := expression.GetWhereFromWhereExpr(statement.Where, maxClauses)
	if err != nil {
		return nil, err
	}

	return &DeleteStmt{
		Target: target,
		Where:  where,
	}, nil
}
