package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/parser/statements"
	"tsumikidb/parser/statements/ddl"
)

type Stmt interface{}

var explainPrefix = regexp.MustCompile(`(?i)^\s*explain\s+`)

type SimpleParser struct {
	maxClauses int
}

// NewSimpleParser returns a parser whose WHERE clauses may expand to at most
// maxClauses CNF clauses. Zero disables the limit.
func NewSimpleParser(maxClauses int) *SimpleParser {
	return &SimpleParser{
		maxClauses: maxClauses,
	}
}

func (sp *SimpleParser) Parse(SqlString string) (Stmt, error) {
	if loc := explainPrefix.FindStringIndex(SqlString); loc != nil {
		stmt, err := sp.Parse(SqlString[loc[1]:])
		if err != nil {
			return nil, err
		}
		selectStmt, ok := stmt.(*statements.SelectStmt)
		if !ok {
			return nil, errors.Newf("explain only supports select, got: %T", stmt)
		}
		selectStmt.Explain = true
		return selectStmt, nil
	}

	switch {
	case ddl.IsCreateIndex(SqlString):
		return ddl.BuildCreateIndexStmt(SqlString)
	case ddl.IsDropIndex(SqlString):
		return ddl.BuildDropIndexStmt(SqlString)
	case ddl.IsDescribe(SqlString):
		return ddl.BuildDescribeStmt(SqlString)
	}

	stmt, err := sqlparser.Parse(strings.TrimSpace(SqlString))
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		return statements.BuildSelectStmt(s, sp.maxClauses)
	case *sqlparser.Insert:
		return statements.BuildInsertStmt(s)
	case *sqlparser.Update:
		return statements.BuildUpdateStmt(s, sp.maxClauses)
	case *sqlparser.Delete:
		return statements.BuildDeleteStmt(s, sp.maxClauses)
	case *sqlparser.DDL:
		return sp.parseDDLStatement(s)
	default:
		return nil, errors.Newf("not supported: %T", s)
	}
}

func (sp *SimpleParser) parseDDLStatement(ddlStatement *sqlparser.DDL) (Stmt, error) {
	switch ddlStatement.Action {
	case sqlparser.CreateStr:
		return ddl.BuildCreateTableStmt(ddlStatement)
	default:
		return nil, errors.Newf("not supported DDL action: %s", ddlStatement.Action)
	}
}
