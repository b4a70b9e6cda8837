package ddl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// DROP INDEX name [ON table]
var dropIndexPattern = regexp.MustCompile(`(?i)^\s*drop\s+index\s+(\w+)(?:\s+on\s+(\w+))?\s*;?\s*$`)

var dropIndexPrefix = regexp.MustCompile(`(?i)^\s*drop\s+index\s`)

type DropIndexStmt struct {
	IndexName string
	// empty when the statement does not name the table
	TableName string
}

func IsDropIndex(sql string) bool {
	return dropIndexPrefix.MatchString(sql)
}

func BuildDropIndexStmt(sql string) (*DropIndexStmt, error) {
	m := dropIndexPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, errors.Newf("malformed drop index: %s", strings.TrimSpace(sql))
	}
	return &DropIndexStmt{
		IndexName: m[1],
		TableName: m[2],
	}, nil
}
