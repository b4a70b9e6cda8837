package ddl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"tsumikidb/catalog"
	"tsumikidb/storage"
)

// CREATE INDEX name ON table(column) [USING HASH|BTREE]
var createIndexPattern = regexp.MustCompile(`(?i)^\s*create\s+index\s+(\w+)\s+on\s+(\w+)\s*\(\s*(\w+)\s*\)\s*(?:using\s+(\w+))?\s*;?\s*$`)

var createIndexPrefix = regexp.MustCompile(`(?i)^\s*create\s+index\s`)

type CreateIndexStmt struct {
	IndexDesc catalog.IndexDesc
}

func IsCreateIndex(sql string) bool {
	return createIndexPrefix.MatchString(sql)
}

func BuildCreateIndexStmt(sql string) (*CreateIndexStmt, error) {
	m := createIndexPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, errors.Newf("malformed create index: %s", strings.TrimSpace(sql))
	}

	kind, ok := storage.ParseIndexKind(strings.ToLower(m[4]))
	if !ok {
		return nil, errors.Newf("unknown index kind: %s", m[4])
	}

	return &CreateIndexStmt{
		IndexDesc: catalog.IndexDesc{
			TableName:  m[2],
			ColumnName: m[3],
			IndexName:  m[1],
			Kind:       kind,
		},
	}, nil
}
