package ddl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var describePattern = regexp.MustCompile(`(?i)^\s*(?:describe|desc)\s+(\w+)\s*;?\s*$`)

var describePrefix = regexp.MustCompile(`(?i)^\s*(?:describe|desc)\s`)

type DescribeStmt struct {
	TableName string
}

func IsDescribe(sql string) bool {
	return describePrefix.MatchString(sql)
}

func BuildDescribeStmt(sql string) (*DescribeStmt, error) {
	m := describePattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, errors.Newf("malformed describe: %s", strings.TrimSpace(sql))
	}
	return &DescribeStmt{TableName: m[1]}, nil
}
