package executor

import (
	"fmt"
	"strings"

	"tsumikidb/catalog"
)

type DescribeExecutor struct {
	ctx *ExecutorContext
}

func NewDescribeExecutor(ctx *ExecutorContext) *DescribeExecutor {
	return &DescribeExecutor{
		ctx: ctx,
	}
}

// Execute lists the columns of ts with the indexes built on each of them.
func (e *DescribeExecutor) Execute(ts *catalog.TableSchema) (*ResultSet, error) {
	rows := make([][]string, 0, len(ts.Columns))
	for _, col := range ts.Columns {
		indexes := make([]string, 0)
		for _, ix := range ts.Indexes {
			if ix.ColumnName == col.Name {
				indexes = append(indexes, fmt.Sprintf("%s (%s)", ix.IndexName, ix.Kind))
			}
		}
		rows = append(rows, []string{col.Name, col.Type.String(), strings.Join(indexes, ", ")})
	}

	return &ResultSet{
		Header:  []string{"column", "type", "index"},
		Rows:    rows,
		Message: fmt.Sprintf("%s has %d rows", ts.Name, ts.RecCount),
	}, nil
}
