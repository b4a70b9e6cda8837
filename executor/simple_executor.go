package executor

import (
	"fmt"
	"io"
	"strings"
)

type ResultSet struct {
	Header  []string
	Rows    [][]string
	Message string
}

// Print writes the result as an aligned table followed by its message.
func (rs *ResultSet) Print(w io.Writer) {
	columnWidths := make([]int, len(rs.Header))
	for i, header := range rs.Header {
		columnWidths[i] = len(header)
	}

	for _, row := range rs.Rows {
		for i, cell := range row {
			columnWidths[i] = max(columnWidths[i], len(cell))
		}
	}

	if len(rs.Header) > 0 {
		headerParts := make([]string, len(rs.Header))
		for i, header := range rs.Header {
			headerParts[i] = fmt.Sprintf("%-*s", columnWidths[i], header)
		}
		fmt.Fprintln(w, strings.Join(headerParts, " | "))

		separatorParts := make([]string, len(rs.Header))
		for i, width := range columnWidths {
			separatorParts[i] = strings.Repeat("-", width)
		}
		fmt.Fprintln(w, strings.Join(separatorParts, "-+-"))
	}

	for _, row := range rs.Rows {
		rowParts := make([]string, len(row))
		for i, cell := range row {
			rowParts[i] = fmt.Sprintf("%-*s", columnWidths[i], cell)
		}
		fmt.Fprintln(w, strings.Join(rowParts, " | "))
	}

	if rs.Message != "" {
		fmt.Fprintln(w, rs.Message)
	}
}
