package executor

import (
	"fmt"
	"io"
	"strings"

	"tsumikidb/tuple"
)

// DrainAll pulls every remaining tuple out of it. It does not close it.
func DrainAll(it Executor) ([]*tuple.Tuple, error) {
	out := make([]*tuple.Tuple, 0)
	for {
		ok, err := it.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		t, err := it.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}

// Collect drains it into a ResultSet headed by its schema.
func Collect(it Executor) (*ResultSet, error) {
	tuples, err := DrainAll(it)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(tuples))
	for i, t := range tuples {
		rows[i] = t.Strings()
	}
	return &ResultSet{
		Header:  it.Schema().Names(),
		Rows:    rows,
		Message: fmt.Sprintf("%d rows", len(rows)),
	}, nil
}

// Execute drains it and prints the rows to w.
func Execute(it Executor, w io.Writer) error {
	rs, err := Collect(it)
	if err != nil {
		return err
	}
	rs.Print(w)
	return nil
}

func ExplainString(it Executor) string {
	sb := &strings.Builder{}
	it.Explain(sb, 0)
	return sb.String()
}
