package tuple

import (
	"strings"

	"tsumikidb/common"
	"tsumikidb/types"
)

type Column struct {
	// Table is empty for columns not read from a stored table.
	Table string
	Name  string
	Type  types.TypeID
}

// Schema is an ordered list of columns. It is never mutated after
// construction, so joined and projected schemas may share columns safely.
type Schema struct {
	columns []Column
	// first occurrence wins when joined inputs share a column name
	offsets map[string]int
	counts  map[string]int
}

func NewSchema(columns ...Column) *Schema {
	s := &Schema{
		columns: make([]Column, len(columns)),
		offsets: make(map[string]int, len(columns)),
		counts:  make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, col := range s.columns {
		if _, ok := s.offsets[col.Name]; !ok {
			s.offsets[col.Name] = i
		}
		s.counts[col.Name]++
	}
	return s
}

func (s *Schema) Count() int { return len(s.columns) }

func (s *Schema) Column(i int) Column { return s.columns[i] }

func (s *Schema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// FieldNumber returns the position of the named column.
func (s *Schema) FieldNumber(name string) (int, bool) {
	i, ok := s.offsets[name]
	return i, ok
}

// Lookup resolves a column reference. A qualified reference matches the
// column of that table only. An unqualified name shared by several columns is
// ambiguous.
func (s *Schema) Lookup(table, name string) (int, error) {
	if table == "" {
		i, ok := s.offsets[name]
		if !ok {
			return 0, common.SchemaErrorf("column not found: %s", name)
		}
		if s.counts[name] > 1 {
			return 0, common.AmbiguousColumnErrorf("column %s is ambiguous in %s", name, s)
		}
		return i, nil
	}
	for i, col := range s.columns {
		if col.Table == table && col.Name == name {
			return i, nil
		}
	}
	return 0, common.SchemaErrorf("column not found: %s.%s", table, name)
}

// SplitColumnRef splits "table.column" into its parts. The table part is
// empty for a bare column name.
func SplitColumnRef(ref string) (string, string) {
	if table, name, ok := strings.Cut(ref, "."); ok {
		return table, name
	}
	return "", ref
}

func (s *Schema) HasField(i int) bool {
	return i >= 0 && i < len(s.columns)
}

// Join concatenates the columns of left and right into a new schema.
func Join(left, right *Schema) *Schema {
	cols := make([]Column, 0, left.Count()+right.Count())
	cols = append(cols, left.columns...)
	cols = append(cols, right.columns...)
	return NewSchema(cols...)
}

// Project returns the schema made of the given fields, in the given order.
func (s *Schema) Project(fields []int) *Schema {
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = s.columns[f]
	}
	return NewSchema(cols...)
}

func (s *Schema) Equal(other *Schema) bool {
	if s.Count() != other.Count() {
		return false
	}
	for i := range s.columns {
		if s.columns[i] != other.columns[i] {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, col := range s.columns {
		parts[i] = col.Name + " " + col.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
