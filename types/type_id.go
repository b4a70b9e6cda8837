package types

import "strings"

type TypeID uint8

const (
	Invalid TypeID = iota
	Integer
	Float
	Varchar
)

func (t TypeID) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	default:
		return "INVALID"
	}
}

func (t TypeID) IsNumeric() bool {
	return t == Integer || t == Float
}

// Comparable reports whether values of the two types can be ordered against
// each other. Integers and floats widen to float.
func Comparable(l, r TypeID) bool {
	if l.IsNumeric() && r.IsNumeric() {
		return true
	}
	return l == r && l != Invalid
}

// ParseTypeID maps SQL type names onto column types.
func ParseTypeID(name string) (TypeID, bool) {
	switch strings.ToLower(name) {
	case "int", "integer", "bigint", "smallint", "tinyint":
		return Integer, true
	case "float", "double", "real", "decimal":
		return Float, true
	case "text", "varchar", "char", "string":
		return Varchar, true
	default:
		return Invalid, false
	}
}
