package types

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

var ErrIncomparable = errors.New("incomparable values")

// Value is a typed SQL value. The zero value has type Invalid.
type Value struct {
	valueType TypeID
	integer   int64
	float     float64
	varchar   string
}

func NewInteger(v int64) Value {
	return Value{valueType: Integer, integer: v}
}

func NewFloat(v float64) Value {
	return Value{valueType: Float, float: v}
}

func NewVarchar(v string) Value {
	return Value{valueType: Varchar, varchar: v}
}

func (v Value) ValueType() TypeID { return v.valueType }

func (v Value) ToInteger() int64 { return v.integer }

func (v Value) ToFloat() float64 {
	if v.valueType == Integer {
		return float64(v.integer)
	}
	return v.float
}

func (v Value) ToVarchar() string { return v.varchar }

func (v Value) String() string {
	switch v.valueType {
	case Integer:
		return strconv.FormatInt(v.integer, 10)
	case Float:
		return strconv.FormatFloat(v.float, 'f', -1, 64)
	case Varchar:
		return v.varchar
	default:
		return "<invalid>"
	}
}

// SQLString renders the value as a SQL literal.
func (v Value) SQLString() string {
	if v.valueType == Varchar {
		return "'" + v.varchar + "'"
	}
	if v.valueType == Float && v.float == math.Trunc(v.float) && !math.IsInf(v.float, 0) {
		return strconv.FormatFloat(v.float, 'f', 1, 64)
	}
	return v.String()
}

func compareOrdered[T constraints.Ordered](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Compare orders v against right. Numeric values are widened to float when
// the types differ, strings compare lexicographically, anything else is
// ErrIncomparable.
func (v Value) Compare(right Value) (int, error) {
	if !Comparable(v.valueType, right.valueType) {
		return 0, errors.Wrapf(ErrIncomparable, "%s vs %s", v.valueType, right.valueType)
	}

	switch {
	case v.valueType == Integer && right.valueType == Integer:
		return compareOrdered(v.integer, right.integer), nil
	case v.valueType.IsNumeric():
		return compareOrdered(v.ToFloat(), right.ToFloat()), nil
	default:
		return compareOrdered(v.varchar, right.varchar), nil
	}
}

// Equal is a strict, type-aware equality used by index structures.
func (v Value) Equal(right Value) bool {
	c, err := v.Compare(right)
	return err == nil && c == 0
}

// CastAs converts v to the given column type. Floats only narrow to integers
// when they carry no fraction.
func (v Value) CastAs(t TypeID) (Value, bool) {
	if v.valueType == t {
		return v, true
	}
	switch {
	case v.valueType == Integer && t == Float:
		return NewFloat(float64(v.integer)), true
	case v.valueType == Float && t == Integer:
		if v.float != math.Trunc(v.float) || math.IsInf(v.float, 0) || math.IsNaN(v.float) {
			return Value{}, false
		}
		return NewInteger(int64(v.float)), true
	default:
		return Value{}, false
	}
}

// Serialize produces the hashing representation of the value.
func (v Value) Serialize() []byte {
	switch v.valueType {
	case Integer:
		b := make([]byte, 9)
		b[0] = byte(Integer)
		binary.LittleEndian.PutUint64(b[1:], uint64(v.integer))
		return b
	case Float:
		b := make([]byte, 9)
		b[0] = byte(Float)
		binary.LittleEndian.PutUint64(b[1:], math.Float64bits(v.float))
		return b
	case Varchar:
		return append([]byte{byte(Varchar)}, v.varchar...)
	default:
		return []byte{byte(Invalid)}
	}
}

type jsonValue struct {
	Type    TypeID  `json:"t"`
	Integer int64   `json:"i,omitempty"`
	Float   float64 `json:"f,omitempty"`
	Varchar string  `json:"s,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Type: v.valueType, Integer: v.integer, Float: v.float, Varchar: v.varchar})
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(b, &jv); err != nil {
		return err
	}
	*v = Value{valueType: jv.Type, integer: jv.Integer, float: jv.Float, varchar: jv.Varchar}
	return nil
}
