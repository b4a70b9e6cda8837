package expression

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"tsumikidb/common"
	"tsumikidb/tuple"
	"tsumikidb/types"
)

type OperandKind uint8

const (
	ColumnOperand OperandKind = iota
	FieldOperand
	LiteralOperand
)

// Operand is one side of a comparison. Field operands are positions within
// the schema the predicate is validated and evaluated against.
type Operand struct {
	Kind OperandKind
	// Table qualifies a column operand. Empty for a bare column name.
	Table string
	Name  string
	Field int
	Value types.Value
}

func Column(name string) Operand {
	return Operand{Kind: ColumnOperand, Name: name}
}

func QualifiedColumn(table, name string) Operand {
	return Operand{Kind: ColumnOperand, Table: table, Name: name}
}

func Field(i int) Operand {
	return Operand{Kind: FieldOperand, Field: i}
}

func Literal(v types.Value) Operand {
	return Operand{Kind: LiteralOperand, Value: v}
}

func (o Operand) IsColumn() bool { return o.Kind == ColumnOperand }

func (o Operand) IsLiteral() bool { return o.Kind == LiteralOperand }

func (o Operand) resolve(schema *tuple.Schema) (int, bool) {
	switch o.Kind {
	case ColumnOperand:
		i, err := schema.Lookup(o.Table, o.Name)
		return i, err == nil
	case FieldOperand:
		return o.Field, schema.HasField(o.Field)
	default:
		return 0, false
	}
}

func (o Operand) typeIn(schema *tuple.Schema) (types.TypeID, bool) {
	if o.Kind == LiteralOperand {
		return o.Value.ValueType(), true
	}
	i, ok := o.resolve(schema)
	if !ok {
		return types.Invalid, false
	}
	return schema.Column(i).Type, true
}

func (o Operand) valueOf(t *tuple.Tuple) (types.Value, error) {
	if o.Kind == LiteralOperand {
		return o.Value, nil
	}
	i, ok := o.resolve(t.Schema())
	if !ok {
		return types.Value{}, common.PredicateErrorf("operand %s does not resolve in %s", o, t.Schema())
	}
	return t.Value(i), nil
}

func (o Operand) String() string {
	switch o.Kind {
	case ColumnOperand:
		if o.Table != "" {
			return o.Table + "." + o.Name
		}
		return o.Name
	case FieldOperand:
		return fmt.Sprintf("#%d", o.Field)
	default:
		return o.Value.SQLString()
	}
}

type Op string

const (
	OpEqual        Op = "="
	OpNotEqual     Op = "<>"
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

func ParseOp(s string) (Op, bool) {
	switch s {
	case "=":
		return OpEqual, true
	case "<>", "!=":
		return OpNotEqual, true
	case "<":
		return OpLess, true
	case "<=":
		return OpLessEqual, true
	case ">":
		return OpGreater, true
	case ">=":
		return OpGreaterEqual, true
	default:
		return "", false
	}
}

func (op Op) holds(c int) bool {
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}

// mirror gives the operator that holds with the operands swapped.
func (op Op) mirror() Op {
	switch op {
	case OpLess:
		return OpGreater
	case OpLessEqual:
		return OpGreaterEqual
	case OpGreater:
		return OpLess
	case OpGreaterEqual:
		return OpLessEqual
	default:
		return op
	}
}

type Predicate struct {
	Op    Op
	Left  Operand
	Right Operand
}

func NewPredicate(op Op, left Operand, right Operand) *Predicate {
	return &Predicate{Op: op, Left: left, Right: right}
}

// Validate reports whether every column or field operand resolves in schema.
func (p *Predicate) Validate(schema *tuple.Schema) bool {
	for _, o := range []Operand{p.Left, p.Right} {
		if o.Kind == LiteralOperand {
			continue
		}
		if _, ok := o.resolve(schema); !ok {
			return false
		}
	}
	return true
}

// Resolve is Validate with a reason. An ambiguous column is reported as
// such, any other unresolved operand as a predicate error.
func (p *Predicate) Resolve(schema *tuple.Schema) error {
	for _, o := range []Operand{p.Left, p.Right} {
		if o.Kind == ColumnOperand {
			if _, err := schema.Lookup(o.Table, o.Name); errors.Is(err, common.ErrAmbiguousColumn) {
				return errors.Wrapf(err, "predicate %s", p)
			}
		}
		if o.Kind != LiteralOperand {
			if _, ok := o.resolve(schema); !ok {
				return common.PredicateErrorf("predicate %s does not resolve in %s", p, schema)
			}
		}
	}
	return nil
}

// TypeCheck fails when the operands cannot be compared under schema.
func (p *Predicate) TypeCheck(schema *tuple.Schema) error {
	lt, lok := p.Left.typeIn(schema)
	rt, rok := p.Right.typeIn(schema)
	if !lok || !rok {
		return common.PredicateErrorf("predicate %s does not resolve in %s", p, schema)
	}
	if !types.Comparable(lt, rt) {
		return common.TypeMismatchErrorf("predicate %s compares %s with %s", p, lt, rt)
	}
	return nil
}

func (p *Predicate) Evaluate(t *tuple.Tuple) (bool, error) {
	l, err := p.Left.valueOf(t)
	if err != nil {
		return false, err
	}
	r, err := p.Right.valueOf(t)
	if err != nil {
		return false, err
	}
	c, err := l.Compare(r)
	if errors.Is(err, types.ErrIncomparable) {
		return false, common.TypeMismatchErrorf("predicate %s: %v", p, err)
	}
	if err != nil {
		return false, err
	}
	return p.Op.holds(c), nil
}

func (p *Predicate) IsEquality() bool {
	return p.Op == OpEqual
}

// ColumnLiteral returns the predicate as `column op literal`, flipping the
// operands when the literal is on the left.
func (p *Predicate) ColumnLiteral() (Operand, Op, types.Value, bool) {
	switch {
	case p.Left.IsColumn() && p.Right.IsLiteral():
		return p.Left, p.Op, p.Right.Value, true
	case p.Left.IsLiteral() && p.Right.IsColumn():
		return p.Right, p.Op.mirror(), p.Left.Value, true
	default:
		return Operand{}, "", types.Value{}, false
	}
}

func (p *Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Left, p.Op, p.Right)
}
