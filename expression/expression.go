package expression

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/types"
)

var TooManyClausesError = errors.New("where clause expands to too many clauses")

// GetWhereFromWhereExpr converts a WHERE tree into conjunctive normal form.
// A nil where yields an empty CNF.
func GetWhereFromWhereExpr(whereExpr *sqlparser.Where, maxClauses int) (CNF, error) {
	if whereExpr == nil {
		return CNF{}, nil
	}
	if whereExpr.Type != sqlparser.WhereStr {
		return nil, errors.Newf("not supported where type: %s", whereExpr.Type)
	}

	return BuildCNF(whereExpr.Expr, maxClauses)
}

// BuildCNF distributes OR over AND until expr is an AND of OR-clauses.
// maxClauses bounds the expansion, zero means unbounded.
func BuildCNF(expr sqlparser.Expr, maxClauses int) (CNF, error) {
	switch e := expr.(type) {
	case *sqlparser.ParenExpr:
		return BuildCNF(e.Expr, maxClauses)

	case *sqlparser.AndExpr:
		left, err := BuildCNF(e.Left, maxClauses)
		if err != nil {
			return nil, err
		}
		right, err := BuildCNF(e.Right, maxClauses)
		if err != nil {
			return nil, err
		}
		cnf := append(append(CNF{}, left...), right...)
		if maxClauses > 0 && len(cnf) > maxClauses {
			return nil, errors.Wrapf(TooManyClausesError, "%d > %d", len(cnf), maxClauses)
		}
		return cnf, nil

	case *sqlparser.OrExpr:
		left, err := BuildCNF(e.Left, maxClauses)
		if err != nil {
			return nil, err
		}
		right, err := BuildCNF(e.Right, maxClauses)
		if err != nil {
			return nil, err
		}
		if maxClauses > 0 && len(left)*len(right) > maxClauses {
			return nil, errors.Wrapf(TooManyClausesError, "%d > %d", len(left)*len(right), maxClauses)
		}
		// (a AND b) OR (c AND d) => (a OR c) AND (a OR d) AND (b OR c) AND (b OR d)
		cnf := make(CNF, 0, len(left)*len(right))
		for _, l := range left {
			for _, r := range right {
				preds := make([]*Predicate, 0, len(l.Predicates)+len(r.Predicates))
				preds = append(preds, l.Predicates...)
				preds = append(preds, r.Predicates...)
				cnf = append(cnf, NewClause(preds...))
			}
		}
		return cnf, nil

	case *sqlparser.ComparisonExpr:
		p, err := getPredicateFromComparison(e)
		if err != nil {
			return nil, err
		}
		return CNF{NewClause(p)}, nil

	default:
		return nil, errors.Newf("not supported expression type: %T", expr)
	}
}

func getPredicateFromComparison(comparisonExpr *sqlparser.ComparisonExpr) (*Predicate, error) {
	op, ok := ParseOp(comparisonExpr.Operator)
	if !ok {
		return nil, errors.Newf("not supported operator: %s", comparisonExpr.Operator)
	}
	left, err := getOperandFromExpr(comparisonExpr.Left)
	if err != nil {
		return nil, err
	}
	right, err := getOperandFromExpr(comparisonExpr.Right)
	if err != nil {
		return nil, err
	}
	return NewPredicate(op, left, right), nil
}

func getOperandFromExpr(expr sqlparser.Expr) (Operand, error) {
	switch e := expr.(type) {
	case *sqlparser.ColName:
		return QualifiedColumn(e.Qualifier.Name.String(), e.Name.String()), nil
	case *sqlparser.SQLVal:
		v, err := GetValueFromSQLVal(e)
		if err != nil {
			return Operand{}, err
		}
		return Literal(v), nil
	case *sqlparser.ParenExpr:
		return getOperandFromExpr(e.Expr)
	case *sqlparser.UnaryExpr:
		if e.Operator != sqlparser.UMinusStr {
			return Operand{}, errors.Newf("not supported unary operator: %s", e.Operator)
		}
		o, err := getOperandFromExpr(e.Expr)
		if err != nil {
			return Operand{}, err
		}
		if !o.IsLiteral() || !o.Value.ValueType().IsNumeric() {
			return Operand{}, errors.Newf("cannot negate %s", o)
		}
		if o.Value.ValueType() == types.Integer {
			return Literal(types.NewInteger(-o.Value.ToInteger())), nil
		}
		return Literal(types.NewFloat(-o.Value.ToFloat())), nil
	default:
		return Operand{}, errors.Newf("not supported operand type: %T", expr)
	}
}

// GetValueFromSQLVal converts a parsed literal into a typed value.
func GetValueFromSQLVal(val *sqlparser.SQLVal) (types.Value, error) {
	switch val.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(val.Val), 10, 64)
		if err != nil {
			return types.Value{}, errors.Wrapf(err, "integer literal %s", val.Val)
		}
		return types.NewInteger(n), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(val.Val), 64)
		if err != nil {
			return types.Value{}, errors.Wrapf(err, "float literal %s", val.Val)
		}
		return types.NewFloat(f), nil
	case sqlparser.StrVal:
		return types.NewVarchar(string(val.Val)), nil
	default:
		return types.Value{}, errors.Newf("not supported literal type: %d", val.Type)
	}
}

// GetLiteral evaluates a constant expression such as an INSERT value.
func GetLiteral(expr sqlparser.Expr) (types.Value, error) {
	o, err := getOperandFromExpr(expr)
	if err != nil {
		return types.Value{}, err
	}
	if !o.IsLiteral() {
		return types.Value{}, errors.Newf("expected a literal, got %s", sqlparser.String(expr))
	}
	return o.Value, nil
}
