package common

import "github.com/cockroachdb/errors"

// Planner and executor error kinds. Concrete failures are wrapped with a
// specific message and marked with one of these so callers can errors.Is them.
var (
	ErrSchema            = errors.New("schema error")
	ErrAmbiguousColumn   = errors.New("ambiguous column")
	ErrPredicate         = errors.New("predicate error")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrPlanValidation    = errors.New("plan validation error")
	ErrPlanningInvariant = errors.New("planning invariant violation")
	ErrExhausted         = errors.New("iterator exhausted")
)

// Storage error kinds.
var (
	ErrHandleExhausted = errors.New("too many open handles")
	ErrLockConflict    = errors.New("table lock conflict")
	ErrTupleTooLarge   = errors.New("tuple too large for page slot")
	ErrPageNotFound    = errors.New("page not found")
)

// SchemaErrorf reports an unknown table or column reference.
func SchemaErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrSchema)
}

// AmbiguousColumnErrorf reports an unqualified column name shared by more
// than one table. It is also a schema error.
func AmbiguousColumnErrorf(format string, args ...interface{}) error {
	err := errors.Mark(errors.Newf(format, args...), ErrAmbiguousColumn)
	return errors.Mark(err, ErrSchema)
}

// PredicateErrorf reports an operand that fails to resolve.
func PredicateErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrPredicate)
}

// TypeMismatchErrorf reports a comparison between incomparable types. The
// result is both a type mismatch and a predicate error.
func TypeMismatchErrorf(format string, args ...interface{}) error {
	err := errors.Mark(errors.Newf(format, args...), ErrTypeMismatch)
	return errors.Mark(err, ErrPredicate)
}

// PlanValidationError wraps the cause of a failed validation.
func PlanValidationError(cause error) error {
	return errors.Mark(errors.Wrap(cause, "invalid query"), ErrPlanValidation)
}
