package inject

import "fmt"

// UnsupportedOperatorError is returned when a condition record carries a key
// that isn't one of the recognized operators.
type UnsupportedOperatorError struct {
	Op   string
	Name string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("inject: unsupported operator %q for %q", e.Op, e.Name)
}

// InvalidConditionError is returned when a condition descriptor's shape
// doesn't match what its key implies (e.g. "in" with a non-array value).
type InvalidConditionError struct {
	Name   string
	Reason string
}

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("inject: invalid condition for %q: %s", e.Name, e.Reason)
}

// AllParametersUndefinedError is returned by Filter when the state map is
// empty and AllowAllUndefined(true) was not passed.
type AllParametersUndefinedError struct{}

func (e *AllParametersUndefinedError) Error() string {
	return "inject: all parameters undefined"
}

// ColumnNotFoundError is returned when a descriptor names a column that
// doesn't appear in any source the target query exposes, and
// SkipColumnValidation(true) was not passed.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("inject: column not found: %q", e.Column)
}

// PaginationConflictError is returned by Paginate when the target query
// already carries a LIMIT or OFFSET.
type PaginationConflictError struct{}

func (e *PaginationConflictError) Error() string {
	return "inject: query already has a LIMIT or OFFSET"
}

// MissingParameterError is returned by BindParameters when
// RequireAllParameters(true) was passed and a placeholder was left unbound.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("inject: missing parameter %q", e.Name)
}

// SortUnsupportedQueryError is returned by Sort and Paginate when asked to operate on a
// set operation (UNION/INTERSECT/EXCEPT) query, which must be wrapped as a
// subquery before sorting.
type SortUnsupportedQueryError struct{}

func (e *SortUnsupportedQueryError) Error() string {
	return "inject: sort requires a simple SELECT, not a set operation; wrap it as a subquery first"
}
