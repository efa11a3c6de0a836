package query

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery marks every failure caused by the caller's input (a "bad request").
// All parse errors wrap it, so errors.Is(err, ErrInvalidQuery) classifies them.
var ErrInvalidQuery = errors.New("invalid query")

// Parse error details, always joined with ErrInvalidQuery.
var (
	ErrMalformedQueryString      = errors.New("malformed query string")
	ErrMalformedFilterToken      = errors.New("malformed filter token")
	ErrUnknownField              = errors.New("unknown field")
	ErrUnsupportedOperator       = errors.New("unsupported operator")
	ErrOperatorNotAllowed        = errors.New("operator not allowed for field type")
	ErrCoercingValueFailed       = errors.New("value can not be converted to the field type")
	ErrInvalidValueCount         = errors.New("invalid number of values for operator")
	ErrNoSearchableFields        = errors.New("quick search needs at least one searchable field")
	ErrEmptySearchTerm           = errors.New("quick search term must not be empty")
	ErrFieldNotSortable          = errors.New("field is not sortable")
	ErrInvalidPageWindow         = errors.New("page and page size must be at least 1")
	ErrPageSizeExceedsMaximum    = errors.New("page size exceeds the maximum")
	ErrQuickSearchFieldNotText   = errors.New("quick search fields must be text fields")
	ErrEmptySortingField         = errors.New("sorting field must not be empty")
	ErrQueryExecutionFailed      = errors.New("query execution failed")
	ErrEmptyFieldName            = errors.New("field name must not be empty")
	ErrDuplicateField            = errors.New("field registered more than once")
	ErrNilFieldAccessor          = errors.New("field accessor must not be nil")
	ErrNilReader                 = errors.New("reader must not be nil")
	ErrNilMetricsCollector       = errors.New("metrics collector must not be nil")
	ErrNilTracingCollector       = errors.New("tracing collector must not be nil")
	ErrEnumFieldWithoutValues    = errors.New("enum field needs at least one allowed value")
	ErrUnsupportedFieldValueType = errors.New("unsupported go type for field value")
)

// parseError joins ErrInvalidQuery with a detailed cause.
func parseError(kind error, format string, args ...any) error {
	return errors.Join(ErrInvalidQuery, fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)))
}

// IsBadRequest reports whether err was caused by invalid caller input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidQuery)
}

// IsExecutionFailure reports whether err was caused by the underlying storage.
func IsExecutionFailure(err error) bool {
	return errors.Is(err, ErrQueryExecutionFailed)
}

// fieldError attaches the offending field name to a registration error.
func fieldError(kind error, field string) error {
	return fmt.Errorf("%w: %q", kind, field)
}
