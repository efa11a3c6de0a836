package query

import (
	"strings"
)

// Operator is the comparison applied by a single filter clause.
type Operator int

const (
	Equals Operator = iota
	NotEquals
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
	Contains
	StartsWith
	EndsWith
	In
)

var operatorTokens = map[string]Operator{
	"eq":               Equals,
	"equals":           Equals,
	"ne":               NotEquals,
	"neq":              NotEquals,
	"not-equals":       NotEquals,
	"gt":               GreaterThan,
	"greater-than":     GreaterThan,
	"gte":              GreaterOrEqual,
	"greater-or-equal": GreaterOrEqual,
	"lt":               LessThan,
	"less-than":        LessThan,
	"lte":              LessOrEqual,
	"less-or-equal":    LessOrEqual,
	"contains":         Contains,
	"startswith":       StartsWith,
	"starts-with":      StartsWith,
	"endswith":         EndsWith,
	"ends-with":        EndsWith,
	"in":               In,
	"in-set":           In,
}

// ParseOperator resolves an operator token like "eq", "gte" or "starts-with" (case-insensitive).
func ParseOperator(token string) (Operator, error) {
	op, ok := operatorTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, parseError(ErrUnsupportedOperator, "%q", token)
	}

	return op, nil
}

// String returns the canonical token of the operator.
func (o Operator) String() string {
	switch o {
	case Equals:
		return "eq"
	case NotEquals:
		return "ne"
	case GreaterThan:
		return "gt"
	case GreaterOrEqual:
		return "gte"
	case LessThan:
		return "lt"
	case LessOrEqual:
		return "lte"
	case Contains:
		return "contains"
	case StartsWith:
		return "startswith"
	case EndsWith:
		return "endswith"
	case In:
		return "in"
	default:
		return "unknown"
	}
}

// IsTextMatch reports whether the operator is a case-insensitive substring match.
func (o Operator) IsTextMatch() bool {
	return o == Contains || o == StartsWith || o == EndsWith
}

// IsOrdering reports whether the operator needs an ordered field type.
func (o Operator) IsOrdering() bool {
	return o == GreaterThan || o == GreaterOrEqual || o == LessThan || o == LessOrEqual
}
