package query

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateOnlyLayout = "2006-01-02"

// CoerceValue converts a query string literal into the typed value of a field type.
// Enum literals are matched case-insensitively against enumValues.
func CoerceValue(t FieldType, literal string, enumValues ...string) (any, error) {
	value, err := coerce(t, literal, enumValues)
	if err != nil {
		return nil, parseError(ErrCoercingValueFailed, "%q as %s", literal, t)
	}

	return value, nil
}

func coerce(t FieldType, literal string, enumValues []string) (any, error) {
	switch t {
	case Text:
		return literal, nil

	case GUID:
		return uuid.Parse(strings.TrimSpace(literal))

	case Integer:
		return strconv.ParseInt(strings.TrimSpace(literal), 10, 64)

	case Float:
		return strconv.ParseFloat(strings.TrimSpace(literal), 64)

	case Decimal:
		return decimal.NewFromString(strings.TrimSpace(literal))

	case DateTime:
		return parseDateTime(strings.TrimSpace(literal))

	case Boolean:
		return strconv.ParseBool(strings.TrimSpace(literal))

	case Enum:
		trimmed := strings.TrimSpace(literal)
		for _, allowed := range enumValues {
			if strings.EqualFold(allowed, trimmed) {
				return allowed, nil
			}
		}

		return nil, fmt.Errorf("%q is not one of %v", literal, enumValues)

	default:
		return nil, fmt.Errorf("unknown field type %d", t)
	}
}

func parseDateTime(literal string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, dateOnlyLayout} {
		if ts, err := time.Parse(layout, literal); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not a datetime", literal)
}

// normalizeValue accepts either a literal string or an already typed value and
// returns the canonical typed value for the field type.
//
//nolint:gocyclo,cyclop
func normalizeValue(t FieldType, value any, enumValues []string) (any, error) {
	if s, ok := value.(string); ok {
		return CoerceValue(t, s, enumValues...)
	}

	switch t {
	case GUID:
		if v, ok := value.(uuid.UUID); ok {
			return v, nil
		}

	case Integer:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint32:
			return int64(v), nil
		}

	case Float:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}

	case Decimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v, nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		}

	case DateTime:
		if v, ok := value.(time.Time); ok {
			return v, nil
		}

	case Boolean:
		if v, ok := value.(bool); ok {
			return v, nil
		}

	case Text, Enum:
		if v, ok := value.(fmt.Stringer); ok {
			return CoerceValue(t, v.String(), enumValues...)
		}
	}

	return nil, errors.Join(parseError(ErrCoercingValueFailed, "%T as %s", value, t), ErrUnsupportedFieldValueType)
}

// compareValues orders two typed values of the same field type.
func compareValues(t FieldType, a, b any) int {
	switch t {
	case Text, Enum:
		return strings.Compare(a.(string), b.(string))
	case GUID:
		ua, ub := a.(uuid.UUID), b.(uuid.UUID)
		return bytes.Compare(ua[:], ub[:])
	case Integer:
		return cmp.Compare(a.(int64), b.(int64))
	case Float:
		return cmp.Compare(a.(float64), b.(float64))
	case Decimal:
		return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
	case DateTime:
		return a.(time.Time).Compare(b.(time.Time))
	case Boolean:
		return compareBools(a.(bool), b.(bool))
	default:
		return 0
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
