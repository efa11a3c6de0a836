package fixture

import (
	"database/sql/driver"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ColumnType is the primitive type of a column.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnGUID     ColumnType = "guid"
	ColumnDateTime ColumnType = "datetime"
	ColumnInteger  ColumnType = "integer"
	ColumnFloat    ColumnType = "float"
	ColumnDecimal  ColumnType = "decimal"
	ColumnBoolean  ColumnType = "boolean"
	ColumnBinary   ColumnType = "binary"
)

// ColumnTypes lists all valid column types.
func ColumnTypes() []ColumnType {
	return []ColumnType{
		ColumnText, ColumnGUID, ColumnDateTime, ColumnInteger,
		ColumnFloat, ColumnDecimal, ColumnBoolean, ColumnBinary,
	}
}

func (t ColumnType) Valid() bool {
	switch t {
	case ColumnText, ColumnGUID, ColumnDateTime, ColumnInteger, ColumnFloat, ColumnDecimal, ColumnBoolean, ColumnBinary:
		return true
	default:
		return false
	}
}

// datetimeLayouts are tried in order for textual datetimes, the last ones are what SQLite drivers return.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Normalize converts a value read from a database driver or decoded from JSON
// into the canonical Go value of the column type. nil stays nil.
func (t ColumnType) Normalize(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	value, err := t.normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %T(%v) as %s: %w", ErrValueTypeMismatch, raw, raw, t, err)
	}

	return value, nil
}

//nolint:gocyclo,cyclop
func (t ColumnType) normalize(raw any) (any, error) {
	if s, ok := asString(raw); ok {
		return t.fromString(s)
	}

	switch t {
	case ColumnText:
		if b, ok := raw.([]byte); ok {
			return string(b), nil
		}

	case ColumnGUID:
		switch v := raw.(type) {
		case uuid.UUID:
			return v, nil
		case [16]byte:
			return uuid.UUID(v), nil
		case []byte:
			if len(v) == 16 {
				return uuid.FromBytes(v)
			}

			return uuid.ParseBytes(v)
		}

	case ColumnDateTime:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC(), nil
		case []byte:
			return t.fromString(string(v))
		}

	case ColumnInteger:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		case []byte:
			return t.fromString(string(v))
		}

	case ColumnFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case decimal.Decimal:
			return v.InexactFloat64(), nil
		case []byte:
			return t.fromString(string(v))
		}

	case ColumnDecimal:
		switch v := raw.(type) {
		case decimal.Decimal:
			return v, nil
		case int64:
			return decimal.NewFromInt(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		case []byte:
			return t.fromString(string(v))
		}

	case ColumnBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case int:
			return v != 0, nil
		case []byte:
			return t.fromString(string(v))
		}

	case ColumnBinary:
		if b, ok := raw.([]byte); ok {
			return append([]byte(nil), b...), nil
		}
	}

	// e.g. pgtype.Numeric from pgx
	if valuer, ok := raw.(driver.Valuer); ok {
		value, err := valuer.Value()
		if err != nil {
			return nil, err
		}

		if value == nil {
			return nil, nil
		}

		return t.normalize(value)
	}

	return nil, fmt.Errorf("unsupported go type %T", raw)
}

// asString matches string and every named string type, e.g. json.Number.
func asString(raw any) (string, bool) {
	if s, ok := raw.(string); ok {
		return s, true
	}

	v := reflect.ValueOf(raw)
	if v.Kind() == reflect.String {
		return v.String(), true
	}

	return "", false
}

func (t ColumnType) fromString(s string) (any, error) {
	switch t {
	case ColumnText:
		return s, nil
	case ColumnGUID:
		return uuid.Parse(s)
	case ColumnDateTime:
		return parseDateTime(s)
	case ColumnInteger:
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case ColumnFloat:
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case ColumnDecimal:
		return decimal.NewFromString(strings.TrimSpace(s))
	case ColumnBoolean:
		return strconv.ParseBool(strings.TrimSpace(s))
	case ColumnBinary:
		return base64.StdEncoding.DecodeString(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumnType, string(t))
	}
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not a datetime", s)
}

// encode converts a canonical value into its JSON representation.
func (t ColumnType) encode(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return v.String()
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	default:
		return v
	}
}
