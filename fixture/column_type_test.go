package fixture_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
)

func Test_ColumnType_Normalize(t *testing.T) {
	id := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	berlin := time.FixedZone("CET", 3600)
	instant := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		typ      fixture.ColumnType
		raw      any
		expected any
	}{
		{name: "nil stays nil", typ: fixture.ColumnInteger, raw: nil, expected: nil},
		{name: "text from string", typ: fixture.ColumnText, raw: "hello", expected: "hello"},
		{name: "text from bytes", typ: fixture.ColumnText, raw: []byte("hello"), expected: "hello"},
		{name: "guid from uuid", typ: fixture.ColumnGUID, raw: id, expected: id},
		{name: "guid from string", typ: fixture.ColumnGUID, raw: id.String(), expected: id},
		{name: "guid from 16 raw bytes", typ: fixture.ColumnGUID, raw: id[:], expected: id},
		{name: "guid from array", typ: fixture.ColumnGUID, raw: [16]byte(id), expected: id},
		{name: "datetime is converted to utc", typ: fixture.ColumnDateTime, raw: instant.In(berlin), expected: instant},
		{name: "datetime from rfc3339", typ: fixture.ColumnDateTime, raw: "2024-01-15T09:30:00+01:00", expected: instant},
		{name: "datetime from sqlite text", typ: fixture.ColumnDateTime, raw: "2024-01-15 08:30:00+00:00", expected: instant},
		{name: "datetime from date only", typ: fixture.ColumnDateTime, raw: "2024-01-15", expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "integer from int", typ: fixture.ColumnInteger, raw: 42, expected: int64(42)},
		{name: "integer from int32", typ: fixture.ColumnInteger, raw: int32(42), expected: int64(42)},
		{name: "integer from whole float", typ: fixture.ColumnInteger, raw: float64(42), expected: int64(42)},
		{name: "integer from json number", typ: fixture.ColumnInteger, raw: json.Number("42"), expected: int64(42)},
		{name: "integer from bytes", typ: fixture.ColumnInteger, raw: []byte("42"), expected: int64(42)},
		{name: "float from float32", typ: fixture.ColumnFloat, raw: float32(0.5), expected: 0.5},
		{name: "float from int64", typ: fixture.ColumnFloat, raw: int64(2), expected: 2.0},
		{name: "float from json number", typ: fixture.ColumnFloat, raw: json.Number("2.5"), expected: 2.5},
		{name: "boolean from bool", typ: fixture.ColumnBoolean, raw: true, expected: true},
		{name: "boolean from sqlite integer", typ: fixture.ColumnBoolean, raw: int64(0), expected: false},
		{name: "boolean from string", typ: fixture.ColumnBoolean, raw: "true", expected: true},
		{name: "binary from bytes", typ: fixture.ColumnBinary, raw: []byte{1, 2, 3}, expected: []byte{1, 2, 3}},
		{name: "binary from base64", typ: fixture.ColumnBinary, raw: "AQID", expected: []byte{1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			value, err := tc.typ.Normalize(tc.raw)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func Test_ColumnType_Normalize_Decimal(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected string
	}{
		{name: "from decimal", raw: decimal.RequireFromString("1.50"), expected: "1.5"},
		{name: "from string", raw: "19.99", expected: "19.99"},
		{name: "from bytes", raw: []byte("19.99"), expected: "19.99"},
		{name: "from int64", raw: int64(7), expected: "7"},
		{name: "from float64", raw: 2.25, expected: "2.25"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			value, err := fixture.ColumnDecimal.Normalize(tc.raw)

			// assert
			require.NoError(t, err)
			require.IsType(t, decimal.Decimal{}, value)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(value.(decimal.Decimal)))
		})
	}
}

func Test_ColumnType_Normalize_Mismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  fixture.ColumnType
		raw  any
	}{
		{name: "guid from garbage", typ: fixture.ColumnGUID, raw: "not-a-guid"},
		{name: "integer from fraction", typ: fixture.ColumnInteger, raw: 1.5},
		{name: "integer from word", typ: fixture.ColumnInteger, raw: "many"},
		{name: "boolean from word", typ: fixture.ColumnBoolean, raw: "maybe"},
		{name: "datetime from integer", typ: fixture.ColumnDateTime, raw: int64(1)},
		{name: "datetime from garbage", typ: fixture.ColumnDateTime, raw: "yesterday"},
		{name: "text from integer", typ: fixture.ColumnText, raw: 42},
		{name: "binary from invalid base64", typ: fixture.ColumnBinary, raw: "!!"},
		{name: "decimal from bool", typ: fixture.ColumnDecimal, raw: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.typ.Normalize(tc.raw)

			// assert
			assert.ErrorIs(t, err, fixture.ErrValueTypeMismatch)
		})
	}
}

func Test_ColumnType_Valid(t *testing.T) {
	for _, typ := range fixture.ColumnTypes() {
		assert.True(t, typ.Valid(), string(typ))
	}

	assert.False(t, fixture.ColumnType("money").Valid())
	assert.False(t, fixture.ColumnType("").Valid())
}
