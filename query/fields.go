package query

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldType tells the parser how to coerce literals and the compiler how to compare values.
type FieldType int

const (
	Text FieldType = iota
	GUID
	Integer
	Float
	Decimal
	DateTime
	Boolean
	Enum
)

// String returns the lower-case name of the field type.
func (t FieldType) String() string {
	switch t {
	case Text:
		return "text"
	case GUID:
		return "guid"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Decimal:
		return "decimal"
	case DateTime:
		return "datetime"
	case Boolean:
		return "boolean"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// Supports reports whether the operator is valid for the field type.
func (t FieldType) Supports(op Operator) bool {
	switch {
	case op.IsTextMatch():
		return t == Text
	case op.IsOrdering():
		return t == Text || t == Integer || t == Float || t == Decimal || t == DateTime
	default:
		return op == Equals || op == NotEquals || op == In
	}
}

// Field describes one queryable property of a record type T.
type Field[T any] struct {
	name       string
	column     string
	fieldType  FieldType
	accessor   func(T) any
	enumValues []string
	searchable bool
	unsortable bool
}

// TextField registers a string property.
func TextField[T any](name string, get func(T) string) Field[T] {
	return newField(name, Text, get)
}

// GUIDField registers a uuid.UUID property.
func GUIDField[T any](name string, get func(T) uuid.UUID) Field[T] {
	return newField(name, GUID, get)
}

// IntegerField registers an int64 property.
func IntegerField[T any](name string, get func(T) int64) Field[T] {
	return newField(name, Integer, get)
}

// FloatField registers a float64 property.
func FloatField[T any](name string, get func(T) float64) Field[T] {
	return newField(name, Float, get)
}

// DecimalField registers a decimal.Decimal property.
func DecimalField[T any](name string, get func(T) decimal.Decimal) Field[T] {
	return newField(name, Decimal, get)
}

// DateTimeField registers a time.Time property.
func DateTimeField[T any](name string, get func(T) time.Time) Field[T] {
	return newField(name, DateTime, get)
}

// BooleanField registers a bool property.
func BooleanField[T any](name string, get func(T) bool) Field[T] {
	return newField(name, Boolean, get)
}

// EnumField registers a string property restricted to a fixed set of values.
// Literals are matched case-insensitively and coerced to the spelling given here.
func EnumField[T any](name string, get func(T) string, allowed ...string) Field[T] {
	f := newField(name, Enum, get)
	f.enumValues = append([]string(nil), allowed...)

	return f
}

func newField[T any, V any](name string, fieldType FieldType, get func(T) V) Field[T] {
	f := Field[T]{
		name:      strings.TrimSpace(name),
		fieldType: fieldType,
	}

	if get != nil {
		f.accessor = func(record T) any { return get(record) }
	}

	return f
}

// WithColumn sets the storage column name, which defaults to the field name.
func (f Field[T]) WithColumn(column string) Field[T] {
	f.column = strings.TrimSpace(column)

	return f
}

// Searchable includes a text field in quick search.
func (f Field[T]) Searchable() Field[T] {
	f.searchable = true

	return f
}

// Unsortable excludes the field from sortBy.
func (f Field[T]) Unsortable() Field[T] {
	f.unsortable = true

	return f
}

func (f Field[T]) Name() string {
	return f.name
}

// Column returns the storage column name.
func (f Field[T]) Column() string {
	if f.column == "" {
		return f.name
	}

	return f.column
}

func (f Field[T]) Type() FieldType {
	return f.fieldType
}

// EnumValues returns a copy of the allowed values of an enum field.
func (f Field[T]) EnumValues() []string {
	return append([]string(nil), f.enumValues...)
}

func (f Field[T]) IsSearchable() bool {
	return f.searchable && f.fieldType == Text
}

func (f Field[T]) IsSortable() bool {
	return !f.unsortable
}

// Value reads the field's typed value from a record.
func (f Field[T]) Value(record T) any {
	return f.accessor(record)
}

// Coerce converts a literal into the field's typed value.
func (f Field[T]) Coerce(literal string) (any, error) {
	return CoerceValue(f.fieldType, literal, f.enumValues...)
}

// Fields is the accessor table of a record type, built once at registration time.
type Fields[T any] struct {
	ordered []Field[T]
	byName  map[string]int
}

// NewFields validates and indexes field descriptors. Names are unique, case-insensitively.
func NewFields[T any](fields ...Field[T]) (Fields[T], error) {
	table := Fields[T]{
		ordered: make([]Field[T], 0, len(fields)),
		byName:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.name == "" {
			return Fields[T]{}, ErrEmptyFieldName
		}

		if f.accessor == nil {
			return Fields[T]{}, fieldError(ErrNilFieldAccessor, f.name)
		}

		if f.fieldType == Enum && len(f.enumValues) == 0 {
			return Fields[T]{}, fieldError(ErrEnumFieldWithoutValues, f.name)
		}

		key := strings.ToLower(f.name)
		if _, exists := table.byName[key]; exists {
			return Fields[T]{}, fieldError(ErrDuplicateField, f.name)
		}

		table.byName[key] = len(table.ordered)
		table.ordered = append(table.ordered, f)
	}

	return table, nil
}

// MustNewFields is like NewFields but panics on invalid registrations.
// It is meant for package-level field tables.
func MustNewFields[T any](fields ...Field[T]) Fields[T] {
	table, err := NewFields(fields...)
	if err != nil {
		panic(err)
	}

	return table
}

// Lookup finds a field by name, case-insensitively.
func (fs Fields[T]) Lookup(name string) (Field[T], bool) {
	idx, ok := fs.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Field[T]{}, false
	}

	return fs.ordered[idx], true
}

// All returns the fields in registration order.
func (fs Fields[T]) All() []Field[T] {
	return append([]Field[T](nil), fs.ordered...)
}

// SearchableFields returns the names of the searchable text fields in registration order.
func (fs Fields[T]) SearchableFields() []string {
	names := make([]string, 0)

	for _, f := range fs.ordered {
		if f.IsSearchable() {
			names = append(names, f.name)
		}
	}

	return names
}

func (fs Fields[T]) Len() int {
	return len(fs.ordered)
}
