package fixture

import "errors"

var (
	ErrEmptySchemaName        = errors.New("schema name must not be empty")
	ErrEmptyTableName         = errors.New("table name must not be empty")
	ErrDuplicateTable         = errors.New("table declared more than once")
	ErrTableWithoutColumns    = errors.New("table must declare at least one column")
	ErrEmptyColumnName        = errors.New("column name must not be empty")
	ErrDuplicateColumn        = errors.New("column declared more than once")
	ErrUnknownColumnType      = errors.New("unknown column type")
	ErrUnknownTable           = errors.New("table is not part of the schema")
	ErrRowArityMismatch       = errors.New("row does not match the number of columns")
	ErrValueTypeMismatch      = errors.New("value does not match the column type")
	ErrDecodingSnapshotFailed = errors.New("decoding snapshot failed")
	ErrEncodingSnapshotFailed = errors.New("encoding snapshot failed")
	ErrWritingSnapshotFailed  = errors.New("writing snapshot file failed")
	ErrReadingSnapshotFailed  = errors.New("reading snapshot file failed")
	ErrInvalidSchemaFile      = errors.New("invalid schema definition file")
	ErrUnsupportedSchemaFile  = errors.New("unsupported schema definition file extension")
)
