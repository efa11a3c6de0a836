// Package fixture describes database schemas as named tables of typed columns and holds
// snapshots of their contents.
//
// A Snapshot is an in-memory, typed copy of every table of a Schema. It is written to and
// read from portable JSON files and compared with Diff. Schemas are defined in code with
// NewSchema or loaded from JSON or YAML definition files with LoadSchemaFile.
//
// Row values always carry the canonical Go type of their column:
//   - text: string
//   - guid: uuid.UUID
//   - datetime: time.Time in UTC
//   - integer: int64
//   - float: float64
//   - decimal: decimal.Decimal
//   - boolean: bool
//   - binary: []byte
//
// nil stands for NULL in every column.
package fixture
