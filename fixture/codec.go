package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

// snapshotJSON keeps numbers as json.Number so integers and floats survive decoding unchanged.
var snapshotJSON = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

type snapshotFile struct {
	Schema string      `json:"schema"`
	Tables []tableFile `json:"tables"`
}

type tableFile struct {
	Name    string       `json:"name"`
	Columns []columnFile `json:"columns"`
	Rows    [][]any      `json:"rows"`
}

type columnFile struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// EncodeSnapshot writes s as indented JSON. The schema travels with the rows.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	file := snapshotFile{Schema: s.schema.name, Tables: make([]tableFile, 0, len(s.schema.tables))}

	for _, t := range s.schema.tables {
		tf := tableFile{Name: t.Name, Columns: make([]columnFile, 0, len(t.Columns)), Rows: make([][]any, 0, len(s.rows[t.Name]))}

		for _, c := range t.Columns {
			tf.Columns = append(tf.Columns, columnFile{Name: c.Name, Type: c.Type})
		}

		for _, row := range s.rows[t.Name] {
			encoded := make([]any, len(row))
			for i, value := range row {
				encoded[i] = t.Columns[i].Type.encode(value)
			}

			tf.Rows = append(tf.Rows, encoded)
		}

		file.Tables = append(file.Tables, tf)
	}

	data, err := snapshotJSON.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Join(ErrEncodingSnapshotFailed, err)
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return errors.Join(ErrEncodingSnapshotFailed, err)
	}

	return nil
}

// DecodeSnapshot reads a Snapshot written by EncodeSnapshot, validating every value against its column type.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var file snapshotFile

	if err := snapshotJSON.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Join(ErrDecodingSnapshotFailed, err)
	}

	tables := make([]Table, 0, len(file.Tables))
	for _, tf := range file.Tables {
		columns := make([]Column, 0, len(tf.Columns))
		for _, cf := range tf.Columns {
			columns = append(columns, Column{Name: cf.Name, Type: cf.Type})
		}

		tables = append(tables, Table{Name: tf.Name, Columns: columns})
	}

	schema, err := NewSchema(file.Schema, tables...)
	if err != nil {
		return nil, errors.Join(ErrDecodingSnapshotFailed, err)
	}

	snapshot := NewSnapshot(schema)

	for _, tf := range file.Tables {
		for i, row := range tf.Rows {
			if err = snapshot.AddRow(tf.Name, row...); err != nil {
				return nil, errors.Join(ErrDecodingSnapshotFailed, fmt.Errorf("row %d: %w", i, err))
			}
		}
	}

	return snapshot, nil
}

// WriteSnapshotFile writes s to path through a temp file in the same directory and a rename,
// so an existing file is either fully replaced or left untouched.
func WriteSnapshotFile(path string, s *Snapshot) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if err = EncodeSnapshot(tmpFile, s); err != nil {
		_ = tmpFile.Close()
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	if err = tmpFile.Close(); err != nil {
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Join(ErrWritingSnapshotFailed, err)
	}

	return nil
}

// ReadSnapshotFile reads a snapshot file written by WriteSnapshotFile.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrReadingSnapshotFailed, err)
	}
	defer file.Close() //nolint:errcheck

	snapshot, err := DecodeSnapshot(file)
	if err != nil {
		return nil, errors.Join(ErrReadingSnapshotFailed, fmt.Errorf("%s: %w", path, err))
	}

	return snapshot, nil
}
