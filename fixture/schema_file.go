package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema_definition.json
var schemaDefinitionJSONSchema string

var schemaDefinitionLoader = gojsonschema.NewStringLoader(schemaDefinitionJSONSchema)

type schemaDocument struct {
	Name   string          `json:"name" yaml:"name"`
	Tables []tableDocument `json:"tables" yaml:"tables"`
}

type tableDocument struct {
	Name    string           `json:"name" yaml:"name"`
	Columns []columnDocument `json:"columns" yaml:"columns"`
}

type columnDocument struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// LoadSchemaFile reads a schema definition from a .json, .yaml or .yml file.
// The document is validated against the schema definition JSON Schema before decoding.
//
// Example (YAML):
//
//	name: app
//	tables:
//	  - name: public.roles
//	    columns:
//	      - {name: id, type: guid}
//	      - {name: name, type: text}
func LoadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, errors.Join(ErrInvalidSchemaFile, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseSchemaJSON(data)
	case ".yaml", ".yml":
		return ParseSchemaYAML(data)
	default:
		return Schema{}, fmt.Errorf("%w: %q", ErrUnsupportedSchemaFile, filepath.Ext(path))
	}
}

// ParseSchemaJSON validates and decodes a JSON schema definition.
func ParseSchemaJSON(data []byte) (Schema, error) {
	if err := validateSchemaDocument(gojsonschema.NewBytesLoader(data)); err != nil {
		return Schema{}, err
	}

	var doc schemaDocument
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &doc); err != nil {
		return Schema{}, errors.Join(ErrInvalidSchemaFile, err)
	}

	return doc.toSchema()
}

// ParseSchemaYAML validates and decodes a YAML schema definition.
func ParseSchemaYAML(data []byte) (Schema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Schema{}, errors.Join(ErrInvalidSchemaFile, err)
	}

	if err := validateSchemaDocument(gojsonschema.NewGoLoader(raw)); err != nil {
		return Schema{}, err
	}

	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Schema{}, errors.Join(ErrInvalidSchemaFile, err)
	}

	return doc.toSchema()
}

func validateSchemaDocument(document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaDefinitionLoader, document)
	if err != nil {
		return errors.Join(ErrInvalidSchemaFile, err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidSchemaFile, strings.Join(messages, "; "))
}

func (doc schemaDocument) toSchema() (Schema, error) {
	tables := make([]Table, 0, len(doc.Tables))

	for _, td := range doc.Tables {
		columns := make([]Column, 0, len(td.Columns))
		for _, cd := range td.Columns {
			columns = append(columns, Column{Name: cd.Name, Type: ColumnType(cd.Type)})
		}

		tables = append(tables, Table{Name: td.Name, Columns: columns})
	}

	schema, err := NewSchema(doc.Name, tables...)
	if err != nil {
		return Schema{}, errors.Join(ErrInvalidSchemaFile, err)
	}

	return schema, nil
}
