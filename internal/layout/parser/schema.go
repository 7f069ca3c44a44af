package parser

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed layout.schema.json
var layoutSchemaJSON []byte

const layoutSchemaName = "layout.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// layoutSchema compiles the embedded JSON Schema once per process.
func layoutSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(layoutSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("layout parser: decode embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(layoutSchemaName, doc); err != nil {
			schemaErr = fmt.Errorf("layout parser: register embedded schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(layoutSchemaName)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("layout parser: compile embedded schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// validateEntry checks one decoded device entry against the embedded schema.
func validateEntry(entry any) error {
	sch, err := layoutSchema()
	if err != nil {
		return err
	}
	return sch.Validate(entry)
}
