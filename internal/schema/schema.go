// SPDX-License-Identifier: Apache-2.0

// Package schema wraps JSON Schema generation and validation for any Go
// type, shared by every component that persists a schema-checked file
// (currently internal/store's dictionary document).
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
)

// CodeSchemaInvalid is the oops code for a failed generate/compile/validate step.
const CodeSchemaInvalid = "SCHEMA_INVALID"

// Generate reflects v into a JSON Schema document, stamping the given
// $id/title/description, and returns it pretty-printed with a trailing
// newline.
func Generate(v any, id, title, description string) ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)
	s.Title = title
	s.Description = description

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "marshaling generated schema")
	}
	return append(data, '\n'), nil
}

// Compile parses schemaJSON and compiles it into a validator.
func Compile(schemaJSON []byte) (*jschema.Schema, error) {
	var schemaData any
	if err := json.Unmarshal(schemaJSON, &schemaData); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "parsing schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "adding schema resource")
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.Code(CodeSchemaInvalid).Wrapf(err, "compiling schema")
	}
	return compiled, nil
}

// Validate parses data as generic JSON and validates it against compiled.
func Validate(compiled *jschema.Schema, data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return oops.Code(CodeSchemaInvalid).Wrapf(err, "parsing document JSON")
	}
	if err := compiled.Validate(parsed); err != nil {
		return oops.Code(CodeSchemaInvalid).Wrapf(err, "document failed schema validation")
	}
	return nil
}
