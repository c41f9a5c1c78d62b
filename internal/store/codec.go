// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/lexforge/lexforge/internal/schema"
	"github.com/samber/oops"
)

// docSchemaState caches the compiled Document JSON Schema behind a
// sync.Once so it is compiled at most once per process.
var docSchemaState struct {
	once     sync.Once
	compiled *jschema.Schema
	err      error
}

// compiledDocumentSchema returns the cached, compiled JSON Schema for
// Document, compiling it once on first use.
func compiledDocumentSchema() (*jschema.Schema, error) {
	docSchemaState.once.Do(func() {
		generated, err := schema.Generate(&Document{},
			"https://lexforge.dev/schemas/dictionary.schema.json",
			"lexforge dictionary document",
			"Schema for a lexforge dictionary file (words + patterns)")
		if err != nil {
			docSchemaState.err = err
			return
		}
		docSchemaState.compiled, docSchemaState.err = schema.Compile(generated)
	})
	return docSchemaState.compiled, docSchemaState.err
}

// encodingFor chooses the codec by file extension: ".bin" is the
// compact gob encoding, anything else (by default ".json") is the
// schema-checked JSON encoding.
func encodingFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return "bin"
	}
	return "json"
}

// Encode renders doc in the encoding appropriate for path's extension.
func Encode(path string, doc Document) ([]byte, error) {
	if encodingFor(path) == "bin" {
		return encodeBinary(doc)
	}
	return encodeJSON(doc)
}

// Decode parses data (encoded for path's extension) into a Document,
// validating schema_version compatibility and, for the JSON form,
// structural JSON Schema conformance.
func Decode(path string, data []byte) (Document, error) {
	if encodingFor(path) == "bin" {
		return decodeBinary(data)
	}
	return decodeJSON(data)
}

func encodeJSON(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, oops.Code(CodePersistenceIO).Wrapf(err, "marshaling dictionary document")
	}
	return append(data, '\n'), nil
}

func decodeJSON(data []byte) (Document, error) {
	compiled, err := compiledDocumentSchema()
	if err != nil {
		return Document{}, err
	}
	if err := schema.Validate(compiled, data); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, oops.Code(CodePersistenceIO).Wrapf(err, "unmarshaling dictionary document")
	}
	if err := CheckCompatibility(doc.SchemaVersion); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func encodeBinary(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, oops.Code(CodePersistenceIO).Wrapf(err, "gob-encoding dictionary document")
	}
	return buf.Bytes(), nil
}

func decodeBinary(data []byte) (Document, error) {
	var doc Document
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Document{}, oops.Code(CodePersistenceIO).Wrapf(err, "gob-decoding dictionary document")
	}
	if err := CheckCompatibility(doc.SchemaVersion); err != nil {
		return Document{}, err
	}
	return doc, nil
}
