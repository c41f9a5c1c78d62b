// SPDX-License-Identifier: Apache-2.0

package store_test

import (
	"testing"

	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/schema"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() store.Document {
	return store.NewDocument(
		[]lexicon.Entry{{Lemma: "bear", POS: lexicon.Noun, Forms: []string{"bears"}}},
		[]store.PatternEntry{{Name: "is-a", Source: "X is a Y", Template: "isa(X, Y)", Priority: 10, Enabled: true}},
	)
}

func TestEncodeDecode_JSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := store.Encode("dictionary.json", doc)
	require.NoError(t, err)

	got, err := store.Decode("dictionary.json", data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncodeDecode_BinaryRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := store.Encode("dictionary.bin", doc)
	require.NoError(t, err)

	got, err := store.Decode("dictionary.bin", data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncodeDecode_ExtensionDispatchIsCaseInsensitive(t *testing.T) {
	doc := sampleDocument()

	data, err := store.Encode("dictionary.BIN", doc)
	require.NoError(t, err)

	got, err := store.Decode("dictionary.BIN", data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDecode_JSONRejectsSchemaViolation(t *testing.T) {
	_, err := store.Decode("dictionary.json", []byte(`{"words": "not-an-array"}`))
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, schema.CodeSchemaInvalid, oopsErr.Code())
}

func TestDecode_JSONRejectsMalformedJSON(t *testing.T) {
	_, err := store.Decode("dictionary.json", []byte(`not json at all`))
	require.Error(t, err)
}

func TestDecode_JSONRejectsIncompatibleSchemaVersion(t *testing.T) {
	doc := sampleDocument()
	doc.SchemaVersion = "2.0.0"
	data, err := store.Encode("dictionary.json", doc)
	require.NoError(t, err)

	_, err = store.Decode("dictionary.json", data)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, schema.CodeSchemaInvalid, oopsErr.Code())
}
