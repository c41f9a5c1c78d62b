// SPDX-License-Identifier: Apache-2.0

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_JSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.json")
	doc := sampleDocument()

	require.NoError(t, store.Save(context.Background(), path, doc))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSaveLoad_BinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.bin")
	doc := sampleDocument()

	require.NoError(t, store.Save(context.Background(), path, doc))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSave_DoesNotCorruptPreviousFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dictionary.json")

	original := sampleDocument()
	require.NoError(t, store.Save(context.Background(), path, original))

	// Point a second save at a path inside a directory that does not
	// exist, so its temp-file step fails; the file saved above must be
	// left byte-for-byte unchanged.
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	unwritableDir := filepath.Join(dir, "missing", "nested")
	badPath := filepath.Join(unwritableDir, "dictionary.json")
	err = store.Save(context.Background(), badPath, sampleDocument())
	assert.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoad_MissingFileErrorsWithNotFoundCode(t *testing.T) {
	_, err := store.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, store.CodeNotFound, oopsErr.Code())
}

func TestLoad_UnreadableFileErrorsWithPersistenceIOCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dictionary.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	if os.Geteuid() == 0 {
		t.Skip("permission bits have no effect when running as root")
	}

	_, err := store.Load(path)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, store.CodePersistenceIO, oopsErr.Code())
}

func TestDocumentFrom_SnapshotsLexiconAndPatterns(t *testing.T) {
	lex := lexicon.New()
	lex.AddEntry(lexicon.Entry{Lemma: "bear", POS: lexicon.Noun})
	patterns := store.NewPatternStore()
	patterns.Add(store.PatternEntry{Name: "is-a", Source: "X is a Y", Template: "isa(X, Y)", Priority: 1, Enabled: true})

	doc := store.DocumentFrom(lex, patterns)
	assert.Equal(t, store.CurrentSchemaVersion, doc.SchemaVersion)
	assert.Len(t, doc.Words, 1)
	assert.Len(t, doc.Patterns, 1)
}
