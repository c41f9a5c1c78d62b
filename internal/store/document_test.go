// SPDX-License-Identifier: Apache-2.0

package store_test

import (
	"testing"

	"github.com/lexforge/lexforge/internal/schema"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility_SameVersionOK(t *testing.T) {
	err := store.CheckCompatibility(store.CurrentSchemaVersion)
	require.NoError(t, err)
}

func TestCheckCompatibility_NewerMinorTolerated(t *testing.T) {
	err := store.CheckCompatibility("1.99.0")
	assert.NoError(t, err)
}

func TestCheckCompatibility_MajorMismatchErrors(t *testing.T) {
	err := store.CheckCompatibility("2.0.0")
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, schema.CodeSchemaInvalid, oopsErr.Code())
}

func TestCheckCompatibility_MalformedVersionErrors(t *testing.T) {
	err := store.CheckCompatibility("not-a-version")
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, schema.CodeSchemaInvalid, oopsErr.Code())
}

func TestNewDocument_StampsCurrentVersion(t *testing.T) {
	doc := store.NewDocument(nil, nil)
	assert.Equal(t, store.CurrentSchemaVersion, doc.SchemaVersion)
}
