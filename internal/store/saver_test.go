// SPDX-License-Identifier: Apache-2.0

package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexforge/lexforge/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSaver_RequestSaveWritesAfterDebounce(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "dictionary.json")
	doc := sampleDocument()
	saver := store.NewSaver(path, 20*time.Millisecond, func() store.Document { return doc })

	saver.Start(context.Background())
	saver.RequestSave()

	require.Eventually(t, func() bool {
		_, err := store.Load(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	saver.Stop()

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSaver_BurstOfRequestsCoalesceIntoOneWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "dictionary.json")
	var generation int
	saver := store.NewSaver(path, 30*time.Millisecond, func() store.Document {
		generation++
		doc := sampleDocument()
		doc.Words = nil
		return doc
	})

	saver.Start(context.Background())
	for i := 0; i < 5; i++ {
		saver.RequestSave()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		_, err := store.Load(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	saver.Stop()

	assert.Equal(t, 1, generation)
}

func TestSaver_StopWithoutPendingRequestExitsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "dictionary.json")
	doc := sampleDocument()
	saver := store.NewSaver(path, time.Hour, func() store.Document { return doc })

	saver.Start(context.Background())
	saver.Stop()
}

func TestSaver_StopCancelsPendingDebounce(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "dictionary.json")
	doc := sampleDocument()
	saver := store.NewSaver(path, time.Hour, func() store.Document { return doc })

	saver.Start(context.Background())
	saver.RequestSave()
	saver.Stop()

	_, err := store.Load(path)
	assert.Error(t, err)
}
