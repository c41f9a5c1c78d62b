// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Load reads and decodes the dictionary document at path. A missing
// file is reported under CodeNotFound so callers can tell "start
// fresh" apart from a real I/O failure (CodePersistenceIO), which
// must not be silently treated as an empty dictionary.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, oops.Code(CodeNotFound).Wrapf(err, "dictionary file %q does not exist", path)
		}
		return Document{}, oops.Code(CodePersistenceIO).Wrapf(err, "reading dictionary file %q", path)
	}
	return Decode(path, data)
}

// Save encodes doc and writes it to path, retrying transient I/O
// failures with exponential backoff. The write goes to a temporary
// file in the same directory and is renamed into place only on
// success, so a failed attempt (even after exhausting retries) never
// leaves path truncated or corrupted; the previous file, if any,
// is untouched.
func Save(ctx context.Context, path string, doc Document) error {
	data, err := Encode(path, doc)
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if writeErr := writeAtomic(path, data); writeErr != nil {
			slog.Debug("dictionary save failed, will retry", "path", path, "attempt", attempt, "error", writeErr)
			return retry.RetryableError(writeErr)
		}
		return nil
	})
	if err != nil {
		return oops.Code(CodePersistenceIO).Wrapf(err, "saving dictionary file %q after %d attempts", path, attempt)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it
// into place, so a crash or failed write mid-way never corrupts the
// previously saved file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// DocumentFrom snapshots lex and patterns into a Document ready to save.
func DocumentFrom(lex *lexicon.Lexicon, patterns *PatternStore) Document {
	return NewDocument(lex.Entries(), patterns.All())
}
