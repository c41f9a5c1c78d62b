// SPDX-License-Identifier: Apache-2.0

package store

import (
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/schema"
	"github.com/samber/oops"
)

// CodePersistenceIO is the oops code for a save/load I/O failure.
const CodePersistenceIO = "PERSISTENCE_IO"

// CodeNotFound is the oops code for Load being asked to read a
// dictionary file that does not exist, as distinct from any other
// read failure (permission denied, disk error, ...), which keeps
// CodePersistenceIO.
const CodeNotFound = "PERSISTENCE_NOT_FOUND"

// CurrentSchemaVersion is the schema_version this build writes and
// expects to read. A file's major version must match; a file whose
// minor version is newer than ours is accepted (forward-compatible
// additive fields) but logged, since unrecognized fields are dropped
// on the round trip through Document.
const CurrentSchemaVersion = "1.0.0"

// Document is the on-disk dictionary: every word entry and pattern
// entry, tagged with the schema version that produced it.
type Document struct {
	SchemaVersion string          `json:"schema_version" jsonschema:"required"`
	Words         []lexicon.Entry `json:"words"`
	Patterns      []PatternEntry  `json:"patterns"`
}

// NewDocument stamps words and patterns with CurrentSchemaVersion.
func NewDocument(words []lexicon.Entry, patterns []PatternEntry) Document {
	return Document{SchemaVersion: CurrentSchemaVersion, Words: words, Patterns: patterns}
}

// CheckCompatibility reports an error if fileVersion's major version
// differs from CurrentSchemaVersion's. A newer minor version is
// tolerated (and logged), matching the additive-fields contract.
func CheckCompatibility(fileVersion string) error {
	current, err := semver.NewVersion(CurrentSchemaVersion)
	if err != nil {
		return oops.Code(CodePersistenceIO).Wrapf(err, "parsing current schema version")
	}
	file, err := semver.NewVersion(fileVersion)
	if err != nil {
		return oops.Code(schema.CodeSchemaInvalid).Wrapf(err, "parsing document schema_version %q", fileVersion)
	}
	if file.Major() != current.Major() {
		return oops.Code(schema.CodeSchemaInvalid).Errorf(
			"schema_version %q is incompatible with this build's %q (major version mismatch)",
			fileVersion, CurrentSchemaVersion)
	}
	if file.Minor() > current.Minor() {
		slog.Warn("dictionary file schema_version is newer than this build supports",
			"file_version", fileVersion, "build_version", CurrentSchemaVersion)
	}
	return nil
}
