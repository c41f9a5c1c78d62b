// SPDX-License-Identifier: Apache-2.0

// Package warnings is the append-only, de-duplicated diagnostic log fed
// by the dispatcher, including the unknown words the matcher reports
// back to it.
package warnings

import (
	"fmt"
	"log/slog"
	"sync"
)

// Category is a closed-ish set of warning kinds; new categories may be
// added by callers, this is a label not an enum.
type Category string

// Categories named by the dispatch and matching components.
const (
	CategoryUnparsedSentence Category = "UNPARSED_SENTENCE"
	CategoryUnknownWord      Category = "unknown_word"
)

// Line is one emitted diagnostic: a category plus its free-form payload.
type Line struct {
	Category Category
	Payload  string
}

// String renders the line the way it is written to the on-disk log.
func (l Line) String() string {
	return fmt.Sprintf("[%s] %s", l.Category, l.Payload)
}

// Sink is an append-only log of (category, payload) pairs, de-duplicated
// for the lifetime of the process. Every newly emitted (non-duplicate)
// line is also forwarded to slog at Warn level.
type Sink struct {
	mu     sync.Mutex
	seen   map[Line]struct{}
	lines  []Line
	logger *slog.Logger
}

// New returns an empty sink. If logger is nil, slog.Default() is used.
func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		seen:   make(map[Line]struct{}),
		logger: logger,
	}
}

// Emit appends (category, payload) if it has not been seen before in
// this sink's lifetime, forwarding it to slog.Warn on first occurrence.
// Returns true iff the line was newly recorded.
func (s *Sink) Emit(category Category, payload string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := Line{Category: category, Payload: payload}
	if _, dup := s.seen[line]; dup {
		return false
	}
	s.seen[line] = struct{}{}
	s.lines = append(s.lines, line)

	s.logger.Warn("diagnostic", "category", string(category), "payload", payload)
	return true
}

// Lines returns a defensive copy of every unique line emitted so far, in
// emission order.
func (s *Sink) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Text renders the sink's contents as the append-only log file body: one
// line per unique pair, in emission order.
func (s *Sink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := ""
	for _, l := range s.lines {
		out += l.String() + "\n"
	}
	return out
}
