// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexforge/lexforge/internal/config"
	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/logging"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/samber/oops"
)

// resolveConfig loads layered configuration and applies the root
// command's simple --dictionary/--warnings/--log-format flags as a
// final override, since those flag names don't map onto the dotted
// koanf keys posflag expects.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return nil, err
	}
	if dictionaryPath != "" {
		cfg.Dictionary.Path = dictionaryPath
	}
	if warningsPath != "" {
		cfg.Warnings.Path = warningsPath
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.SetDefault("lexforge", version, cfg.Log.Format)
	return cfg, nil
}

// loadDictionary reads the dictionary file at path into a lexicon and
// pattern store. A missing file is not an error: per the on-first-run
// contract, an empty store is written to path and returned. Any other
// read failure (permission denied, disk error, ...) is propagated to
// the caller rather than masked as a fresh dictionary.
func loadDictionary(path string) (*lexicon.Lexicon, *store.PatternStore, error) {
	lex := lexicon.New()
	patterns := store.NewPatternStore()

	doc, err := store.Load(path)
	if err != nil {
		oopsErr, ok := oops.AsOops(err)
		if ok && oopsErr.Code() == store.CodeNotFound {
			slog.Debug("no existing dictionary file, writing a fresh empty dictionary", "path", path)
			if saveErr := saveDictionary(context.Background(), path, lex, patterns); saveErr != nil {
				return nil, nil, saveErr
			}
			return lex, patterns, nil
		}
		return nil, nil, err
	}

	lex.Load(doc.Words)
	patterns.Load(doc.Patterns)
	return lex, patterns, nil
}

// saveDictionary snapshots lex and patterns and saves them to path.
func saveDictionary(ctx context.Context, path string, lex *lexicon.Lexicon, patterns *store.PatternStore) error {
	return store.Save(ctx, path, store.DocumentFrom(lex, patterns))
}

// mustAddr validates a host:port style address is non-empty when required.
func mustAddr(addr, flagName string) error {
	if addr == "" {
		return fmt.Errorf("--%s is required", flagName)
	}
	return nil
}
