// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect and edit the word and pattern dictionary",
	}

	cmd.AddCommand(newDictAddWordCmd())
	cmd.AddCommand(newDictAddPatternCmd())
	cmd.AddCommand(newDictListCmd())
	cmd.AddCommand(newDictValidateCmd())
	cmd.AddCommand(newDictExportCmd())

	return cmd
}

func newDictAddWordCmd() *cobra.Command {
	var lemma, pos, forms string

	cmd := &cobra.Command{
		Use:   "add-word",
		Short: "Add or update a lexicon entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			tag, err := lexicon.ParsePOS(pos)
			if err != nil {
				return err
			}

			lex, patterns, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}

			var formList []string
			if forms != "" {
				formList = strings.Split(forms, ",")
				for i := range formList {
					formList[i] = strings.TrimSpace(formList[i])
				}
			}
			lex.AddEntry(lexicon.Entry{Lemma: lemma, POS: tag, Forms: formList})

			if err := saveDictionary(cmd.Context(), cfg.Dictionary.Path, lex, patterns); err != nil {
				return err
			}
			cmd.Printf("added %s (%s)\n", lemma, tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&lemma, "lemma", "", "canonical lemma (required)")
	cmd.Flags().StringVar(&pos, "pos", "", "part of speech, e.g. Noun, Verb (required)")
	cmd.Flags().StringVar(&forms, "forms", "", "comma-separated inflected forms")
	_ = cmd.MarkFlagRequired("lemma")
	_ = cmd.MarkFlagRequired("pos")

	return cmd
}

func newDictAddPatternCmd() *cobra.Command {
	var name, source, template string
	var priority int
	var enabled bool

	cmd := &cobra.Command{
		Use:   "add-pattern",
		Short: "Add a named pattern to the dictionary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			lex, patterns, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}

			patterns.Add(store.PatternEntry{
				Name:     name,
				Source:   source,
				Template: template,
				Priority: priority,
				Enabled:  enabled,
			})

			if err := saveDictionary(cmd.Context(), cfg.Dictionary.Path, lex, patterns); err != nil {
				return err
			}
			cmd.Printf("added pattern %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pattern name (required)")
	cmd.Flags().StringVar(&source, "source", "", "pattern source (required)")
	cmd.Flags().StringVar(&template, "template", "", "instantiation template (required)")
	cmd.Flags().IntVar(&priority, "priority", 0, "match priority, higher runs first")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "whether the pattern participates in dispatch")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func newDictListCmd() *cobra.Command {
	var globPattern string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dictionary words, optionally filtered by a lemma glob",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			lex, _, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}

			var matcher glob.Glob
			if globPattern != "" {
				matcher, err = glob.Compile(globPattern)
				if err != nil {
					return oops.Code("MALFORMED_QUERY").Wrapf(err, "compiling glob %q", globPattern)
				}
			}

			for _, e := range lex.Entries() {
				if matcher != nil && !matcher.Match(e.Lemma) {
					continue
				}
				cmd.Printf("%s\t%s\t%s\n", e.Lemma, e.POS, strings.Join(e.Forms, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&globPattern, "glob", "", "glob pattern to filter lemmas")
	return cmd
}

func newDictValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the dictionary file loads (JSON files are also checked against its JSON Schema)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if _, err := store.Load(cfg.Dictionary.Path); err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	}
}

func newDictExportCmd() *cobra.Command {
	var format, outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dictionary in the given encoding (bin or json)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			lex, patterns, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}
			doc := store.DocumentFrom(lex, patterns)

			var encodePath string
			switch format {
			case "bin":
				encodePath = "export.bin"
			case "json", "":
				encodePath = "export.json"
			default:
				return oops.Code("CONFIG_INVALID").Errorf("--format must be 'bin' or 'json', got %q", format)
			}
			if outputPath != "" {
				encodePath = outputPath
			}

			data, err := store.Encode(encodePath, doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(encodePath, data, 0o644); err != nil {
				return oops.Code(store.CodePersistenceIO).Wrapf(err, "writing export file %q", encodePath)
			}
			cmd.Printf("exported to %s\n", encodePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "encoding: bin or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path (defaults to export.<format>)")
	return cmd
}
