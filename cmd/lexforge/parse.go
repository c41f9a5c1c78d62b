// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strings"

	"github.com/lexforge/lexforge/internal/dispatch"
	"github.com/lexforge/lexforge/internal/segment"
	"github.com/lexforge/lexforge/internal/telemetry"
	"github.com/lexforge/lexforge/internal/warnings"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Segment and dispatch sentences from a text file into fact lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return oops.Code("INPUT_IO").Wrapf(err, "reading input file %q", args[0])
			}

			lex, patterns, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}
			sink := warnings.New(nil)

			_, span := telemetry.StartSpan(cmd.Context(), "cli.parse")
			defer span.End()

			var lines []string
			for _, sentence := range segment.Split(string(text)) {
				result := dispatch.Dispatch(sentence, patterns.Enabled(), lex, sink)
				telemetry.RecordDispatch(len(result.Records) > 0)
				lines = append(lines, result.Lines...)
			}

			if err := os.WriteFile(cfg.Warnings.Path, []byte(sink.Text()), 0o644); err != nil {
				return oops.Code("PERSISTENCE_IO").Wrapf(err, "writing warnings log %q", cfg.Warnings.Path)
			}

			output := strings.Join(lines, "\n")
			if outputPath == "" {
				cmd.Println(output)
				return nil
			}
			if err := os.WriteFile(outputPath, []byte(output+"\n"), 0o644); err != nil {
				return oops.Code("PERSISTENCE_IO").Wrapf(err, "writing parse output %q", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write parse output here instead of stdout")
	return cmd
}
