// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strings"
	"time"

	"github.com/lexforge/lexforge/internal/facts"
	"github.com/lexforge/lexforge/internal/query"
	"github.com/lexforge/lexforge/internal/telemetry"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var factsPath string

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Resolve each line of a query file against a parse-output fact store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := resolveConfig(); err != nil {
				return err
			}
			if factsPath == "" {
				return oops.Code("MALFORMED_QUERY").Errorf("--facts is required: the parse-output file to load")
			}

			parseOutput, err := os.ReadFile(factsPath)
			if err != nil {
				return oops.Code("INPUT_IO").Wrapf(err, "reading facts file %q", factsPath)
			}
			queryText, err := os.ReadFile(args[0])
			if err != nil {
				return oops.Code("INPUT_IO").Wrapf(err, "reading query file %q", args[0])
			}

			_, span := telemetry.StartSpan(cmd.Context(), "cli.query")
			defer span.End()

			store := facts.New(string(parseOutput))
			engine := query.NewEngine(store)

			var out []string
			for _, line := range strings.Split(string(queryText), "\n") {
				start := time.Now()
				result := engine.ProcessLine(line)
				if result != "" {
					outcome := telemetry.OutcomeSuccess
					if strings.HasPrefix(result, "// Error") {
						outcome = telemetry.OutcomeError
					}
					telemetry.RecordQuery(outcome, time.Since(start))
					out = append(out, result)
				}
			}

			cmd.Println(strings.Join(out, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVar(&factsPath, "facts", "", "parse-output file to load as the fact store")
	return cmd
}
