// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

// version information, set at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flags available to every subcommand.
var (
	configFile     string
	dictionaryPath string
	warningsPath   string
	logFormat      string
)

// NewRootCmd creates the root command for the lexforge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexforge",
		Short: "lexforge turns natural-language sentences into Prolog-style facts",
		Long: `lexforge matches typed tokens against a lexicon and pattern library
to translate sentences into ground predicate facts, then resolves
Horn-clause-like queries against the resulting fact store.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path")
	cmd.PersistentFlags().StringVar(&dictionaryPath, "dictionary", "", "dictionary file path (overrides config)")
	cmd.PersistentFlags().StringVar(&warningsPath, "warnings", "", "warning log file path (overrides config)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format, json or text (overrides config)")

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newDictCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
