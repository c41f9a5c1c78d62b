// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print lexforge's version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("lexforge %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
