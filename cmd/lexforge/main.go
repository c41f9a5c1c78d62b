// Package main is the entry point for the lexforge CLI.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("lexforge failed", "error", err)
		os.Exit(1)
	}
}
