package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pdfcheck/observability"
)

var verbose bool

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pdfcheck",
		Short:         "Structural integrity analysis for PDF files",
		Long:          "pdfcheck scans PDF files at the byte level, validates cross-reference and object structure, and runs resumable batch analysis over whole corpora.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(analyzeCmd(), batchCmd())
	return cmd
}

func newLogger() observability.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return observability.NewSlog(slog.New(h))
}
