package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfcheck/analyzer"
	"pdfcheck/corpus"
)

func analyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one file and report structural findings",
		Long:  "analyze scans a single file and prints every finding. The exit code is 0 when the file is structurally sound and 1 otherwise, so the command doubles as an oracle for another pdfcheck instance.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := analyzer.NewStructural(analyzer.Config{Logger: newLogger()})
			an := a.Analyze(cmd.Context(), args[0])

			if an.Outcome == corpus.OutcomeProcessFailure {
				return fmt.Errorf("%s: %s", args[0], an.Message)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(findingsView(args[0], an)); err != nil {
					return err
				}
			} else {
				printFindings(cmd, args[0], an)
			}
			if an.Outcome != corpus.OutcomeSuccess {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit findings as JSON")
	return cmd
}

type findingView struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Object   int    `json:"object,omitempty"`
	Detail   string `json:"detail"`
}

type analysisView struct {
	File     string        `json:"file"`
	Outcome  string        `json:"outcome"`
	Message  string        `json:"message,omitempty"`
	Findings []findingView `json:"findings"`
}

func findingsView(file string, an corpus.Analysis) analysisView {
	v := analysisView{
		File:     file,
		Outcome:  an.Outcome.String(),
		Message:  an.Message,
		Findings: make([]findingView, 0, len(an.Findings)),
	}
	for _, f := range an.Findings {
		v.Findings = append(v.Findings, findingView{
			Kind:     f.Kind.String(),
			Severity: f.Severity.String(),
			Object:   f.Object,
			Detail:   f.Detail,
		})
	}
	return v
}

func printFindings(cmd *cobra.Command, file string, an corpus.Analysis) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", file, an.Outcome)
	if an.Message != "" {
		fmt.Fprintf(out, "  %s\n", an.Message)
	}
	for _, f := range an.Findings {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.Kind, f.Detail)
	}
}
