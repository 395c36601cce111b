// Package oracle adapts an external analyzer executable to the Analyzer
// capability. The contract is narrow: the oracle is handed one file path,
// exit code zero means success, and stderr carries the failure message. The
// executable is otherwise opaque.
package oracle

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"pdfcheck/corpus"
	"pdfcheck/observability"
	"pdfcheck/structure"
)

type Config struct {
	// Path is the oracle executable; Args are fixed arguments placed before
	// the file path.
	Path   string
	Args   []string
	Logger observability.Logger
}

type Command struct {
	path   string
	args   []string
	logger observability.Logger
}

func New(cfg Config) *Command {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Command{path: cfg.Path, args: cfg.Args, logger: logger}
}

// Analyze invokes the oracle on one file. The context deadline kills the
// process; an expired deadline is reported as a timeout, any other non-zero
// exit as a process failure.
func (c *Command) Analyze(ctx context.Context, file string) corpus.Analysis {
	args := make([]string, 0, len(c.args)+1)
	args = append(args, c.args...)
	args = append(args, file)

	cmd := exec.CommandContext(ctx, c.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return corpus.Analysis{
			Outcome: corpus.OutcomeSuccess,
			Message: firstLine(stdout.String()),
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("oracle killed on timeout", observability.String("file", file))
		return corpus.Analysis{
			Outcome: corpus.OutcomeTimeout,
			Kind:    structure.KindAnalyzerTimeout,
			Message: "oracle terminated by deadline",
		}
	}

	msg := firstLine(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return corpus.Analysis{
		Outcome: corpus.OutcomeProcessFailure,
		Kind:    structure.KindAnalyzerProcessFailure,
		Message: msg,
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return s
}
