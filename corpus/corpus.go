// Package corpus runs an analyzer across many files concurrently and folds
// the per-file results into resumable aggregate statistics. Workers
// communicate only by returning immutable results; all aggregate state is
// mutated by the single goroutine draining completions.
package corpus

import (
	"context"
	"time"

	"pdfcheck/report"
	"pdfcheck/structure"
)

// FileRef identifies one corpus member. ID is the stable identifier recorded
// in checkpoints; Path is where the bytes live.
type FileRef struct {
	ID   string
	Path string
}

func NewFileRef(path string) FileRef {
	return FileRef{ID: path, Path: path}
}

// Outcome is the tagged per-file verdict. A result carries exactly one.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeStructuralError
	OutcomeTimeout
	OutcomeProcessFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeStructuralError:
		return "structural_error"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "process_failure"
	}
}

// Analysis is what an Analyzer reports for one file.
type Analysis struct {
	Outcome  Outcome
	Kind     structure.ErrorKind // dominant kind when Outcome is not success
	Findings []structure.Finding
	Message  string
	Oracle   *OracleOutcome // nil when no oracle participated
}

// OracleOutcome is an external analyzer's verdict on the same file, carried
// alongside the primary analysis for cross-validation.
type OracleOutcome struct {
	Outcome Outcome
	Kind    structure.ErrorKind
	Message string
}

// Analyzer is the capability the runner exercises per file. It is satisfied
// interchangeably by the in-process scanner+validator pair or by an external
// oracle; the runner is agnostic to which. Implementations must be safe for
// concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, path string) Analysis
}

// Compare pairs the primary analyzer with an optional oracle. A nil Oracle
// yields behavior identical to the primary alone, minus the oracle's
// contribution to the report.
type Compare struct {
	Primary Analyzer
	Oracle  Analyzer
}

func (c Compare) Analyze(ctx context.Context, path string) Analysis {
	an := c.Primary.Analyze(ctx, path)
	if c.Oracle == nil {
		return an
	}
	oan := c.Oracle.Analyze(ctx, path)
	an.Oracle = &OracleOutcome{Outcome: oan.Outcome, Kind: oan.Kind, Message: oan.Message}
	return an
}

// Result is one completed job.
type Result struct {
	File FileRef
	Analysis
	Elapsed time.Duration
}

// Record converts the result into the report layer's fold input.
func (r Result) Record() report.Record {
	rec := report.Record{
		File:           r.File.ID,
		Success:        r.Outcome == OutcomeSuccess,
		Timeout:        r.Outcome == OutcomeTimeout,
		ProcessFailure: r.Outcome == OutcomeProcessFailure,
	}
	if !rec.Success {
		rec.Kind = r.Kind.String()
	}
	if r.Oracle != nil {
		orec := &report.OracleRecord{
			Success: r.Oracle.Outcome == OutcomeSuccess,
			Message: r.Oracle.Message,
		}
		if !orec.Success {
			orec.Kind = r.Oracle.Kind.String()
		}
		rec.Oracle = orec
	}
	return rec
}
