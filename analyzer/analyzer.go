// Package analyzer provides the in-process Analyzer capability: one scan
// pass plus structural validation per file.
package analyzer

import (
	"context"
	"fmt"

	"pdfcheck/corpus"
	"pdfcheck/observability"
	"pdfcheck/scanner"
	"pdfcheck/structure"
)

type Config struct {
	// Scanner.Recovery must stay nil (per-scan lenient strategy) or be a
	// stateless strategy; Structural is used concurrently by the runner.
	Scanner   scanner.Config
	Validator structure.Config
	Logger    observability.Logger
}

// Structural analyzes files with the scanner+validator pair. It satisfies
// corpus.Analyzer and never fails for malformed input; malformed bytes are
// exactly what it exists to diagnose.
type Structural struct {
	scan      scanner.Config
	validator *structure.Validator
	logger    observability.Logger
}

func NewStructural(cfg Config) *Structural {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Structural{
		scan:      cfg.Scanner,
		validator: structure.NewValidator(cfg.Validator),
		logger:    logger,
	}
}

// Analyze scans and validates one file. Cancellation is enforced by the
// runner discarding late results; the pass itself runs to completion.
func (a *Structural) Analyze(ctx context.Context, path string) corpus.Analysis {
	res, err := scanner.ScanFile(path, a.scan)
	if err != nil {
		// Unreadable input, not malformed input.
		return corpus.Analysis{
			Outcome: corpus.OutcomeProcessFailure,
			Kind:    structure.KindAnalyzerProcessFailure,
			Message: err.Error(),
		}
	}

	findings := a.validator.Validate(res)
	if structure.Failed(findings) {
		kind := structure.DominantKind(findings)
		a.logger.Debug("structural failure",
			observability.String("file", path),
			observability.String("kind", kind.String()),
			observability.Int("findings", len(findings)))
		return corpus.Analysis{
			Outcome:  corpus.OutcomeStructuralError,
			Kind:     kind,
			Findings: findings,
			Message:  firstErrorDetail(findings),
		}
	}
	return corpus.Analysis{
		Outcome:  corpus.OutcomeSuccess,
		Findings: findings,
		Message:  fmt.Sprintf("%d objects, version %q", len(res.Objects), res.Version),
	}
}

func firstErrorDetail(findings []structure.Finding) string {
	for _, f := range findings {
		if f.Severity == structure.SeverityError {
			return f.Detail
		}
	}
	return ""
}
