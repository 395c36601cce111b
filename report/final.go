package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Category is one analyzer dimension of the final report.
type Category struct {
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Combined compares the structural analyzer with the oracle per file.
type Combined struct {
	BothSuccessful int `json:"both_successful"`
	StructuralOnly int `json:"structural_only"`
	OracleOnly     int `json:"oracle_only"`
	BothFailed     int `json:"both_failed"`
}

// Final is the report emitted at the end of every run. Even a run in which
// every file failed structurally still produces one.
type Final struct {
	AnalysisDate        time.Time      `json:"analysis_date"`
	RunID               string         `json:"run_id"`
	DurationSeconds     float64        `json:"duration_seconds"`
	TotalFiles          int            `json:"total_files"`
	Structural          Category       `json:"structural"`
	Oracle              *Category      `json:"oracle,omitempty"`
	Combined            *Combined      `json:"combined,omitempty"`
	ErrorTypes          map[string]int `json:"error_types"`
	OracleErrorTypes    map[string]int `json:"oracle_error_types,omitempty"`
	CompatibilityIssues []Issue        `json:"compatibility_issues"`
}

// Build renders stats into the final report.
func Build(stats *Stats, elapsed time.Duration) *Final {
	f := &Final{
		AnalysisDate:        time.Now(),
		RunID:               uuid.NewString(),
		DurationSeconds:     elapsed.Seconds(),
		TotalFiles:          stats.TotalProcessed,
		Structural:          category(stats.StructuralSuccess, stats.StructuralFailed),
		ErrorTypes:          stats.ErrorTypes,
		CompatibilityIssues: stats.CompatibilityIssues,
	}
	if f.ErrorTypes == nil {
		f.ErrorTypes = map[string]int{}
	}
	if f.CompatibilityIssues == nil {
		f.CompatibilityIssues = []Issue{}
	}
	if stats.OracleParticipated() {
		oc := category(stats.OracleSuccess, stats.OracleFailed)
		f.Oracle = &oc
		f.OracleErrorTypes = stats.OracleErrorTypes
		f.Combined = &Combined{
			BothSuccessful: stats.BothSuccess,
			StructuralOnly: stats.StructuralOnly,
			OracleOnly:     stats.OracleOnly,
			BothFailed:     stats.BothFailed,
		}
	}
	return f
}

func category(success, failed int) Category {
	c := Category{Successful: success, Failed: failed}
	if total := success + failed; total > 0 {
		c.SuccessRate = float64(success) / float64(total) * 100
	}
	return c
}

func (f *Final) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// WriteSummary renders the human-readable closing summary.
func (f *Final) WriteSummary(w io.Writer) error {
	fmt.Fprintf(w, "Structural analysis report %s\n", f.RunID)
	fmt.Fprintf(w, "  date:       %s\n", f.AnalysisDate.Format(time.RFC3339))
	fmt.Fprintf(w, "  files:      %d in %.2fs\n", f.TotalFiles, f.DurationSeconds)
	fmt.Fprintf(w, "  structural: %d ok, %d failed (%.1f%%)\n",
		f.Structural.Successful, f.Structural.Failed, f.Structural.SuccessRate)
	if f.Oracle != nil {
		fmt.Fprintf(w, "  oracle:     %d ok, %d failed (%.1f%%)\n",
			f.Oracle.Successful, f.Oracle.Failed, f.Oracle.SuccessRate)
		fmt.Fprintf(w, "  combined:   both ok %d, structural only %d, oracle only %d, both failed %d\n",
			f.Combined.BothSuccessful, f.Combined.StructuralOnly, f.Combined.OracleOnly, f.Combined.BothFailed)
	}
	if len(f.ErrorTypes) > 0 {
		fmt.Fprintf(w, "  error types:\n")
		for _, k := range sortedKeys(f.ErrorTypes) {
			fmt.Fprintf(w, "    %-28s %d\n", k, f.ErrorTypes[k])
		}
	}
	if len(f.CompatibilityIssues) > 0 {
		fmt.Fprintf(w, "  sampled issues: %d\n", len(f.CompatibilityIssues))
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
