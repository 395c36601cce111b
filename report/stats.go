// Package report aggregates per-file results into counters, error-kind
// histograms, and a capped sample of compatibility issues, and renders the
// final summary. Counters stay integers so that folding is exactly additive;
// percentages exist only at render time.
package report

// Issue is one sampled compatibility finding. The sample is capped so the
// report stays bounded regardless of corpus size.
type Issue struct {
	File   string `json:"file"`
	Issue  string `json:"issue"`
	Detail string `json:"detail,omitempty"`
}

// DefaultMaxIssues caps the compatibility-issue sample.
const DefaultMaxIssues = 100

// Stats is the aggregate state folded across a corpus run. It round-trips
// through the checkpoint store, so every field is serializable and folding
// never depends on anything outside the struct.
type Stats struct {
	TotalProcessed    int            `json:"total_processed"`
	StructuralSuccess int            `json:"structural_success"`
	StructuralFailed  int            `json:"structural_failed"`
	Timeouts          int            `json:"timeouts"`
	ProcessFailures   int            `json:"process_failures"`
	ErrorTypes        map[string]int `json:"error_types"`

	// Oracle counters stay zero when no oracle participates.
	OracleSuccess    int            `json:"oracle_success"`
	OracleFailed     int            `json:"oracle_failed"`
	OracleErrorTypes map[string]int `json:"oracle_error_types"`

	BothSuccess    int `json:"both_success"`
	StructuralOnly int `json:"structural_only"`
	OracleOnly     int `json:"oracle_only"`
	BothFailed     int `json:"both_failed"`

	CompatibilityIssues []Issue `json:"compatibility_issues"`

	// MaxIssues caps the sample; zero means DefaultMaxIssues.
	MaxIssues int `json:"max_issues,omitempty"`
}

func NewStats() Stats {
	return Stats{
		ErrorTypes:       map[string]int{},
		OracleErrorTypes: map[string]int{},
	}
}

// EnsureMaps repairs nil maps after deserialization of an older record.
func (s *Stats) EnsureMaps() {
	if s.ErrorTypes == nil {
		s.ErrorTypes = map[string]int{}
	}
	if s.OracleErrorTypes == nil {
		s.OracleErrorTypes = map[string]int{}
	}
}

// Record is the fold input for one file: the tagged outcome flattened into
// the report layer's vocabulary, with kinds already named at the point of
// detection.
type Record struct {
	File           string
	Success        bool
	Timeout        bool
	ProcessFailure bool
	Kind           string // error kind name when not successful
	Oracle         *OracleRecord
}

type OracleRecord struct {
	Success bool
	Kind    string
	Message string
}

// Fold adds one record. Folding is additive and order-independent with
// respect to every counter, which is what makes interrupted-and-resumed runs
// land on identical totals.
func (s *Stats) Fold(r Record) {
	s.EnsureMaps()
	s.TotalProcessed++
	if r.Success {
		s.StructuralSuccess++
	} else {
		s.StructuralFailed++
		if r.Timeout {
			s.Timeouts++
		}
		if r.ProcessFailure {
			s.ProcessFailures++
		}
		if r.Kind != "" {
			s.ErrorTypes[r.Kind]++
		}
	}

	if r.Oracle == nil {
		if !r.Success {
			s.addIssue(Issue{File: r.File, Issue: "structural analysis failed", Detail: r.Kind})
		}
		return
	}

	if r.Oracle.Success {
		s.OracleSuccess++
	} else {
		s.OracleFailed++
		if r.Oracle.Kind != "" {
			s.OracleErrorTypes[r.Oracle.Kind]++
		}
	}
	switch {
	case r.Success && r.Oracle.Success:
		s.BothSuccess++
	case r.Success && !r.Oracle.Success:
		s.StructuralOnly++
		s.addIssue(Issue{File: r.File, Issue: "passes structural analysis but fails oracle", Detail: r.Oracle.Message})
	case !r.Success && r.Oracle.Success:
		s.OracleOnly++
		s.addIssue(Issue{File: r.File, Issue: "passes oracle but fails structural analysis", Detail: r.Kind})
	default:
		s.BothFailed++
	}
}

func (s *Stats) addIssue(i Issue) {
	cap := s.MaxIssues
	if cap <= 0 {
		cap = DefaultMaxIssues
	}
	if len(s.CompatibilityIssues) < cap {
		s.CompatibilityIssues = append(s.CompatibilityIssues, i)
	}
}

// OracleParticipated reports whether any oracle verdict was folded.
func (s *Stats) OracleParticipated() bool {
	return s.OracleSuccess+s.OracleFailed > 0
}
