package structure

// ErrorKind is the closed taxonomy of structural defects. Kinds are produced
// at the point of detection; a category is never re-derived from message
// text. The analyzer-level kinds (timeout, process failure, checkpoint
// corruption) share the enumeration so every counter in a report keys off
// the same set.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedSection
	KindMissingObject
	KindOutOfOrder
	KindXrefTruncated
	KindCircularReference
	KindDanglingReference
	KindUnresolvedCatalogReference
	KindDuplicateObject
	KindAnalyzerTimeout
	KindAnalyzerProcessFailure
	KindCheckpointCorrupt
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                    "Unknown",
	KindMalformedSection:           "MalformedSection",
	KindMissingObject:              "MissingObject",
	KindOutOfOrder:                 "OutOfOrder",
	KindXrefTruncated:              "XrefTruncated",
	KindCircularReference:          "CircularReference",
	KindDanglingReference:          "DanglingReference",
	KindUnresolvedCatalogReference: "UnresolvedCatalogReference",
	KindDuplicateObject:            "DuplicateObject",
	KindAnalyzerTimeout:            "AnalyzerTimeout",
	KindAnalyzerProcessFailure:     "AnalyzerProcessFailure",
	KindCheckpointCorrupt:          "CheckpointCorrupt",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// severityFor fixes the severity per kind. OutOfOrder is informational and
// never fails a file on its own; a duplicate object number is an anomaly but
// the later definition is usable.
func severityFor(k ErrorKind) Severity {
	switch k {
	case KindOutOfOrder:
		return SeverityInfo
	case KindDuplicateObject:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Finding is one structural defect located during validation.
type Finding struct {
	Kind     ErrorKind
	Severity Severity
	Object   int   // object number context, 0 for file-level findings
	Ref      int   // referenced object, for dangling references
	Path     []int // reference path for cycles, encounter order for OutOfOrder
	Detail   string
}

// Failed reports whether findings contain at least one error-severity entry,
// which is what makes a file structurally unsuccessful.
func Failed(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// DominantKind returns the first error-severity kind, for categorizing a
// failed file in aggregate histograms.
func DominantKind(findings []Finding) ErrorKind {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return f.Kind
		}
	}
	return KindUnknown
}
