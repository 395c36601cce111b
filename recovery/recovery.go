package recovery

// Strategy decides how the scanner proceeds when it encounters a malformed
// construct. The scanner itself never fails on malformed input; the strategy
// only controls whether scanning of the current section continues.
type Strategy interface {
	OnAnomaly(a Anomaly) Action
}

// Anomaly describes one malformed construct found during a scan pass.
type Anomaly struct {
	ByteOffset int64
	Object     int    // object number when known, 0 otherwise
	Section    string // "header", "objects", "xref", "trailer", "streams"
	Detail     string
}

type Action int

const (
	// ActionRecord keeps the anomaly and continues scanning the section.
	ActionRecord Action = iota
	// ActionStop abandons the rest of the current section. The section is
	// flagged unparsed; other sections are unaffected.
	ActionStop
)
