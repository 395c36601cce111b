package recovery

// LenientStrategy records every anomaly and keeps scanning. This is the
// default: a corpus of real-world documents is full of malformed sections and
// the point of the analyzer is to diagnose them, not to stop at the first one.
type LenientStrategy struct {
	Anomalies []Anomaly
}

func NewLenientStrategy() *LenientStrategy {
	return &LenientStrategy{}
}

func (s *LenientStrategy) OnAnomaly(a Anomaly) Action {
	s.Anomalies = append(s.Anomalies, a)
	return ActionRecord
}

// StrictStrategy abandons a section on its first anomaly. Useful when only
// the well-formed prefix of a document is of interest.
type StrictStrategy struct{}

func NewStrictStrategy() *StrictStrategy {
	return &StrictStrategy{}
}

func (s *StrictStrategy) OnAnomaly(Anomaly) Action {
	return ActionStop
}
