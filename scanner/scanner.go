// Package scanner extracts the structural sections of a PDF file from a raw
// byte buffer: object headers, the classic cross-reference table, the trailer
// dictionary, and stream boundaries. Extraction is pattern-based and
// deliberately tolerant: every section carries its own parsed flag and a scan
// never fails on malformed input. Only unreadable input (an I/O failure) is
// reported as an error, by ScanFile.
package scanner

import (
	"fmt"
	"os"

	"pdfcheck/recovery"
)

// ObjectID identifies an indirect object.
type ObjectID struct {
	Num int
	Gen int
}

// ObjectRecord is one `N G obj … endobj` unit located in the buffer.
// Body covers the bytes between the obj and endobj keywords.
type ObjectRecord struct {
	Num   int
	Gen   int
	Start int64
	End   int64
	Body  []byte
}

// XrefSubsection is one `<start> <count>` header inside a classic xref
// section. Present counts the fixed-width entries physically found, which may
// fall short of Count in a truncated file.
type XrefSubsection struct {
	Start   int
	Count   int
	Present int
}

type XrefEntry struct {
	Object int
	Offset int64
	Gen    int
	InUse  bool
}

type XrefSection struct {
	Subsections []XrefSubsection
	Entries     []XrefEntry
}

// Trailer is the last trailer dictionary, parsed as a flat set of
// key/indirect-reference pairs.
type Trailer struct {
	Size    int
	HasSize bool
	Root    ObjectID
	HasRoot bool
	Info    ObjectID
	HasInfo bool
	Prev    int64
	HasPrev bool
}

// SectionStatus reports whether one structural section was extracted.
type SectionStatus struct {
	Parsed bool
	Note   string
}

// StreamSpan is the byte range of one stream payload. Length is the declared
// /Length hint from the enclosing object body, or -1 when absent.
type StreamSpan struct {
	Start  int64
	End    int64
	Length int64
}

// Result is the best-effort extraction of all four structural sections from
// one buffer. It is owned by a single scan pass and carries no references
// into shared state.
type Result struct {
	Version string

	// Objects holds the surviving records: a duplicate object number
	// overwrites the earlier record in place. Order is the full encounter
	// sequence of complete object headers, duplicates included.
	Objects    []ObjectRecord
	Order      []int
	Duplicates []int

	Xref    XrefSection
	Trailer Trailer
	Streams []StreamSpan

	ObjectsStatus SectionStatus
	XrefStatus    SectionStatus
	TrailerStatus SectionStatus
	StreamsStatus SectionStatus

	Anomalies []recovery.Anomaly
}

// Config bounds a scan pass. Zero values select the defaults.
type Config struct {
	// MaxObjects caps the number of extracted object records.
	MaxObjects int
	// MaxStreamScan bounds the forward search for a literal endstream
	// keyword when no length hint is available.
	MaxStreamScan int64
	// Recovery decides whether a malformed construct stops the current
	// section. Defaults to a fresh LenientStrategy.
	Recovery recovery.Strategy
}

const (
	defaultMaxObjects    = 1 << 20
	defaultMaxStreamScan = int64(64 << 20)
)

type scanState struct {
	data []byte
	cfg  Config
	res  *Result
}

// Scan extracts all four sections from data. It never fails: malformed input
// degrades to unparsed section flags and recorded anomalies.
func Scan(data []byte, cfg Config) *Result {
	if cfg.MaxObjects <= 0 {
		cfg.MaxObjects = defaultMaxObjects
	}
	if cfg.MaxStreamScan <= 0 {
		cfg.MaxStreamScan = defaultMaxStreamScan
	}
	if cfg.Recovery == nil {
		cfg.Recovery = recovery.NewLenientStrategy()
	}
	s := &scanState{data: data, cfg: cfg, res: &Result{}}
	s.scanHeader()
	s.scanObjects()
	s.scanXref()
	s.scanTrailer()
	s.scanStreams()
	return s.res
}

// ScanFile reads path and scans it. The returned error is always an I/O
// failure, never a verdict on the bytes.
func ScanFile(path string, cfg Config) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Scan(data, cfg), nil
}

// anomaly records a malformed construct and reports whether the strategy
// wants the current section abandoned.
func (s *scanState) anomaly(off int64, obj int, section, detail string) bool {
	a := recovery.Anomaly{ByteOffset: off, Object: obj, Section: section, Detail: detail}
	s.res.Anomalies = append(s.res.Anomalies, a)
	return s.cfg.Recovery.OnAnomaly(a) == recovery.ActionStop
}

// whitespace per PDF spec (null, tab, LF, FF, CR, space)
func isWhitespace(c byte) bool {
	return c == 0x00 || c == 0x09 || c == 0x0A || c == 0x0C || c == 0x0D || c == 0x20
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isWhitespace(c)
	}
}

// keywordAt reports whether the keyword starting at i stands alone: preceded
// by a delimiter or buffer start, followed by a delimiter or buffer end.
func keywordAt(data []byte, i, n int) bool {
	if i > 0 && !isDelimiter(data[i-1]) {
		return false
	}
	if i+n < len(data) && !isDelimiter(data[i+n]) {
		return false
	}
	return true
}

// nextLine returns the next line starting at pos with surrounding whitespace
// trimmed, and the position just past its terminator. ok is false at the end
// of the buffer.
func nextLine(data []byte, pos int) (line []byte, next int, ok bool) {
	if pos >= len(data) {
		return nil, pos, false
	}
	end := pos
	for end < len(data) && data[end] != '\n' && data[end] != '\r' {
		end++
	}
	line = trimSpace(data[pos:end])
	next = end
	if next < len(data) && data[next] == '\r' {
		next++
		if next < len(data) && data[next] == '\n' {
			next++
		}
	} else if next < len(data) && data[next] == '\n' {
		next++
	}
	return line, next, true
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isWhitespace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isWhitespace(b[end-1]) {
		end--
	}
	return b[start:end]
}
