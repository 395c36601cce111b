package scanner

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

var (
	reObjHeader = regexp.MustCompile(`(\d{1,10})\s+(\d{1,5})\s+obj\b`)
	endobjKW    = []byte("endobj")
)

// scanHeader sniffs the %PDF-x.y version comment from the first line.
func (s *scanState) scanHeader() {
	n := len(s.data)
	if n > 64 {
		n = 64
	}
	line := string(s.data[:n])
	for _, sep := range []string{"\r\n", "\n", "\r"} {
		if idx := strings.Index(line, sep); idx >= 0 {
			line = line[:idx]
			break
		}
	}
	if strings.HasPrefix(line, "%PDF-") {
		s.res.Version = strings.TrimSpace(line[5:])
		return
	}
	s.anomaly(0, 0, "header", "missing %PDF header")
}

// scanObjects locates every `N G obj … endobj` unit by pattern. The match is
// heuristic: a header-shaped byte run inside a string or stream payload can
// over-match and a pathological payload can hide a real header. That
// imprecision is accepted; the validator works on whatever survives.
func (s *scanState) scanObjects() {
	s.res.ObjectsStatus.Parsed = true

	index := make(map[int]int)
	for _, m := range reObjHeader.FindAllSubmatchIndex(s.data, -1) {
		num, err1 := strconv.Atoi(string(s.data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(s.data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}

		rel := bytes.Index(s.data[m[1]:], endobjKW)
		if rel < 0 {
			// Object cut off before its endobj: everything complete up to
			// here survives, the section itself is flagged.
			s.res.ObjectsStatus.Parsed = false
			s.res.ObjectsStatus.Note = "object " + strconv.Itoa(num) + " truncated before endobj"
			s.anomaly(int64(m[0]), num, "objects", "endobj not found")
			break
		}
		bodyEnd := m[1] + rel

		rec := ObjectRecord{
			Num:   num,
			Gen:   gen,
			Start: int64(m[0]),
			End:   int64(bodyEnd + len(endobjKW)),
			Body:  s.data[m[1]:bodyEnd],
		}
		s.res.Order = append(s.res.Order, num)

		if at, dup := index[num]; dup {
			// Later definition wins; the earlier record is discarded.
			s.res.Objects[at] = rec
			s.res.Duplicates = append(s.res.Duplicates, num)
			if s.anomaly(rec.Start, num, "objects", "duplicate object number") {
				break
			}
			continue
		}
		index[num] = len(s.res.Objects)
		s.res.Objects = append(s.res.Objects, rec)

		if len(s.res.Objects) >= s.cfg.MaxObjects {
			s.res.ObjectsStatus.Note = "object limit reached"
			s.anomaly(rec.Start, num, "objects", "object limit reached")
			break
		}
	}
}
