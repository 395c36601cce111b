package scanner

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var (
	reSubsection = regexp.MustCompile(`^(\d+)\s+(\d+)$`)
	// 20-byte fixed-width entry: 10-digit offset, 5-digit generation, n/f flag.
	reXrefEntry = regexp.MustCompile(`^(\d{10})[ \t]+(\d{5})[ \t]+([nf])$`)
)

// scanXref parses the last classic cross-reference section: the literal
// keyword `xref`, one or more `<start> <count>` subsection headers, and up to
// count fixed-width entries per subsection. A shortfall of entries leaves the
// section parsed with Present < Count; a garbled header leaves it unparsed.
func (s *scanState) scanXref() {
	idx := lastStandaloneXref(s.data)
	if idx < 0 {
		s.res.XrefStatus = SectionStatus{Parsed: false, Note: "xref keyword not found"}
		return
	}

	pos := idx + len("xref")
	sawSubsection := false
	for {
		mark := pos
		line, next, ok := nextLine(s.data, pos)
		if !ok {
			break
		}
		if len(line) == 0 {
			pos = next
			continue
		}
		m := reSubsection.FindSubmatch(line)
		if m == nil {
			if !sawSubsection {
				s.res.XrefStatus = SectionStatus{Parsed: false, Note: "malformed subsection header"}
				s.anomaly(int64(mark), 0, "xref", fmt.Sprintf("expected subsection header, got %q", line))
				return
			}
			break // trailer or other content follows the table
		}
		start, _ := strconv.Atoi(string(m[1]))
		count, _ := strconv.Atoi(string(m[2]))
		sawSubsection = true
		pos = next

		sub := XrefSubsection{Start: start, Count: count}
		for i := 0; i < count; i++ {
			entryMark := pos
			line, next, ok = nextLine(s.data, pos)
			if !ok {
				break
			}
			em := reXrefEntry.FindSubmatch(line)
			if em == nil {
				s.anomaly(int64(entryMark), 0, "xref", fmt.Sprintf("malformed entry %d of %d", i+1, count))
				break
			}
			off, _ := strconv.ParseInt(string(em[1]), 10, 64)
			gen, _ := strconv.Atoi(string(em[2]))
			s.res.Xref.Entries = append(s.res.Xref.Entries, XrefEntry{
				Object: start + i,
				Offset: off,
				Gen:    gen,
				InUse:  em[3][0] == 'n',
			})
			sub.Present++
			pos = next
		}
		s.res.Xref.Subsections = append(s.res.Xref.Subsections, sub)
		if sub.Present < sub.Count {
			break // truncated table; nothing usable follows
		}
	}
	s.res.XrefStatus.Parsed = true
}

// lastStandaloneXref finds the last `xref` keyword that is not the tail of
// `startxref`.
func lastStandaloneXref(data []byte) int {
	pos := len(data)
	for {
		i := bytes.LastIndex(data[:pos], []byte("xref"))
		if i < 0 {
			return -1
		}
		if i >= 5 && bytes.Equal(data[i-5:i], []byte("start")) {
			pos = i
			continue
		}
		if !keywordAt(data, i, len("xref")) {
			pos = i
			continue
		}
		return i
	}
}
