package scanner

import (
	"bytes"
	"regexp"
	"strconv"
)

var (
	reSize = regexp.MustCompile(`/Size\s+(\d+)`)
	reRoot = regexp.MustCompile(`/Root\s+(\d+)\s+(\d+)\s+R\b`)
	reInfo = regexp.MustCompile(`/Info\s+(\d+)\s+(\d+)\s+R\b`)
	rePrev = regexp.MustCompile(`/Prev\s+(\d+)`)
)

// scanTrailer parses the last trailer dictionary as a flat set of
// key/indirect-reference pairs, from the trailer keyword through startxref
// or end of file.
func (s *scanState) scanTrailer() {
	idx := bytes.LastIndex(s.data, []byte("trailer"))
	if idx < 0 || !keywordAt(s.data, idx, len("trailer")) {
		s.res.TrailerStatus = SectionStatus{Parsed: false, Note: "trailer keyword not found"}
		s.anomaly(int64(len(s.data)), 0, "trailer", "trailer keyword not found")
		return
	}

	section := s.data[idx+len("trailer"):]
	if sx := bytes.Index(section, []byte("startxref")); sx >= 0 {
		section = section[:sx]
	}
	if !bytes.Contains(section, []byte("<<")) {
		s.res.TrailerStatus = SectionStatus{Parsed: false, Note: "trailer dictionary not found"}
		s.anomaly(int64(idx), 0, "trailer", "no dictionary after trailer keyword")
		return
	}

	t := &s.res.Trailer
	if m := reSize.FindSubmatch(section); m != nil {
		t.Size, _ = strconv.Atoi(string(m[1]))
		t.HasSize = true
	}
	if m := reRoot.FindSubmatch(section); m != nil {
		t.Root.Num, _ = strconv.Atoi(string(m[1]))
		t.Root.Gen, _ = strconv.Atoi(string(m[2]))
		t.HasRoot = true
	}
	if m := reInfo.FindSubmatch(section); m != nil {
		t.Info.Num, _ = strconv.Atoi(string(m[1]))
		t.Info.Gen, _ = strconv.Atoi(string(m[2]))
		t.HasInfo = true
	}
	if m := rePrev.FindSubmatch(section); m != nil {
		t.Prev, _ = strconv.ParseInt(string(m[1]), 10, 64)
		t.HasPrev = true
	}
	s.res.TrailerStatus.Parsed = true
}
