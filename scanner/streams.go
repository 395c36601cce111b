package scanner

import (
	"bytes"
	"regexp"
	"strconv"
)

var (
	streamKW    = []byte("stream")
	endstreamKW = []byte("endstream")
	// Direct length only. An indirect /Length N G R gives no hint and the
	// literal endstream search is used instead.
	reLength = regexp.MustCompile(`/Length\s+(\d+)(\s|>>|$)`)
)

// scanStreams locates stream payload boundaries. A declared /Length in the
// enclosing dictionary is preferred over the literal endstream keyword, which
// can false-match inside binary payloads.
func (s *scanState) scanStreams() {
	s.res.StreamsStatus.Parsed = true
	pos := 0
	for {
		i := indexStreamKeyword(s.data, pos)
		if i < 0 {
			return
		}
		dataStart := i + len(streamKW)
		// stream keyword is followed by an EOL before the data
		if dataStart < len(s.data) && s.data[dataStart] == '\r' {
			dataStart++
		}
		if dataStart < len(s.data) && s.data[dataStart] == '\n' {
			dataStart++
		}

		hint := lengthHintBefore(s.data, i)
		var end int
		if hint >= 0 {
			end = dataStart + int(hint)
			if end > len(s.data) {
				s.res.StreamsStatus.Parsed = false
				s.res.StreamsStatus.Note = "stream ends before declared length"
				s.anomaly(int64(i), 0, "streams", "stream ends before declared length")
				end = len(s.data)
			}
			s.res.Streams = append(s.res.Streams, StreamSpan{Start: int64(dataStart), End: int64(end), Length: hint})
			rel := bytes.Index(s.data[end:], endstreamKW)
			if rel < 0 {
				return
			}
			pos = end + rel + len(endstreamKW)
			continue
		}

		searchEnd := len(s.data)
		if int64(searchEnd-dataStart) > s.cfg.MaxStreamScan {
			searchEnd = dataStart + int(s.cfg.MaxStreamScan)
		}
		rel := bytes.Index(s.data[dataStart:searchEnd], endstreamKW)
		if rel < 0 {
			note := "endstream not found"
			if searchEnd < len(s.data) {
				note = "endstream not found within scan limit"
			}
			s.res.StreamsStatus.Parsed = false
			s.res.StreamsStatus.Note = note
			s.anomaly(int64(i), 0, "streams", note)
			s.res.Streams = append(s.res.Streams, StreamSpan{Start: int64(dataStart), End: int64(searchEnd), Length: -1})
			return
		}
		end = dataStart + rel
		// trim the EOL that precedes the marker
		if end > dataStart && s.data[end-1] == '\n' {
			end--
		}
		if end > dataStart && s.data[end-1] == '\r' {
			end--
		}
		s.res.Streams = append(s.res.Streams, StreamSpan{Start: int64(dataStart), End: int64(end), Length: -1})
		pos = dataStart + rel + len(endstreamKW)
	}
}

// indexStreamKeyword finds the next standalone `stream` keyword at or after
// pos. The delimiter check also rejects the tail of `endstream`.
func indexStreamKeyword(data []byte, pos int) int {
	for {
		rel := bytes.Index(data[pos:], streamKW)
		if rel < 0 {
			return -1
		}
		i := pos + rel
		if keywordAt(data, i, len(streamKW)) {
			return i
		}
		pos = i + 1
	}
}

// lengthHintBefore looks backward from the stream keyword for the nearest
// declared /Length in the enclosing dictionary.
func lengthHintBefore(data []byte, i int) int64 {
	const window = 1024
	lo := i - window
	if lo < 0 {
		lo = 0
	}
	ms := reLength.FindAllSubmatch(data[lo:i], -1)
	if len(ms) == 0 {
		return -1
	}
	n, err := strconv.ParseInt(string(ms[len(ms)-1][1]), 10, 64)
	if err != nil {
		return -1
	}
	return n
}
