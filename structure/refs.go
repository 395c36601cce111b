package structure

import (
	"regexp"
	"strconv"
)

// Indirect-reference extraction over raw object bodies. Bodies are treated as
// flat byte runs, matching the scanner's pattern-level view of the file; a
// full object model is out of scope.

var (
	reRef         = regexp.MustCompile(`(\d{1,10})\s+(\d{1,5})\s+R\b`)
	reTypeCatalog = regexp.MustCompile(`/Type\s*/Catalog\b`)
	reWidget      = regexp.MustCompile(`/Subtype\s*/Widget\b`)
	reFieldType   = regexp.MustCompile(`/FT\s*/`)

	singleRefKeys = map[string]*regexp.Regexp{}
	arrayRefKeys  = map[string]*regexp.Regexp{}

	// Downward and forward hierarchy keys. Parent and Prev are deliberate
	// back-pointers in well-formed files and must not count as cycle edges,
	// or every page tree would report one.
	hierarchySingle = []string{"First", "Last", "Next"}
	hierarchyArray  = []string{"Kids"}
)

func init() {
	for _, k := range append(append([]string{}, hierarchySingle...), "Parent", "AcroForm", "Outlines") {
		singleRefKeys[k] = regexp.MustCompile(`/` + k + `\s+(\d{1,10})\s+(\d{1,5})\s+R\b`)
	}
	for _, k := range hierarchyArray {
		arrayRefKeys[k] = regexp.MustCompile(`/` + k + `\s*\[([^\]]*)\]`)
	}
}

// singleRef extracts `/Key N G R` from body.
func singleRef(body []byte, key string) (int, bool) {
	re := singleRefKeys[key]
	m := re.FindSubmatch(body)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// arrayRefs extracts every reference inside `/Key [ ... ]`.
func arrayRefs(body []byte, key string) []int {
	re := arrayRefKeys[key]
	m := re.FindSubmatch(body)
	if m == nil {
		return nil
	}
	var out []int
	for _, r := range reRef.FindAllSubmatch(m[1], -1) {
		n, err := strconv.Atoi(string(r[1]))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// hierarchicalEdges returns the outgoing reference edges of one object body
// that participate in hierarchical chains.
func hierarchicalEdges(body []byte) []int {
	var out []int
	for _, k := range hierarchyArray {
		out = append(out, arrayRefs(body, k)...)
	}
	for _, k := range hierarchySingle {
		if n, ok := singleRef(body, k); ok {
			out = append(out, n)
		}
	}
	return out
}
