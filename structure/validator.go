// Package structure checks a fixed set of independent structural invariants
// over one scan pass: object numbering, write order, xref completeness, root
// resolution, cycle freedom of hierarchical chains, and widget/field
// consistency. Checks never short-circuit one another; every applicable check
// runs even after one fails, to maximize diagnostic yield. The validator
// never returns an error for malformed input; diagnosing malformed input is
// its entire reason to exist.
package structure

import (
	"fmt"
	"sort"

	"pdfcheck/scanner"
)

// Check selects individual validations. The zero value of Config enables
// all of them.
type Check uint

const (
	CheckNumbering Check = 1 << iota
	CheckWriteOrder
	CheckXref
	CheckRoot
	CheckCycles
	CheckWidgets

	CheckAll = CheckNumbering | CheckWriteOrder | CheckXref | CheckRoot | CheckCycles | CheckWidgets
)

type Config struct {
	Checks Check
}

type Validator struct {
	checks Check
}

func NewValidator(cfg Config) *Validator {
	if cfg.Checks == 0 {
		cfg.Checks = CheckAll
	}
	return &Validator{checks: cfg.Checks}
}

// missing-object findings are capped so an adversarial max object number
// cannot balloon a single file's result
const maxMissingReported = 1024

// Validate runs every enabled check over res and returns the ordered
// findings.
func (v *Validator) Validate(res *scanner.Result) []Finding {
	var out []Finding
	add := func(f Finding) {
		f.Severity = severityFor(f.Kind)
		out = append(out, f)
	}

	index := make(map[int]*scanner.ObjectRecord, len(res.Objects))
	for i := range res.Objects {
		index[res.Objects[i].Num] = &res.Objects[i]
	}

	// An unparsable section contributes exactly one finding and blocks
	// nothing else.
	for _, sec := range []struct {
		name   string
		status scanner.SectionStatus
	}{
		{"objects", res.ObjectsStatus},
		{"xref", res.XrefStatus},
		{"trailer", res.TrailerStatus},
		{"streams", res.StreamsStatus},
	} {
		if !sec.status.Parsed {
			add(Finding{Kind: KindMalformedSection, Detail: sec.name + ": " + sec.status.Note})
		}
	}

	for _, num := range res.Duplicates {
		add(Finding{Kind: KindDuplicateObject, Object: num, Detail: "object number defined more than once"})
	}

	if v.checks&CheckNumbering != 0 {
		v.checkNumbering(res, index, add)
	}
	if v.checks&CheckWriteOrder != 0 {
		v.checkWriteOrder(res, add)
	}
	if v.checks&CheckXref != 0 {
		for i, sub := range res.Xref.Subsections {
			if sub.Present < sub.Count {
				add(Finding{
					Kind:   KindXrefTruncated,
					Detail: fmt.Sprintf("subsection %d declares %d entries, found %d", i, sub.Count, sub.Present),
				})
			}
		}
	}
	if v.checks&CheckRoot != 0 {
		v.checkRoot(res, index, add)
	}
	if v.checks&CheckCycles != 0 {
		v.checkCycles(res, index, add)
	}
	if v.checks&CheckWidgets != 0 {
		v.checkWidgets(res, index, add)
	}
	return out
}

func (v *Validator) checkNumbering(res *scanner.Result, index map[int]*scanner.ObjectRecord, add func(Finding)) {
	if len(res.Objects) == 0 {
		return
	}
	min, max := res.Objects[0].Num, res.Objects[0].Num
	for _, o := range res.Objects {
		if o.Num < min {
			min = o.Num
		}
		if o.Num > max {
			max = o.Num
		}
	}
	// Every indexed number lies in [min,max], so the total shortfall is
	// arithmetic. The scan below stops at the reporting cap; iterating the
	// whole range would make validation time proportional to the largest
	// object number a crafted header can claim, not to the file.
	totalMissing := (max - min + 1) - len(index)
	if totalMissing <= 0 {
		return
	}
	missing := 0
	for n := min; n <= max && missing < maxMissingReported; n++ {
		if _, ok := index[n]; ok {
			continue
		}
		missing++
		add(Finding{Kind: KindMissingObject, Object: n, Detail: fmt.Sprintf("object %d absent from range [%d,%d]", n, min, max)})
	}
	if totalMissing > maxMissingReported {
		add(Finding{Kind: KindMissingObject, Detail: fmt.Sprintf("%d further missing objects not listed", totalMissing-maxMissingReported)})
	}
}

func (v *Validator) checkWriteOrder(res *scanner.Result, add func(Finding)) {
	if sort.IntsAreSorted(res.Order) {
		return
	}
	seq := append([]int(nil), res.Order...)
	shown := seq
	suffix := ""
	if len(shown) > 10 {
		shown = shown[:10]
		suffix = "..."
	}
	add(Finding{
		Kind:   KindOutOfOrder,
		Path:   seq,
		Detail: fmt.Sprintf("objects written out of numeric order: %v%s", shown, suffix),
	})
}

func (v *Validator) checkRoot(res *scanner.Result, index map[int]*scanner.ObjectRecord, add func(Finding)) {
	if !res.TrailerStatus.Parsed {
		return // already reported as a malformed section
	}
	if !res.Trailer.HasRoot {
		add(Finding{Kind: KindUnresolvedCatalogReference, Detail: "trailer has no Root reference"})
		return
	}
	rootNum := res.Trailer.Root.Num
	root, ok := index[rootNum]
	if !ok {
		add(Finding{Kind: KindUnresolvedCatalogReference, Object: rootNum, Detail: fmt.Sprintf("root object %d does not exist", rootNum)})
		return
	}
	if !reTypeCatalog.Match(root.Body) {
		add(Finding{Kind: KindUnresolvedCatalogReference, Object: rootNum, Detail: fmt.Sprintf("root object %d does not declare /Type /Catalog", rootNum)})
	}
	for _, key := range []string{"AcroForm", "Outlines"} {
		target, ok := singleRef(root.Body, key)
		if !ok {
			continue
		}
		if _, exists := index[target]; !exists {
			add(Finding{
				Kind:   KindUnresolvedCatalogReference,
				Object: rootNum,
				Ref:    target,
				Detail: fmt.Sprintf("catalog /%s reference %d does not resolve", key, target),
			})
		}
	}
}

func (v *Validator) checkWidgets(res *scanner.Result, index map[int]*scanner.ObjectRecord, add func(Finding)) {
	for i := range res.Objects {
		o := &res.Objects[i]
		if reWidget.Match(o.Body) {
			if parent, ok := singleRef(o.Body, "Parent"); ok {
				if _, exists := index[parent]; !exists {
					add(Finding{
						Kind:   KindDanglingReference,
						Object: o.Num,
						Ref:    parent,
						Detail: fmt.Sprintf("widget %d references missing parent field %d", o.Num, parent),
					})
				}
			}
		}
		if reFieldType.Match(o.Body) {
			for _, kid := range arrayRefs(o.Body, "Kids") {
				if _, exists := index[kid]; !exists {
					add(Finding{
						Kind:   KindDanglingReference,
						Object: o.Num,
						Ref:    kid,
						Detail: fmt.Sprintf("field %d references missing kid %d", o.Num, kid),
					})
				}
			}
		}
	}
}
