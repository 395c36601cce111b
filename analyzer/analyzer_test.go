package analyzer_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pdfcheck/analyzer"
	"pdfcheck/corpus"
	"pdfcheck/structure"
)

func writePDF(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func buildCleanPDF() []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.7\n")
	offsets := make(map[int]int)

	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R >>\nendobj\n")

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	buf.WriteString(fmt.Sprintf("%d\n%%%%EOF\n", xrefOffset))
	return buf.Bytes()
}

func TestStructuralAnalyzeCleanFile(t *testing.T) {
	path := writePDF(t, "clean.pdf", buildCleanPDF())
	a := analyzer.NewStructural(analyzer.Config{})

	an := a.Analyze(context.Background(), path)
	if an.Outcome != corpus.OutcomeSuccess {
		t.Fatalf("outcome = %v (%s), want success", an.Outcome, an.Message)
	}
	if len(an.Findings) != 0 {
		t.Errorf("findings = %v, want none", an.Findings)
	}
}

func TestStructuralAnalyzeBrokenFile(t *testing.T) {
	pdf := bytes.Replace(buildCleanPDF(),
		[]byte("0000000000 65535 f \n"), []byte("0000000000 655"), 1)
	path := writePDF(t, "broken.pdf", pdf)
	a := analyzer.NewStructural(analyzer.Config{})

	an := a.Analyze(context.Background(), path)
	if an.Outcome != corpus.OutcomeStructuralError {
		t.Fatalf("outcome = %v, want structural error", an.Outcome)
	}
	if an.Kind != structure.KindXrefTruncated {
		t.Errorf("kind = %v, want XrefTruncated", an.Kind)
	}
	if an.Message == "" {
		t.Error("want a message describing the first error")
	}
}

func TestStructuralAnalyzeUnreadableFile(t *testing.T) {
	a := analyzer.NewStructural(analyzer.Config{})
	an := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))

	if an.Outcome != corpus.OutcomeProcessFailure {
		t.Fatalf("outcome = %v, want process failure", an.Outcome)
	}
	if an.Kind != structure.KindAnalyzerProcessFailure {
		t.Errorf("kind = %v, want AnalyzerProcessFailure", an.Kind)
	}
}

func TestStructuralAnalyzeGarbage(t *testing.T) {
	path := writePDF(t, "garbage.bin", []byte("this is not a pdf"))
	a := analyzer.NewStructural(analyzer.Config{})

	an := a.Analyze(context.Background(), path)
	if an.Outcome != corpus.OutcomeStructuralError {
		t.Fatalf("outcome = %v, want structural error", an.Outcome)
	}
	if an.Kind != structure.KindMalformedSection {
		t.Errorf("kind = %v, want MalformedSection", an.Kind)
	}
}
