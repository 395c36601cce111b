package report_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcheck/report"
)

func TestFoldCounters(t *testing.T) {
	s := report.NewStats()
	s.Fold(report.Record{File: "a.pdf", Success: true})
	s.Fold(report.Record{File: "b.pdf", Kind: "MissingObject"})
	s.Fold(report.Record{File: "c.pdf", Timeout: true, Kind: "AnalyzerTimeout"})
	s.Fold(report.Record{File: "d.pdf", ProcessFailure: true, Kind: "AnalyzerProcessFailure"})
	s.Fold(report.Record{File: "e.pdf", Kind: "MissingObject"})

	assert.Equal(t, 5, s.TotalProcessed)
	assert.Equal(t, 1, s.StructuralSuccess)
	assert.Equal(t, 4, s.StructuralFailed)
	assert.Equal(t, 1, s.Timeouts)
	assert.Equal(t, 1, s.ProcessFailures)
	assert.Equal(t, 2, s.ErrorTypes["MissingObject"])
	assert.False(t, s.OracleParticipated())
	assert.Len(t, s.CompatibilityIssues, 4)
}

func TestFoldOracleQuadrants(t *testing.T) {
	s := report.NewStats()
	ok := &report.OracleRecord{Success: true}
	bad := &report.OracleRecord{Kind: "ParseError", Message: "oracle rejected it"}

	s.Fold(report.Record{File: "a.pdf", Success: true, Oracle: ok})
	s.Fold(report.Record{File: "b.pdf", Success: true, Oracle: bad})
	s.Fold(report.Record{File: "c.pdf", Kind: "MissingObject", Oracle: ok})
	s.Fold(report.Record{File: "d.pdf", Kind: "MissingObject", Oracle: bad})

	assert.Equal(t, 1, s.BothSuccess)
	assert.Equal(t, 1, s.StructuralOnly)
	assert.Equal(t, 1, s.OracleOnly)
	assert.Equal(t, 1, s.BothFailed)
	assert.Equal(t, 2, s.OracleSuccess)
	assert.Equal(t, 2, s.OracleFailed)
	assert.Equal(t, 2, s.OracleErrorTypes["ParseError"])
	assert.True(t, s.OracleParticipated())

	// Only disagreements are sampled.
	require.Len(t, s.CompatibilityIssues, 2)
	assert.Equal(t, "b.pdf", s.CompatibilityIssues[0].File)
	assert.Equal(t, "c.pdf", s.CompatibilityIssues[1].File)
}

func TestFoldIsOrderIndependent(t *testing.T) {
	records := []report.Record{
		{File: "a.pdf", Success: true},
		{File: "b.pdf", Kind: "MissingObject"},
		{File: "c.pdf", Timeout: true, Kind: "AnalyzerTimeout"},
		{File: "d.pdf", Success: true, Oracle: &report.OracleRecord{Success: true}},
	}

	forward := report.NewStats()
	for _, r := range records {
		forward.Fold(r)
	}
	backward := report.NewStats()
	for i := len(records) - 1; i >= 0; i-- {
		backward.Fold(records[i])
	}

	assert.Equal(t, forward.TotalProcessed, backward.TotalProcessed)
	assert.Equal(t, forward.StructuralSuccess, backward.StructuralSuccess)
	assert.Equal(t, forward.StructuralFailed, backward.StructuralFailed)
	assert.Equal(t, forward.Timeouts, backward.Timeouts)
	assert.Equal(t, forward.ErrorTypes, backward.ErrorTypes)
	assert.Equal(t, forward.BothSuccess, backward.BothSuccess)
}

func TestFoldIssueCap(t *testing.T) {
	s := report.NewStats()
	s.MaxIssues = 3
	for i := 0; i < 10; i++ {
		s.Fold(report.Record{File: fmt.Sprintf("f%d.pdf", i), Kind: "MissingObject"})
	}
	assert.Len(t, s.CompatibilityIssues, 3)
	assert.Equal(t, 10, s.StructuralFailed)
}

func TestEnsureMaps(t *testing.T) {
	var s report.Stats
	s.EnsureMaps()
	require.NotNil(t, s.ErrorTypes)
	require.NotNil(t, s.OracleErrorTypes)
	s.Fold(report.Record{File: "a.pdf", Kind: "X"})
	assert.Equal(t, 1, s.ErrorTypes["X"])
}
