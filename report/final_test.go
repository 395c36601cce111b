package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcheck/report"
)

func TestBuildWithoutOracle(t *testing.T) {
	s := report.NewStats()
	s.Fold(report.Record{File: "a.pdf", Success: true})
	s.Fold(report.Record{File: "b.pdf", Success: true})
	s.Fold(report.Record{File: "c.pdf", Kind: "MissingObject"})

	f := report.Build(&s, 90*time.Second)

	assert.NotEmpty(t, f.RunID)
	assert.Equal(t, 3, f.TotalFiles)
	assert.Equal(t, 90.0, f.DurationSeconds)
	assert.Equal(t, 2, f.Structural.Successful)
	assert.Equal(t, 1, f.Structural.Failed)
	assert.InDelta(t, 66.7, f.Structural.SuccessRate, 0.1)
	assert.Nil(t, f.Oracle)
	assert.Nil(t, f.Combined)
}

func TestBuildWithOracle(t *testing.T) {
	s := report.NewStats()
	s.Fold(report.Record{File: "a.pdf", Success: true, Oracle: &report.OracleRecord{Success: true}})
	s.Fold(report.Record{File: "b.pdf", Kind: "MissingObject", Oracle: &report.OracleRecord{Kind: "ParseError"}})

	f := report.Build(&s, time.Second)

	require.NotNil(t, f.Oracle)
	require.NotNil(t, f.Combined)
	assert.Equal(t, 1, f.Oracle.Successful)
	assert.Equal(t, 1, f.Combined.BothSuccessful)
	assert.Equal(t, 1, f.Combined.BothFailed)
	assert.Equal(t, 1, f.OracleErrorTypes["ParseError"])
}

func TestBuildEmptyRun(t *testing.T) {
	s := report.NewStats()
	f := report.Build(&s, 0)

	assert.Equal(t, 0, f.TotalFiles)
	assert.Equal(t, 0.0, f.Structural.SuccessRate)
	assert.NotNil(t, f.ErrorTypes)
	assert.NotNil(t, f.CompatibilityIssues)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	s := report.NewStats()
	s.Fold(report.Record{File: "a.pdf", Kind: "CircularReference"})
	f := report.Build(&s, time.Minute)

	var buf bytes.Buffer
	require.NoError(t, f.WriteJSON(&buf))

	var decoded report.Final
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, f.RunID, decoded.RunID)
	assert.Equal(t, 1, decoded.ErrorTypes["CircularReference"])
}

func TestWriteSummary(t *testing.T) {
	s := report.NewStats()
	s.Fold(report.Record{File: "a.pdf", Success: true, Oracle: &report.OracleRecord{Success: true}})
	s.Fold(report.Record{File: "b.pdf", Kind: "MissingObject", Oracle: &report.OracleRecord{Success: true}})
	f := report.Build(&s, time.Second)

	var buf bytes.Buffer
	require.NoError(t, f.WriteSummary(&buf))
	out := buf.String()

	assert.Contains(t, out, "structural: 1 ok, 1 failed")
	assert.Contains(t, out, "oracle:")
	assert.Contains(t, out, "MissingObject")
}
