package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/report"
)

func TestReport_WriteCSVRoundTrip(t *testing.T) {
	r := &report.Report{}
	r.Add(6, report.SeverityWarning, "lost cluster chain at cluster 6", true)
	r.Add(9, report.SeverityError, "cluster 9 crossed a chain at 2 with 3", false)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))
	assert.True(t, strings.Contains(buf.String(), "lost cluster chain"))

	r2 := &report.Report{}
	require.NoError(t, r2.ReadCSV(strings.NewReader(buf.String())))
	require.Len(t, r2.Findings, 2)
	assert.Equal(t, uint32(6), r2.Findings[0].Cluster)
	assert.True(t, r2.Findings[0].Repaired)
}

func TestReport_HasErrors(t *testing.T) {
	r := &report.Report{}
	assert.False(t, r.HasErrors())

	r.Add(1, report.SeverityInfo, "fine", false)
	assert.False(t, r.HasErrors())

	r.Add(2, report.SeverityFatal, "bad", false)
	assert.True(t, r.HasErrors())
}
