// Package report collects the findings a checker run produces and can
// serialize them as CSV, so a repair session can be reviewed or diffed
// after the fact.
package report

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/tinyfat/msdosfsck/fserr"
)

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Finding is one reported defect or repair action, in column order matching
// the CSV header.
type Finding struct {
	Cluster     uint32   `csv:"cluster"`
	Severity    Severity `csv:"severity"`
	Message     string   `csv:"message"`
	Repaired    bool     `csv:"repaired"`
}

// Report accumulates Findings over the course of a checker run.
type Report struct {
	Findings []*Finding
}

// Add appends a finding to the report.
func (r *Report) Add(cluster uint32, severity Severity, message string, repaired bool) {
	r.Findings = append(r.Findings, &Finding{
		Cluster:  cluster,
		Severity: severity,
		Message:  message,
		Repaired: repaired,
	})
}

// WriteCSV serializes the report to w as CSV, one row per finding.
func (r *Report) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.Findings, w); err != nil {
		return fserr.ErrIOFailed.WrapError(err)
	}
	return nil
}

// ReadCSV replaces the report's findings with whatever rows r reads.
func (r *Report) ReadCSV(in io.Reader) error {
	var findings []*Finding
	if err := gocsv.Unmarshal(in, &findings); err != nil {
		return fserr.ErrIOFailed.WrapError(err)
	}
	r.Findings = findings
	return nil
}

// HasErrors reports whether any finding reached error or fatal severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError || f.Severity == SeverityFatal {
			return true
		}
	}
	return false
}
