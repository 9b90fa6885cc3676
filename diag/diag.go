// Package diag implements fat.DiagSink, the engine's diagnostic output:
// human-readable messages on a stream plus, optionally, structured entries
// appended to a report.Report for later review.
package diag

import (
	"fmt"
	"io"

	"github.com/tinyfat/msdosfsck/report"
)

// Sink writes every diagnostic to Out (mirroring the original checker's
// pwarn/pfatal/perr console output) and, if Report is non-nil, also records
// it there.
type Sink struct {
	Out    io.Writer
	Report *report.Report

	// cluster is the cluster number recorded with each finding. It is set
	// only through WithCluster, which returns a new Sink scoped to it; a Sink
	// built by New records 0.
	cluster uint32
}

// New builds a Sink writing to out. report may be nil if CSV output isn't
// wanted for this run.
func New(out io.Writer, rep *report.Report) *Sink {
	return &Sink{Out: out, Report: rep}
}

// WithCluster returns a Sink that attributes subsequent messages to
// cluster, for use within a single chain-check or sweep iteration.
func (s *Sink) WithCluster(cluster uint32) *Sink {
	return &Sink{Out: s.Out, Report: s.Report, cluster: cluster}
}

func (s *Sink) record(severity report.Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(s.Out, msg)
	if s.Report != nil {
		s.Report.Add(s.cluster, severity, msg, false)
	}
}

func (s *Sink) Warn(format string, args ...interface{}) {
	s.record(report.SeverityWarning, format, args...)
}

func (s *Sink) Fatal(format string, args ...interface{}) {
	s.record(report.SeverityFatal, format, args...)
}

func (s *Sink) Err(format string, args ...interface{}) {
	s.record(report.SeverityError, format, args...)
}

// FinishLostFound flushes a trailing newline, mirroring the original
// checker's finishlf(), which closes off a block of "n clusters lost"
// messages once the sweep completes.
func (s *Sink) FinishLostFound() {
	fmt.Fprintln(s.Out)
}
