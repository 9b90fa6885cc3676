package fattest

import "fmt"

// NopDiag discards every diagnostic, for tests that don't care about the
// messages themselves.
type NopDiag struct{}

func (NopDiag) Warn(format string, args ...interface{}) {}
func (NopDiag) Fatal(format string, args ...interface{}) {}
func (NopDiag) Err(format string, args ...interface{}) {}
func (NopDiag) FinishLostFound() {}

// RecordingDiag captures every diagnostic call so a test can assert on what
// the engine reported.
type RecordingDiag struct {
	Warnings []string
	Fatals   []string
	Errs     []string
	Finished bool
}

func (d *RecordingDiag) Warn(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func (d *RecordingDiag) Fatal(format string, args ...interface{}) {
	d.Fatals = append(d.Fatals, fmt.Sprintf(format, args...))
}

func (d *RecordingDiag) Err(format string, args ...interface{}) {
	d.Errs = append(d.Errs, fmt.Sprintf(format, args...))
}

func (d *RecordingDiag) FinishLostFound() {
	d.Finished = true
}
