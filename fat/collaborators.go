package fat

// BootBlock is the read-only (except for the free/next hints) collaborator
// describing the geometry of the volume the FAT belongs to. Boot-sector
// parsing itself lives outside this package; see the boot package for the
// concrete implementation.
type BootBlock interface {
	ClusterWidth() Width
	NumClusters() uint
	FATSectors() uint
	BytesPerSector() uint
	ReservedSectors() uint
	NumFATs() uint
	Media() byte

	FSInfoPresent() bool
	FSFree() uint32
	SetFSFree(uint32)
	FSNext() uint32
	SetFSNext(uint32)

	// SetCounts is called once, after Scan, with the number of free and bad
	// clusters found.
	SetCounts(numFree, numBad uint)
}

// Oracle is the interactive "should I fix this" prompt. Real implementations
// ask a human; tests substitute a scripted sequence of answers.
type Oracle interface {
	// Ask presents prompt to the user and returns their answer. defaultAnswer
	// is what a non-interactive / headless run should use.
	Ask(defaultAnswer bool, prompt string) bool
}

// Reconnector attaches a lost chain's head to a rescue location (e.g. a
// lost+found style directory) so its data isn't silently discarded.
type Reconnector interface {
	Reconnect(head ClusterID, chainLength uint) (Status, error)
}

// FSInfoWriter persists FAT32 FSInfo changes (free-cluster count and next-
// free hint) back to disk.
type FSInfoWriter interface {
	WriteFSInfo() error
}

// DiagSink is where the engine reports human-readable diagnostics, mirroring
// the original tool's pwarn/pfatal/perr/finishlf calls.
type DiagSink interface {
	Warn(format string, args ...interface{})
	Fatal(format string, args ...interface{})
	Err(format string, args ...interface{})
	// FinishLostFound is called once the lost-chain sweep completes, letting
	// the sink flush any buffered summary (mirrors finishlf()).
	FinishLostFound()
}
