// Package fattest provides synthetic FAT volumes and disk fakes for testing
// the fat package, in the same spirit as the rest of the project's disk
// image fixtures: in-memory backing buffers with bounds-checked access.
package fattest

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// MemDisk is an in-memory fat.Disk backed by a bytesextra.ReadWriteSeeker
// wrapping a plain byte slice, with bounds checking on every access that
// fails the test rather than panicking or silently corrupting memory.
// bytesextra's seeker gives sequential Read/Write/Seek over the slice;
// MemDisk adapts that into the random-access ReadAt/WriterAt the fat
// package's Disk interface needs.
type MemDisk struct {
	t      *testing.T
	data   []byte
	stream io.ReadWriteSeeker
}

// NewMemDisk wraps data as a fat.Disk. Reads and writes operate on data
// directly; the caller keeps ownership of the slice and can inspect it after
// the test runs to assert on what got written.
func NewMemDisk(t *testing.T, data []byte) *MemDisk {
	return &MemDisk{t: t, data: data, stream: bytesextra.NewReadWriteSeeker(data)}
}

func (d *MemDisk) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(d.data) {
		msg := fmt.Sprintf("read out of bounds: offset %d length %d size %d", off, len(p), len(d.data))
		d.t.Error(msg)
		return 0, fmt.Errorf(msg)
	}
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		d.t.Error(err)
		return 0, err
	}
	return io.ReadFull(d.stream, p)
}

func (d *MemDisk) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(d.data) {
		msg := fmt.Sprintf("write out of bounds: offset %d length %d size %d", off, len(p), len(d.data))
		d.t.Error(msg)
		return 0, fmt.Errorf(msg)
	}
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		d.t.Error(err)
		return 0, err
	}
	return d.stream.Write(p)
}

// Bytes returns the live backing slice.
func (d *MemDisk) Bytes() []byte {
	return d.data
}

// RequireSize fails the test unless the backing buffer is exactly n bytes.
func RequireSize(t *testing.T, d *MemDisk, n int) {
	require.Len(t, d.data, n)
}
