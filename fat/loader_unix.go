//go:build unix

package fat

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileDisk adapts an *os.File to Disk and, on unix, MappableDisk. Mmap is
// only attempted for the primary FAT copy; write-back to additional copies
// always goes through WriteAt since there is no reason to map what's only
// touched once.
type FileDisk struct {
	*os.File
}

// Mmap maps the given byte range of the file read-write. Callers must call
// the returned unmap exactly once when done.
func (f FileDisk) Mmap(offset int64, length int) ([]byte, func() error, error) {
	pageOffset := offset &^ int64(os.Getpagesize()-1)
	align := int(offset - pageOffset)

	buf, err := unix.Mmap(int(f.Fd()), pageOffset, length+align, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}

	unmap := func() error {
		return unix.Munmap(buf)
	}
	return buf[align:], unmap, nil
}
