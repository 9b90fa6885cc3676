// Package rescue implements fat.Reconnector: attaching a chain nobody's
// directory entry points to into a dedicated top-level rescue directory,
// FSCK-REC, with members named FOUND.000, FOUND.001, and so on, the same
// way fsck_msdosfs's reconnect() populates lost+found.
package rescue

import (
	"fmt"

	"github.com/tinyfat/msdosfsck/dirent"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fserr"
)

// DirName is the name fsck gives its rescue directory in the volume root.
const DirName = "FSCK-REC"

// Disk is the minimal random-access contract Directory needs to write a new
// directory entry.
type Disk interface {
	WriteAt(p []byte, off int64) (int, error)
}

// Directory is a fixed-capacity region of preallocated directory entry
// slots (typically FSCK-REC's own data cluster(s)) that Reconnect appends
// new FOUND.### entries into.
type Directory struct {
	disk            Disk
	regionOffset    int64
	capacity        int
	bytesPerCluster uint32

	next int
}

// New wraps a Disk region of capacity entries (regionOffset..regionOffset+
// capacity*dirent.EntrySize) as a rescue directory. bytesPerCluster is used
// to estimate a reconnected chain's apparent size.
func New(disk Disk, regionOffset int64, capacity int, bytesPerCluster uint32) *Directory {
	return &Directory{
		disk:            disk,
		regionOffset:    regionOffset,
		capacity:        capacity,
		bytesPerCluster: bytesPerCluster,
	}
}

// Reconnect implements fat.Reconnector: it writes a new FOUND.### entry
// pointing at head, sized as chainLength clusters, and returns StatusFATMOD
// on success since it modifies on-disk directory data (not the FAT itself).
func (d *Directory) Reconnect(head fat.ClusterID, chainLength uint) (fat.Status, error) {
	if d.next >= d.capacity {
		return fat.StatusError, fserr.ErrNoSpace.WithMessage("rescue directory is full")
	}

	name := fmt.Sprintf("FOUND.%03d", d.next)
	buf := make([]byte, dirent.EntrySize)
	writeShortName(buf, name)
	buf[11] = dirent.AttrArchived

	buf[20] = byte(uint32(head) >> 16)
	buf[21] = byte(uint32(head) >> 24)
	buf[26] = byte(uint32(head))
	buf[27] = byte(uint32(head) >> 8)

	size := uint32(chainLength) * d.bytesPerCluster
	buf[28] = byte(size)
	buf[29] = byte(size >> 8)
	buf[30] = byte(size >> 16)
	buf[31] = byte(size >> 24)

	off := d.regionOffset + int64(d.next)*int64(dirent.EntrySize)
	if _, err := d.disk.WriteAt(buf, off); err != nil {
		return fat.StatusError, fserr.ErrIOFailed.WrapError(err)
	}

	d.next++
	return fat.StatusFATMOD, nil
}

// writeShortName splits name at the last dot into an 8.3 name/extension
// pair and writes it space-padded into the first 11 bytes of buf.
func writeShortName(buf []byte, name string) {
	base := name
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			base = name[:i]
			ext = name[i+1:]
			break
		}
	}

	for i := 0; i < 8; i++ {
		if i < len(base) {
			buf[i] = base[i]
		} else {
			buf[i] = ' '
		}
	}
	for i := 0; i < 3; i++ {
		if i < len(ext) {
			buf[8+i] = ext[i]
		} else {
			buf[8+i] = ' '
		}
	}
}
