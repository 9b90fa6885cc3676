package fat

import (
	"github.com/tinyfat/msdosfsck/fserr"
)

// Load reads the primary FAT copy for boot into memory, preferring a memory
// mapping when disk exposes one (via MappableDisk) and falling back to a
// heap-allocated copy read through ReaderAt otherwise. It does not validate
// the signature bytes or classify entries; call CheckSignature and Scan
// afterward.
func Load(disk Disk, boot BootBlock, opts Options) (*Descriptor, error) {
	width := boot.ClusterWidth()
	fatSize := fatByteSize(boot)
	offset := int64(boot.ReservedSectors()) * int64(boot.BytesPerSector())

	d := &Descriptor{
		boot:    boot,
		disk:    disk,
		opts:    opts,
		width:   width,
		fatSize: fatSize,
	}

	if m, ok := disk.(MappableDisk); ok {
		buf, unmap, err := m.Mmap(offset, int(fatSize))
		if err == nil {
			d.buf = buf
			d.isMapped = true
			d.unmap = unmap
		}
	}

	if d.buf == nil {
		buf := make([]byte, fatSize)
		if _, err := disk.ReadAt(buf, offset); err != nil {
			return nil, fserr.ErrIOFailed.WrapError(err)
		}
		d.buf = buf
	}

	numClusters := boot.NumClusters()
	d.used = NewBitmap(numClusters+ClustersReservedBelowFirst, false)
	d.head = NewBitmap(numClusters+ClustersReservedBelowFirst, true)

	return d, nil
}

// ClustersReservedBelowFirst is the count of FAT entries (0 and 1) that sit
// below the first real data cluster, ClusterFirst.
const ClustersReservedBelowFirst = 2

// fatByteSize computes how many bytes one on-disk copy of the FAT occupies.
func fatByteSize(boot BootBlock) uint {
	return boot.FATSectors() * boot.BytesPerSector()
}

// MappableDisk is implemented by disks that can hand back a live memory
// mapping of a byte range instead of requiring a heap copy. The returned
// unmap function releases the mapping; it must be safe to call exactly once.
type MappableDisk interface {
	Mmap(offset int64, length int) (buf []byte, unmap func() error, err error)
}
