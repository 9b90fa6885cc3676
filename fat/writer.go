package fat

import (
	"github.com/hashicorp/go-multierror"

	"github.com/tinyfat/msdosfsck/fserr"
)

// WriteBack writes the in-memory table out to every FAT copy on disk. If the
// primary copy is a live mapping, the kernel already flushes it on unmap, so
// WriteBack skips copy 0 and only writes the secondary copies explicitly;
// otherwise it writes all of them. Failures writing individual copies are
// collected rather than aborting after the first, so a bad sector in one
// copy doesn't prevent the others from being repaired.
func (d *Descriptor) WriteBack() error {
	if d.opts.ReadOnly {
		return fserr.ErrReadOnly
	}

	var errs *multierror.Error
	start := uint(0)
	if d.isMapped {
		start = 1
	}

	for i := start; i < d.boot.NumFATs(); i++ {
		offset := int64(d.boot.ReservedSectors())*int64(d.boot.BytesPerSector()) +
			int64(i)*int64(d.fatSize)

		if _, err := d.disk.WriteAt(d.buf, offset); err != nil {
			errs = multierror.Append(errs, fserr.ErrIOFailed.WrapError(err))
		}
	}

	return errs.ErrorOrNil()
}
