package fat

import (
	"io"

	"github.com/tinyfat/msdosfsck/fserr"
)

// Disk is the minimal random-access contract the engine needs from the
// underlying block device or disk image.
type Disk interface {
	io.ReaderAt
	io.WriterAt
}

// Options configures the collaborators a Descriptor uses. Oracle and Diag
// must never be nil; Reconnect and FSInfo may be nil if the caller doesn't
// need lost-chain reconnection or FSInfo persistence (e.g. a read-only
// scan-only run).
type Options struct {
	ReadOnly  bool
	Oracle    Oracle
	Diag      DiagSink
	Reconnect Reconnector
	FSInfo    FSInfoWriter
}

// Descriptor is the FAT table loaded into memory, along with the used/head
// bookkeeping bitmaps. It owns the buffer (mapped or heap) for its lifetime,
// scoped from construction by Load to teardown by Release.
type Descriptor struct {
	boot     BootBlock
	disk     Disk
	opts     Options
	width    Width
	buf      []byte
	isMapped bool
	unmap    func() error
	fatSize  uint

	used *Bitmap
	head *Bitmap
}

// Boot returns the boot-block handle this descriptor was constructed with.
func (d *Descriptor) Boot() BootBlock {
	return d.boot
}

// ReadOnly reports whether this descriptor refuses all writes.
func (d *Descriptor) ReadOnly() bool {
	return d.opts.ReadOnly
}

// IsMapped reports whether the primary FAT copy is a live memory mapping of
// the on-disk region (as opposed to a heap copy that must be written back
// explicitly).
func (d *Descriptor) IsMapped() bool {
	return d.isMapped
}

// Used returns the bitmap of clusters already visited by a chain traversal.
func (d *Descriptor) Used() *Bitmap {
	return d.used
}

// Head returns the bitmap of candidate chain-head clusters.
func (d *Descriptor) Head() *Bitmap {
	return d.head
}

// GetNext decodes the successor cluster named by cl's FAT entry. cl must be
// in [ClusterFirst, ClusterFirst+NumClusters); out-of-range access is a fatal
// programming error and returns ClusterDead.
func (d *Descriptor) GetNext(cl ClusterID) (ClusterID, error) {
	if !IsValidCluster(cl, d.boot.NumClusters()) {
		d.opts.Diag.Fatal("invalid cluster: %d", cl)
		return ClusterDead, fserr.ErrInvalidCluster.WithMessage(
			fmtClusterRange(cl, d.boot.NumClusters()))
	}

	next, ok := decodeEntry(d.buf, d.width, cl)
	if !ok {
		d.opts.Diag.Fatal("invalid cluster mask for width %d", d.width)
		return ClusterDead, fserr.ErrBadClusterMask
	}
	return next, nil
}

// SetNext encodes next as cl's successor. Any write while the descriptor is
// read-only is refused and returns StatusFatal without touching the buffer.
func (d *Descriptor) SetNext(cl ClusterID, next ClusterID) (Status, error) {
	if d.opts.ReadOnly {
		d.opts.Diag.Warn(" (NO WRITE)")
		return StatusFatal, fserr.ErrReadOnly
	}

	if !IsValidCluster(cl, d.boot.NumClusters()) {
		d.opts.Diag.Fatal("invalid cluster: %d", cl)
		return StatusFatal, fserr.ErrInvalidCluster.WithMessage(
			fmtClusterRange(cl, d.boot.NumClusters()))
	}

	if !encodeEntry(d.buf, d.width, cl, next) {
		d.opts.Diag.Fatal("invalid cluster mask for width %d", d.width)
		return StatusFatal, fserr.ErrBadClusterMask
	}
	return StatusOK, nil
}

// Release unmaps the primary FAT region if the descriptor holds a live
// mapping. A heap buffer and the used/head bitmaps are not touched here;
// they go away with the descriptor itself (ReleaseUsed drops the used
// bitmap earlier).
func (d *Descriptor) Release() error {
	if d.isMapped && d.unmap != nil {
		return d.unmap()
	}
	return nil
}

// ReleaseUsed drops the used bitmap once the lost-chain sweep is done with
// it; nothing after that point consults it.
func (d *Descriptor) ReleaseUsed() {
	d.used = nil
}

func fmtClusterRange(cl ClusterID, numClusters uint) string {
	return "cluster " + itoa(uint(cl)) + " not in [2, " + itoa(uint(ClusterFirst)+numClusters) + ")"
}

func itoa(v uint) string {
	if v == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}
