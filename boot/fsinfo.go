package boot

import (
	"encoding/binary"
	"io"

	"github.com/tinyfat/msdosfsck/fserr"
)

const (
	fsInfoLeadSignature   = 0x41615252
	fsInfoStructSignature = 0x61417272
	fsInfoTrailSignature  = 0xAA550000
)

// FSInfo holds the FAT32 FSInfo sector's two interesting fields: the free-
// cluster count and the hint for where to start looking for a free cluster.
// Both are caches the engine reconciles against what it actually counted.
type FSInfo struct {
	sectorOffset int64

	FreeCount uint32
	NextFree  uint32
}

type rawFSInfo struct {
	LeadSignature   uint32
	Reserved1       [480]byte
	StructSignature uint32
	FreeCount       uint32
	NextFree        uint32
	Reserved2       [12]byte
	TrailSignature  uint32
}

// readFSInfo reads the FSInfo sector at r's current position - the caller
// is responsible for seeking there first, since the sector's on-disk
// location (BPB_FSInfo) is a free field with no fixed relationship to the
// boot sector's own length. It validates all three signatures, the way
// Windows and the original checker both do.
func readFSInfo(r io.ReadSeeker, bytesPerSector uint16) (*FSInfo, error) {
	offset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fserr.ErrIOFailed.WrapError(err)
	}

	raw := rawFSInfo{}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, fserr.ErrIOFailed.WrapError(err)
	}

	if raw.LeadSignature != fsInfoLeadSignature ||
		raw.StructSignature != fsInfoStructSignature ||
		raw.TrailSignature != fsInfoTrailSignature {
		return nil, fserr.ErrCorrupted.WithMessage("FSInfo sector signature mismatch")
	}

	return &FSInfo{
		sectorOffset: offset,
		FreeCount:    raw.FreeCount,
		NextFree:     raw.NextFree,
	}, nil
}

// WriteTo writes the (possibly corrected) FreeCount/NextFree fields back to
// their original sector offset in w, leaving the signatures and reserved
// bytes untouched.
func (f *FSInfo) WriteTo(w io.WriteSeeker) error {
	if _, err := w.Seek(f.sectorOffset+488, io.SeekStart); err != nil {
		return fserr.ErrIOFailed.WrapError(err)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], f.FreeCount)
	binary.LittleEndian.PutUint32(buf[4:8], f.NextFree)

	if _, err := w.Write(buf[:]); err != nil {
		return fserr.ErrIOFailed.WrapError(err)
	}
	return nil
}
