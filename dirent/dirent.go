// Package dirent decodes on-disk FAT directory entries. It knows nothing
// about the FAT table itself or how directories are chained across
// clusters; see the walker package for that traversal.
package dirent

import (
	"encoding/binary"
	"strings"

	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fserr"
)

// Attribute flags, per the FAT specification.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchived    = 0x20
	AttrDevice      = 0x40
	AttrReserved    = 0x80

	// AttrLongName marks a long-filename continuation entry: all four
	// read-only/hidden/system/volume-label bits set at once. The checker
	// doesn't reassemble long names, but must not mistake one for a short
	// entry with a garbled attribute byte.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeLabel
)

const (
	// EntrySize is the fixed size in bytes of one directory entry.
	EntrySize = 32

	markerFree         = 0x00
	markerDeleted      = 0xE5
	markerKanjiEscaped = 0x05
)

// rawDirent is the exact 32-byte on-disk layout.
type rawDirent struct {
	Name              [8]byte
	Extension         [3]byte
	AttributeFlags    uint8
	NTReserved        uint8
	CreatedTimeMillis uint8
	CreatedTime       uint16
	CreatedDate       uint16
	LastAccessedDate  uint16
	FirstClusterHigh  uint16
	LastModifiedTime  uint16
	LastModifiedDate  uint16
	FirstClusterLow   uint16
	FileSize          uint32
}

// Entry is a decoded directory entry.
type Entry struct {
	Name         string
	Attributes   uint8
	FirstCluster fat.ClusterID
	Size         uint32

	IsFree    bool
	IsDeleted bool
	IsLong    bool
}

// IsDirectory reports whether the entry names a subdirectory.
func (e Entry) IsDirectory() bool {
	return e.Attributes&AttrDirectory != 0
}

// IsVolumeLabel reports whether the entry is the volume-label entry rather
// than a file or directory.
func (e Entry) IsVolumeLabel() bool {
	return e.Attributes&AttrVolumeLabel != 0 && e.Attributes&AttrLongName != AttrLongName
}

// Decode parses one 32-byte slice into an Entry. buf must be exactly
// EntrySize bytes.
func Decode(buf []byte) (Entry, error) {
	if len(buf) != EntrySize {
		return Entry{}, fserr.ErrInvalidArgument.WithMessage("directory entry must be 32 bytes")
	}

	raw := rawDirent{}
	raw.Name = [8]byte(buf[0:8])
	raw.Extension = [3]byte(buf[8:11])
	raw.AttributeFlags = buf[11]
	raw.NTReserved = buf[12]
	raw.CreatedTimeMillis = buf[13]
	raw.CreatedTime = binary.LittleEndian.Uint16(buf[14:16])
	raw.CreatedDate = binary.LittleEndian.Uint16(buf[16:18])
	raw.LastAccessedDate = binary.LittleEndian.Uint16(buf[18:20])
	raw.FirstClusterHigh = binary.LittleEndian.Uint16(buf[20:22])
	raw.LastModifiedTime = binary.LittleEndian.Uint16(buf[22:24])
	raw.LastModifiedDate = binary.LittleEndian.Uint16(buf[24:26])
	raw.FirstClusterLow = binary.LittleEndian.Uint16(buf[26:28])
	raw.FileSize = binary.LittleEndian.Uint32(buf[28:32])

	entry := Entry{
		Attributes: raw.AttributeFlags,
		FirstCluster: fat.ClusterID(uint32(raw.FirstClusterHigh)<<16 | uint32(raw.FirstClusterLow)),
		Size:       raw.FileSize,
		IsLong:     raw.AttributeFlags&AttrLongName == AttrLongName,
	}

	switch raw.Name[0] {
	case markerFree:
		entry.IsFree = true
		return entry, nil
	case markerDeleted:
		entry.IsDeleted = true
		return entry, nil
	case markerKanjiEscaped:
		raw.Name[0] = markerDeleted
	}

	entry.Name = formatName(raw.Name, raw.Extension)
	return entry, nil
}

// formatName joins the 8.3 name and extension fields, trimming the pad
// spaces FAT uses and reattaching the dot only if there's an extension.
func formatName(name [8]byte, ext [3]byte) string {
	base := strings.TrimRight(string(name[:]), " ")
	extension := strings.TrimRight(string(ext[:]), " ")
	if extension == "" {
		return base
	}
	return base + "." + extension
}

// DecodeAll decodes every entry in buf, which must be a multiple of
// EntrySize bytes (typically one cluster's worth of directory data).
func DecodeAll(buf []byte) ([]Entry, error) {
	if len(buf)%EntrySize != 0 {
		return nil, fserr.ErrInvalidArgument.WithMessage("directory region is not a multiple of entry size")
	}

	entries := make([]Entry, 0, len(buf)/EntrySize)
	for off := 0; off < len(buf); off += EntrySize {
		if IsLongNameStop(buf[off]) {
			break
		}
		e, err := Decode(buf[off : off+EntrySize])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// IsLongNameStop reports whether firstByte signals that no further entries
// follow in this directory (the canonical end marker is 0x00; unlike a
// single deleted entry, it means every later slot is also unused).
func IsLongNameStop(firstByte byte) bool {
	return firstByte == markerFree
}
