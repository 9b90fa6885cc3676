package fattest

import (
	"testing"

	"github.com/tinyfat/msdosfsck/fat"
)

// NewFAT16Volume lays out a reserved area followed by fatCount identical
// copies of a FAT16 table (the first copy seeded from entries), sized so
// that boot.FATSectors()*boot.BytesPerSector() exactly covers one copy -
// the same invariant fat.Load relies on.
func NewFAT16Volume(
	t *testing.T, numClusters uint, fatCount uint, media byte, dirty bool, entries map[uint32]uint32,
) (*Boot, *MemDisk) {
	table := FAT16Image(numClusters, media, dirty, entries)
	sectorSize := uint(len(table))

	raw := make([]byte, sectorSize+sectorSize*fatCount)
	for i := uint(0); i < fatCount; i++ {
		copy(raw[sectorSize+i*sectorSize:], table)
	}

	boot := &Boot{
		Width: fat.Width16, Clusters: numClusters, SectorsPerFAT: 1,
		SectorSize: sectorSize, Reserved: 1, FATCount: fatCount, MediaByte: media,
	}
	return boot, NewMemDisk(t, raw)
}

// NewFAT32Volume is NewFAT16Volume's FAT32 counterpart, additionally wiring
// up FSInfo fields on the returned Boot.
func NewFAT32Volume(
	t *testing.T, numClusters uint, fatCount uint, media byte, dirty bool, entries map[uint32]uint32,
) (*Boot, *MemDisk) {
	table := FAT32Image(numClusters, media, dirty, entries)
	sectorSize := uint(len(table))

	raw := make([]byte, sectorSize+sectorSize*fatCount)
	for i := uint(0); i < fatCount; i++ {
		copy(raw[sectorSize+i*sectorSize:], table)
	}

	boot := &Boot{
		Width: fat.Width32, Clusters: numClusters, SectorsPerFAT: 1,
		SectorSize: sectorSize, Reserved: 1, FATCount: fatCount, MediaByte: media,
		HasFSInfo: true, Next: 0xFFFFFFFF,
	}
	return boot, NewMemDisk(t, raw)
}
