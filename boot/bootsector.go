// Package boot parses the BIOS Parameter Block and, for FAT32 volumes, the
// FSInfo sector, and exposes the geometry the fat engine needs through the
// fat.BootBlock contract. Directory-entry traversal and the FAT table
// itself are out of scope here; see the dirent and fat packages.
package boot

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fserr"
)

// rawBPB is the on-disk BIOS Parameter Block common to FAT12/16/32.
type rawBPB struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	SectorsPerFAT16   uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
}

// Block is a parsed boot sector, adapting the raw on-disk BPB into the
// derived geometry fields the rest of the checker needs, and implementing
// fat.BootBlock so a *Block can be handed directly to fat.Load.
type Block struct {
	raw rawBPB

	sectorsPerFAT   uint
	totalSectors    uint
	rootDirSectors  uint
	totalClusters   uint
	fatVersion      fat.Width
	firstDataSector uint
	rootCluster     uint32

	numFree uint32
	numBad  uint32

	fsInfo *FSInfo
}

// DetermineFATVersion classifies a volume by its cluster count, per
// Microsoft's FAT specification: this is the only correct way to tell
// FAT12/16/32 apart, since nothing else on disk names the width directly.
func DetermineFATVersion(totalClusters uint) fat.Width {
	if totalClusters < 4085 {
		return fat.Width12
	}
	if totalClusters < 65525 {
		return fat.Width16
	}
	return fat.Width32
}

// Parse reads a boot sector (and, for FAT32, the FSInfo sector that the BPB's
// FSInfoSector field names) from r and derives the fields fat.Load needs.
func Parse(r io.ReadSeeker) (*Block, error) {
	volumeStart, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fserr.ErrIOFailed.WrapError(err)
	}

	raw := rawBPB{}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, fserr.ErrIOFailed.WrapError(err)
	}

	var sectorsPerFAT32 uint32
	var fat32Extra rawFAT32Extra
	if raw.SectorsPerFAT16 == 0 {
		if err := binary.Read(r, binary.LittleEndian, &sectorsPerFAT32); err != nil {
			return nil, fserr.ErrIOFailed.WrapError(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &fat32Extra); err != nil {
			return nil, fserr.ErrIOFailed.WrapError(err)
		}
	}

	sectorsPerFAT := uint(raw.SectorsPerFAT16)
	if sectorsPerFAT == 0 {
		sectorsPerFAT = uint(sectorsPerFAT32)
	}

	totalSectors := uint(raw.TotalSectors16)
	if totalSectors == 0 {
		totalSectors = uint(raw.TotalSectors32)
	}

	if raw.BytesPerSector == 0 || raw.SectorsPerCluster == 0 {
		return nil, fserr.ErrCorrupted.WithMessage("BytesPerSector/SectorsPerCluster is zero")
	}

	rootDirSectors := (uint(raw.RootEntryCount)*32 + uint(raw.BytesPerSector) - 1) / uint(raw.BytesPerSector)
	totalFATSectors := uint(raw.NumFATs) * sectorsPerFAT
	dataSectors := totalSectors - uint(raw.ReservedSectors) - totalFATSectors - rootDirSectors
	totalClusters := dataSectors / uint(raw.SectorsPerCluster)

	b := &Block{
		raw:             raw,
		sectorsPerFAT:   sectorsPerFAT,
		totalSectors:    totalSectors,
		rootDirSectors:  rootDirSectors,
		totalClusters:   totalClusters,
		fatVersion:      DetermineFATVersion(totalClusters),
		firstDataSector: uint(raw.ReservedSectors) + totalFATSectors + rootDirSectors,
	}

	if b.fatVersion == fat.Width32 {
		if rootDirSectors != 0 {
			return nil, fserr.ErrCorrupted.WithMessage(
				fmt.Sprintf("root directory sectors is %d on a FAT32 volume, must be 0", rootDirSectors))
		}
		b.rootCluster = fat32Extra.RootCluster

		fsInfoOffset := volumeStart + int64(fat32Extra.FSInfoSector)*int64(raw.BytesPerSector)
		if _, err := r.Seek(fsInfoOffset, io.SeekStart); err != nil {
			return nil, fserr.ErrIOFailed.WrapError(err)
		}
		fsInfo, err := readFSInfo(r, raw.BytesPerSector)
		if err != nil {
			return nil, err
		}
		b.fsInfo = fsInfo
	}

	return b, nil
}

type rawFAT32Extra struct {
	ExtFlags         uint16
	FSVersionMinor   uint8
	FSVersionMajor   uint8
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16
	Reserved         [12]byte
	DriveNumber      uint8
	NTReserved       uint8
	ExBootSignature  uint8
	VolumeID         uint32
	VolumeLabel      [11]byte
	FileSystemType   [8]byte
}

func (b *Block) ClusterWidth() fat.Width { return b.fatVersion }
func (b *Block) NumClusters() uint       { return b.totalClusters }
func (b *Block) FATSectors() uint        { return b.sectorsPerFAT }
func (b *Block) BytesPerSector() uint    { return uint(b.raw.BytesPerSector) }
func (b *Block) ReservedSectors() uint   { return uint(b.raw.ReservedSectors) }
func (b *Block) NumFATs() uint           { return uint(b.raw.NumFATs) }
func (b *Block) Media() byte             { return b.raw.Media }

// RootCluster returns the FAT32 root directory's starting cluster. It is
// only meaningful when ClusterWidth() is fat.Width32; on FAT12/16 the root
// directory is a fixed region computed from FirstDataSector, not a chain.
func (b *Block) RootCluster() fat.ClusterID {
	return fat.ClusterID(b.rootCluster)
}

// FirstDataSector returns the sector number where cluster 2 begins.
func (b *Block) FirstDataSector() uint {
	return b.firstDataSector
}

// RootDirSectors returns the size in sectors of the fixed FAT12/16 root
// directory region. It is 0 on FAT32, where the root directory is an
// ordinary cluster chain starting at RootCluster.
func (b *Block) RootDirSectors() uint {
	return b.rootDirSectors
}

// RootDirOffset returns the byte offset of the fixed FAT12/16 root
// directory region. It has no meaning on FAT32.
func (b *Block) RootDirOffset() int64 {
	return int64(b.firstDataSector-b.rootDirSectors) * int64(b.raw.BytesPerSector)
}

// BytesPerCluster returns the size in bytes of one data cluster.
func (b *Block) BytesPerCluster() uint {
	return uint(b.raw.SectorsPerCluster) * uint(b.raw.BytesPerSector)
}

// FirstDataOffset returns the byte offset where cluster 2 begins.
func (b *Block) FirstDataOffset() int64 {
	return int64(b.firstDataSector) * int64(b.raw.BytesPerSector)
}

func (b *Block) FSInfoPresent() bool {
	return b.fsInfo != nil
}

func (b *Block) FSFree() uint32 {
	if b.fsInfo == nil {
		return 0
	}
	return b.fsInfo.FreeCount
}

func (b *Block) SetFSFree(v uint32) {
	if b.fsInfo != nil {
		b.fsInfo.FreeCount = v
	}
}

func (b *Block) FSNext() uint32 {
	if b.fsInfo == nil {
		return 0xFFFFFFFF
	}
	return b.fsInfo.NextFree
}

func (b *Block) SetFSNext(v uint32) {
	if b.fsInfo != nil {
		b.fsInfo.NextFree = v
	}
}

func (b *Block) SetCounts(numFree, numBad uint) {
	b.numFree = uint32(numFree)
	b.numBad = uint32(numBad)
}

// fsInfoWriter adapts a Block and its backing stream to fat.FSInfoWriter,
// whose contract takes no arguments since the fat package never holds a
// stream handle of its own.
type fsInfoWriter struct {
	block  *Block
	stream io.WriteSeeker
}

// FSInfoWriter returns a fat.FSInfoWriter that persists b's FSInfo sector to
// stream, for wiring into fat.Options.FSInfo.
func (b *Block) FSInfoWriter(stream io.WriteSeeker) fat.FSInfoWriter {
	return &fsInfoWriter{block: b, stream: stream}
}

func (w *fsInfoWriter) WriteFSInfo() error {
	if w.block.fsInfo == nil {
		return nil
	}
	return w.block.fsInfo.WriteTo(w.stream)
}
