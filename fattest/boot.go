package fattest

import "github.com/tinyfat/msdosfsck/fat"

// Boot is a minimal, directly-constructible fat.BootBlock for tests, so fat
// package tests don't need to depend on the boot package's on-disk parser.
type Boot struct {
	Width       fat.Width
	Clusters    uint
	SectorsPerFAT uint
	SectorSize  uint
	Reserved    uint
	FATCount    uint
	MediaByte   byte

	HasFSInfo bool
	Free      uint32
	Next      uint32

	NumFreeSeen uint
	NumBadSeen  uint
}

func (b *Boot) ClusterWidth() fat.Width   { return b.Width }
func (b *Boot) NumClusters() uint         { return b.Clusters }
func (b *Boot) FATSectors() uint          { return b.SectorsPerFAT }
func (b *Boot) BytesPerSector() uint      { return b.SectorSize }
func (b *Boot) ReservedSectors() uint     { return b.Reserved }
func (b *Boot) NumFATs() uint             { return b.FATCount }
func (b *Boot) Media() byte               { return b.MediaByte }
func (b *Boot) FSInfoPresent() bool       { return b.HasFSInfo }
func (b *Boot) FSFree() uint32            { return b.Free }
func (b *Boot) SetFSFree(v uint32)        { b.Free = v }
func (b *Boot) FSNext() uint32            { return b.Next }
func (b *Boot) SetFSNext(v uint32)        { b.Next = v }

func (b *Boot) SetCounts(numFree, numBad uint) {
	b.NumFreeSeen = numFree
	b.NumBadSeen = numBad
}
