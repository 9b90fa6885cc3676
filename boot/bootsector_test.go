package boot_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/boot"
	"github.com/tinyfat/msdosfsck/fat"
)

type testBPB struct {
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

func buildFAT16Image(t *testing.T) []byte {
	bpb := testBPB{
		BytesPerSector:    512,
		SectorsPerCluster: 4,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntryCount:    512,
		TotalSectors16:    0,
		Media:             0xF8,
		SectorsPerFAT16:   32,
		TotalSectors32:    65536,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &bpb))
	return buf.Bytes()
}

func TestParse_FAT16Geometry(t *testing.T) {
	raw := buildFAT16Image(t)
	b, err := boot.Parse(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Equal(t, fat.Width16, b.ClusterWidth())
	require.EqualValues(t, 32, b.FATSectors())
	require.EqualValues(t, 512, b.BytesPerSector())
	require.EqualValues(t, 1, b.ReservedSectors())
	require.EqualValues(t, 2, b.NumFATs())
	require.EqualValues(t, 0xF8, b.Media())
	require.False(t, b.FSInfoPresent())
}

type testFAT32Extra struct {
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

type testFSInfo struct {
	LeadSignature   uint32
	Reserved1       [480]byte
	StructSignature uint32
	FreeCount       uint32
	NextFree        uint32
	Reserved2       [12]byte
	TrailSignature  uint32
}

func buildFAT32Image(t *testing.T, fsInfoSector uint16) []byte {
	bpb := testBPB{
		BytesPerSector:    512,
		SectorsPerCluster: 4,
		ReservedSectors:   32,
		NumFATs:           2,
		RootEntryCount:    0,
		TotalSectors16:    0,
		Media:             0xF8,
		SectorsPerFAT16:   0,
		TotalSectors32:    2000000,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &bpb))

	var sectorsPerFAT32 uint32 = 15000
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &sectorsPerFAT32))

	extra := testFAT32Extra{RootCluster: 2, FSInfoSector: fsInfoSector}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &extra))

	// Pad out the rest of sector 0, then write sectors up to fsInfoSector.
	for uint16(buf.Len()/512) < fsInfoSector {
		buf.Write(make([]byte, 512-buf.Len()%512))
	}
	for buf.Len() < int(fsInfoSector)*512 {
		buf.WriteByte(0)
	}

	info := testFSInfo{
		LeadSignature:   0x41615252,
		StructSignature: 0x61417272,
		FreeCount:       12345,
		NextFree:        2,
		TrailSignature:  0xAA550000,
	}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &info))

	return buf.Bytes()
}

func TestParse_FAT32FSInfoAtNonDefaultSector(t *testing.T) {
	raw := buildFAT32Image(t, 2)
	b, err := boot.Parse(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Equal(t, fat.Width32, b.ClusterWidth())
	require.True(t, b.FSInfoPresent())
	require.EqualValues(t, 12345, b.FSFree())
	require.EqualValues(t, 2, b.FSNext())
	require.Equal(t, fat.ClusterID(2), b.RootCluster())
}

func TestDetermineFATVersion_Thresholds(t *testing.T) {
	require.Equal(t, fat.Width12, boot.DetermineFATVersion(100))
	require.Equal(t, fat.Width16, boot.DetermineFATVersion(5000))
	require.Equal(t, fat.Width32, boot.DetermineFATVersion(70000))
}
