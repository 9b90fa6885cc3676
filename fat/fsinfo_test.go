package fat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fattest"
)

func TestReconcileFSInfo_NotPresentIsNoop(t *testing.T) {
	boot, disk := fattest.NewFAT16Volume(t, 8, 1, 0xF8, false, nil)
	d := loadDescriptor(t, boot, disk, fat.Options{})

	result, _ := d.Scan()
	status, err := d.ReconcileFSInfo(result)
	require.NoError(t, err)
	assert.Equal(t, fat.StatusOK, status)
}

func TestReconcileFSInfo_FixesMismatchedFreeCount(t *testing.T) {
	entries := map[uint32]uint32{2: uint32(fat.ClusterEOF)}
	boot, disk := fattest.NewFAT32Volume(t, 8, 1, 0xF8, false, entries)
	boot.Free = 999 // deliberately wrong

	oracle := &fat.ScriptedOracle{Answers: []bool{true}}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle})

	result, _ := d.Scan()
	status, err := d.ReconcileFSInfo(result)
	require.NoError(t, err)
	assert.True(t, status.Has(fat.StatusFATMOD))
	assert.EqualValues(t, result.NumFree, boot.FSFree())
}

func TestReconcileFSInfo_InvalidNextHintIsReset(t *testing.T) {
	boot, disk := fattest.NewFAT32Volume(t, 8, 1, 0xF8, false, nil)
	boot.Next = 12345 // out of range

	oracle := &fat.ScriptedOracle{Answers: []bool{true, true}}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle})

	result, _ := d.Scan()
	status, err := d.ReconcileFSInfo(result)
	require.NoError(t, err)
	assert.True(t, status.Has(fat.StatusFATMOD))
	assert.Equal(t, uint32(fat.ClusterFirst), boot.FSNext())
}
