package fat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fattest"
)

func TestScan_CountsFreeUsedBad(t *testing.T) {
	entries := map[uint32]uint32{
		2: 3, 3: uint32(fat.ClusterEOF), // one 2-cluster chain
		4: uint32(fat.ClusterBad), // one bad cluster
		// clusters 5..9 free by default
	}
	boot, disk := fattest.NewFAT16Volume(t, 8, 1, 0xF8, false, entries)

	d := loadDescriptor(t, boot, disk, fat.Options{})
	result, status := d.Scan()

	assert.Equal(t, fat.StatusOK, status)
	assert.EqualValues(t, 1, result.NumBad)
	assert.EqualValues(t, 2, result.NumUsed)
	assert.EqualValues(t, 5, result.NumFree)
	assert.EqualValues(t, 1, boot.NumBadSeen)
	assert.EqualValues(t, 5, boot.NumFreeSeen)
}

func TestScan_OutOfRangeNextAsksOracleAndClears(t *testing.T) {
	entries := map[uint32]uint32{2: 500} // way out of range
	boot, disk := fattest.NewFAT16Volume(t, 8, 1, 0xF8, false, entries)

	oracle := &fat.ScriptedOracle{Answers: []bool{true}}
	diag := &fattest.RecordingDiag{}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle, Diag: diag})

	_, status := d.Scan()
	require.True(t, status.Has(fat.StatusFATMOD))
	assert.Len(t, diag.Warnings, 1)

	next, err := d.GetNext(2)
	require.NoError(t, err)
	assert.Equal(t, fat.ClusterEOF, next)
}
