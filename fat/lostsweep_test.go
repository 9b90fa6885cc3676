package fat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fattest"
)

func TestLostChainSweep_ReconnectsUnreferencedChain(t *testing.T) {
	// Cluster 2 is referenced by a directory entry (checked below); clusters
	// 6->7->EOF form a chain nothing points to.
	entries := map[uint32]uint32{
		2: uint32(fat.ClusterEOF),
		6: 7, 7: uint32(fat.ClusterEOF),
	}
	boot, disk := fattest.NewFAT16Volume(t, 8, 1, 0xF8, false, entries)

	reconnector := &fattest.StubReconnector{}
	oracle := &fat.ScriptedOracle{Answers: []bool{true}}
	diag := &fattest.RecordingDiag{}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle, Diag: diag, Reconnect: reconnector})

	d.Scan()
	_, _, err := d.CheckChain(2)
	require.NoError(t, err)

	_, numLost, err := d.LostChainSweep()
	require.NoError(t, err)
	assert.EqualValues(t, 1, numLost)
	require.Len(t, reconnector.Reconnected, 1)
	assert.Equal(t, fat.ClusterID(6), reconnector.Reconnected[0].Head)
	assert.EqualValues(t, 2, reconnector.Reconnected[0].Length)
	assert.True(t, diag.Finished)
}

func TestLostChainSweep_NonAscendingHeadDetectedCorrectly(t *testing.T) {
	// Lost chain 9->6->7->EOF: its head is cluster 9, numerically the
	// *highest* cluster in the chain, not the lowest. Nothing in the FAT
	// names 9 as a successor, so it alone should keep its head bit after
	// Scan; 6 and 7 are disqualified because 9 and 6 respectively name them
	// as a successor.
	entries := map[uint32]uint32{
		9: 6, 6: 7, 7: uint32(fat.ClusterEOF),
	}
	boot, disk := fattest.NewFAT16Volume(t, 10, 1, 0xF8, false, entries)

	oracle := &fat.ScriptedOracle{Answers: []bool{false}}
	diag := &fattest.RecordingDiag{}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle, Diag: diag})

	d.Scan()
	assert.False(t, d.Head().Test(6))
	assert.False(t, d.Head().Test(7))
	assert.True(t, d.Head().Test(9))

	_, numLost, err := d.LostChainSweep()
	require.NoError(t, err)
	assert.EqualValues(t, 1, numLost)
	require.NotEmpty(t, diag.Warnings)
	assert.Contains(t, diag.Warnings[0], "cluster 9\n3 cluster(s) lost")
}

func TestLostChainSweep_ClearsWhenReconnectDeclined(t *testing.T) {
	entries := map[uint32]uint32{6: uint32(fat.ClusterEOF)}
	boot, disk := fattest.NewFAT16Volume(t, 8, 1, 0xF8, false, entries)

	oracle := &fat.ScriptedOracle{Answers: []bool{false, true}}
	reconnector := &fattest.StubReconnector{}
	d := loadDescriptor(t, boot, disk, fat.Options{Oracle: oracle, Reconnect: reconnector})

	d.Scan()
	_, numLost, err := d.LostChainSweep()
	require.NoError(t, err)
	assert.EqualValues(t, 1, numLost)

	next, err := d.GetNext(6)
	require.NoError(t, err)
	assert.Equal(t, fat.ClusterFree, next)
}
