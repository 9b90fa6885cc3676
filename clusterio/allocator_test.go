package clusterio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/clusterio"
	"github.com/tinyfat/msdosfsck/fat"
)

func TestAllocator_SkipsOccupiedClusters(t *testing.T) {
	occupied := map[fat.ClusterID]bool{2: true}
	alloc := clusterio.NewAllocator(2, 8, func(cl fat.ClusterID) bool {
		return !occupied[cl]
	})

	cl, err := alloc.AllocateCluster()
	require.NoError(t, err)
	assert.Equal(t, fat.ClusterID(3), cl)
}

func TestAllocator_ExhaustionReturnsError(t *testing.T) {
	alloc := clusterio.NewAllocator(2, 2, func(cl fat.ClusterID) bool { return true })

	_, err := alloc.AllocateCluster()
	require.NoError(t, err)
	_, err = alloc.AllocateCluster()
	require.NoError(t, err)
	_, err = alloc.AllocateCluster()
	require.Error(t, err)
}

func TestAllocator_FreeClusterAllowsReuse(t *testing.T) {
	alloc := clusterio.NewAllocator(2, 1, func(cl fat.ClusterID) bool { return true })

	cl, err := alloc.AllocateCluster()
	require.NoError(t, err)
	require.NoError(t, alloc.FreeCluster(cl))

	cl2, err := alloc.AllocateCluster()
	require.NoError(t, err)
	assert.Equal(t, cl, cl2)
}
