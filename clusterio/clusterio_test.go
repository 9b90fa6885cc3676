package clusterio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/clusterio"
	"github.com/tinyfat/msdosfsck/fattest"
)

func TestReadWriteCluster_RoundTrip(t *testing.T) {
	disk := fattest.NewMemDisk(t, make([]byte, 4096))
	io := clusterio.New(disk, 512, 512, 2, 8)

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, io.WriteCluster(3, data))

	got, err := io.ReadCluster(3)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadCluster_OutOfBoundsErrors(t *testing.T) {
	disk := fattest.NewMemDisk(t, make([]byte, 4096))
	io := clusterio.New(disk, 512, 512, 2, 8)

	_, err := io.ReadCluster(1)
	require.Error(t, err)
	_, err = io.ReadCluster(100)
	require.Error(t, err)
}
