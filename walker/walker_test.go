package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyfat/msdosfsck/clusterio"
	"github.com/tinyfat/msdosfsck/dirent"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fattest"
	"github.com/tinyfat/msdosfsck/walker"
)

// fakeEngine treats every chain as a single cluster ending in EOF, and
// records which clusters were checked.
type fakeEngine struct {
	checked []fat.ClusterID
}

func (f *fakeEngine) GetNext(cl fat.ClusterID) (fat.ClusterID, error) {
	return fat.ClusterEOF, nil
}

func (f *fakeEngine) CheckChain(head fat.ClusterID) (fat.Status, uint, error) {
	f.checked = append(f.checked, head)
	return fat.StatusOK, 1, nil
}

func buildDirEntry(name string, attrs uint8, cluster uint32) []byte {
	buf := make([]byte, dirent.EntrySize)
	base := name
	for i := 0; i < 8; i++ {
		if i < len(base) {
			buf[i] = base[i]
		} else {
			buf[i] = ' '
		}
	}
	for i := 8; i < 11; i++ {
		buf[i] = ' '
	}
	buf[11] = attrs
	buf[20] = byte(cluster >> 16)
	buf[21] = byte(cluster >> 24)
	buf[26] = byte(cluster)
	buf[27] = byte(cluster >> 8)
	return buf
}

func TestWalkChain_RecursesIntoSubdirectories(t *testing.T) {
	bytesPerCluster := uint(512)
	disk := fattest.NewMemDisk(t, make([]byte, 8*bytesPerCluster))
	io := clusterio.New(disk, 0, bytesPerCluster, 2, 6)

	// Cluster 2 (root): one subdirectory entry pointing at cluster 3.
	rootCluster, err := io.ReadCluster(2)
	require.NoError(t, err)
	copy(rootCluster, buildDirEntry("SUBDIR", dirent.AttrDirectory, 3))
	require.NoError(t, io.WriteCluster(2, rootCluster))

	// Cluster 3 (SUBDIR): one file entry pointing at cluster 4.
	subCluster, err := io.ReadCluster(3)
	require.NoError(t, err)
	copy(subCluster, buildDirEntry("FILE", 0, 4))
	require.NoError(t, io.WriteCluster(3, subCluster))

	engine := &fakeEngine{}
	w := walker.New(io, engine)

	status, err := w.WalkChain(2, true)
	require.NoError(t, err)
	assert.Equal(t, fat.StatusOK, status)

	assert.Contains(t, engine.checked, fat.ClusterID(2))
	assert.Contains(t, engine.checked, fat.ClusterID(3))
	assert.Contains(t, engine.checked, fat.ClusterID(4))
}

func TestWalkRoot_RecursesFromFixedRootEntries(t *testing.T) {
	bytesPerCluster := uint(512)
	disk := fattest.NewMemDisk(t, make([]byte, 8*bytesPerCluster))
	io := clusterio.New(disk, 0, bytesPerCluster, 2, 6)

	fileCluster, err := io.ReadCluster(3)
	require.NoError(t, err)
	copy(fileCluster, buildDirEntry("FILE", 0, 4))
	require.NoError(t, io.WriteCluster(3, fileCluster))

	engine := &fakeEngine{}
	w := walker.New(io, engine)

	rootEntries, err := dirent.DecodeAll(buildDirEntry("SUBDIR", dirent.AttrDirectory, 3))
	require.NoError(t, err)

	status, err := w.WalkRoot(rootEntries)
	require.NoError(t, err)
	assert.Equal(t, fat.StatusOK, status)
	assert.Contains(t, engine.checked, fat.ClusterID(3))
	assert.Contains(t, engine.checked, fat.ClusterID(4))
}
