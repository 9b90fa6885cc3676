// Package clusterio provides cluster-granular reads and writes over a disk
// image, plus a first-fit free-cluster allocator (see Allocator). It knows
// nothing about FAT entries or chain structure; see the fat package for
// that.
package clusterio

import (
	"github.com/tinyfat/msdosfsck/fserr"
)

// Disk is the minimal random-access contract clusterio needs.
type Disk interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

// IO reads and writes whole clusters of a volume given its geometry.
type IO struct {
	disk            Disk
	firstDataOffset int64
	bytesPerCluster uint
	firstCluster    uint
	numClusters     uint
}

// New builds an IO. firstDataOffset is the byte offset of cluster
// firstCluster (conventionally 2) on disk.
func New(disk Disk, firstDataOffset int64, bytesPerCluster uint, firstCluster, numClusters uint) *IO {
	return &IO{
		disk:            disk,
		firstDataOffset: firstDataOffset,
		bytesPerCluster: bytesPerCluster,
		firstCluster:    firstCluster,
		numClusters:     numClusters,
	}
}

func (io *IO) checkBounds(cluster uint, numBufClusters uint) error {
	if cluster < io.firstCluster || cluster+numBufClusters > io.firstCluster+io.numClusters {
		return fserr.ErrInvalidCluster.WithMessage("cluster range out of bounds")
	}
	return nil
}

func (io *IO) offsetOf(cluster uint) int64 {
	return io.firstDataOffset + int64(cluster-io.firstCluster)*int64(io.bytesPerCluster)
}

// ReadCluster reads exactly one cluster's worth of bytes starting at
// cluster.
func (io *IO) ReadCluster(cluster uint) ([]byte, error) {
	if err := io.checkBounds(cluster, 1); err != nil {
		return nil, err
	}
	buf := make([]byte, io.bytesPerCluster)
	if _, err := io.disk.ReadAt(buf, io.offsetOf(cluster)); err != nil {
		return nil, fserr.ErrIOFailed.WrapError(err)
	}
	return buf, nil
}

// WriteCluster writes data, which must be exactly one cluster long, to
// cluster.
func (io *IO) WriteCluster(cluster uint, data []byte) error {
	if uint(len(data)) != io.bytesPerCluster {
		return fserr.ErrInvalidArgument.WithMessage("data is not exactly one cluster long")
	}
	if err := io.checkBounds(cluster, 1); err != nil {
		return err
	}
	if _, err := io.disk.WriteAt(data, io.offsetOf(cluster)); err != nil {
		return fserr.ErrIOFailed.WrapError(err)
	}
	return nil
}

// BytesPerCluster returns the volume's cluster size in bytes.
func (io *IO) BytesPerCluster() uint {
	return io.bytesPerCluster
}
