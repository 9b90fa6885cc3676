package clusterio

import (
	"github.com/boljen/go-bitmap"

	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fserr"
)

// Allocator hands out free clusters first-fit, tracking allocations in a
// bitmap seeded from a caller-supplied "is this cluster free" predicate.
// No other package in this module constructs one; the rescue package
// writes into a region its caller supplies instead.
type Allocator struct {
	bm           bitmap.Bitmap
	firstCluster uint
	totalUnits   uint
}

// NewAllocator builds an Allocator covering [firstCluster, firstCluster+
// totalUnits). isFree reports whether a given cluster started out free, per
// the FAT scan; the allocator never hands out a cluster isFree says is
// occupied.
func NewAllocator(firstCluster, totalUnits uint, isFree func(cluster fat.ClusterID) bool) *Allocator {
	bm := bitmap.New(int(totalUnits))
	for i := uint(0); i < totalUnits; i++ {
		if !isFree(fat.ClusterID(firstCluster + i)) {
			bm.Set(int(i), true)
		}
	}
	return &Allocator{bm: bm, firstCluster: firstCluster, totalUnits: totalUnits}
}

// AllocateCluster returns the first free cluster it finds and marks it
// allocated.
func (a *Allocator) AllocateCluster() (fat.ClusterID, error) {
	for i := 0; i < int(a.totalUnits); i++ {
		if !a.bm.Get(i) {
			a.bm.Set(i, true)
			return fat.ClusterID(a.firstCluster + uint(i)), nil
		}
	}
	return fat.ClusterDead, fserr.ErrNoSpace
}

// FreeCluster returns a previously allocated cluster to the pool.
func (a *Allocator) FreeCluster(cl fat.ClusterID) error {
	idx := int(uint(cl) - a.firstCluster)
	if idx < 0 || idx >= int(a.totalUnits) {
		return fserr.ErrInvalidCluster
	}
	a.bm.Set(idx, false)
	return nil
}
