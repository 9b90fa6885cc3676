// Package walker traverses the directory tree, driving fat.CheckChain for
// every file and subdirectory it finds. It knows how to read a chain of
// directory clusters and decode the entries in them; it has no opinion on
// what CheckChain does with the cluster numbers it hands over.
package walker

import (
	"github.com/tinyfat/msdosfsck/clusterio"
	"github.com/tinyfat/msdosfsck/dirent"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/fserr"
)

// Engine is the subset of *fat.Descriptor the walker drives.
type Engine interface {
	GetNext(cl fat.ClusterID) (fat.ClusterID, error)
	CheckChain(head fat.ClusterID) (fat.Status, uint, error)
}

// Walker reads directory contents cluster by cluster and recurses into
// subdirectories, checking every file and subdirectory's chain as it goes.
type Walker struct {
	io     *clusterio.IO
	engine Engine

	visited map[fat.ClusterID]bool
}

// New builds a Walker that reads directory data through io and validates
// chains through engine.
func New(io *clusterio.IO, engine Engine) *Walker {
	return &Walker{io: io, engine: engine, visited: make(map[fat.ClusterID]bool)}
}

// WalkChain validates head's own chain via CheckChain, then - if head names
// a directory - reads its contents and recurses into every entry found,
// skipping the synthetic "." and ".." entries and entries already visited
// (guarding against a directory cycle created by crossed links).
func (w *Walker) WalkChain(head fat.ClusterID, isDirectory bool) (fat.Status, error) {
	status, _, err := w.engine.CheckChain(head)
	if err != nil {
		return status, err
	}
	if !isDirectory {
		return status, nil
	}

	entries, err := w.readDirectory(head)
	if err != nil {
		return status, err
	}

	childStatus, err := w.WalkRoot(entries)
	return status | childStatus, err
}

// WalkRoot recurses into every file and subdirectory named by entries. It's
// named for its one caller that isn't itself recursive: a FAT12/16 root
// directory, which (unlike every other directory) occupies a fixed region
// rather than a cluster chain and so has no head cluster for CheckChain to
// validate.
func (w *Walker) WalkRoot(entries []dirent.Entry) (fat.Status, error) {
	status := fat.StatusOK

	for _, e := range entries {
		if e.IsFree || e.IsDeleted || e.IsLong || e.IsVolumeLabel() {
			continue
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if e.FirstCluster < fat.ClusterFirst {
			continue
		}
		if w.visited[e.FirstCluster] {
			continue
		}
		w.visited[e.FirstCluster] = true

		childStatus, err := w.WalkChain(e.FirstCluster, e.IsDirectory())
		if err != nil {
			return status, err
		}
		status |= childStatus
	}

	return status, nil
}

// readDirectory reads every cluster in the chain starting at head and
// decodes its entries, stopping early at the canonical end-of-directory
// marker.
func (w *Walker) readDirectory(head fat.ClusterID) ([]dirent.Entry, error) {
	var all []dirent.Entry
	cur := head

	for {
		buf, err := w.io.ReadCluster(uint(cur))
		if err != nil {
			return nil, fserr.ErrIOFailed.WrapError(err)
		}

		entries, err := dirent.DecodeAll(buf)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)

		if len(buf)%dirent.EntrySize == 0 &&
			len(entries)*dirent.EntrySize < len(buf) {
			// DecodeAll stopped early at a free-marker entry: the rest of
			// the directory is unused, so there's no need to read further
			// clusters in the chain.
			break
		}

		next, err := w.engine.GetNext(cur)
		if err != nil {
			return nil, err
		}
		if fat.IsEndOfChain(next) {
			break
		}
		cur = next
	}

	return all, nil
}
