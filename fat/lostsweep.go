package fat

// LostChainSweep walks whatever bits remain set in the head bitmap after
// every directory-referenced chain has been checked: each one names a chain
// no directory entry points to. For each, it reports the find, offers to
// reconnect it (via Reconnector, e.g. into a rescue directory) and falls
// back to offering to free it outright. It skips whole empty words at a
// time, the way the original checker's checklost() does, since on a mostly-
// consistent volume almost every word is zero by this point.
func (d *Descriptor) LostChainSweep() (Status, uint, error) {
	status := StatusOK
	var numLost uint
	numClusters := d.boot.NumClusters()
	limit := uint(ClusterFirst) + numClusters

	for i := uint(ClusterFirst); i < limit; {
		if d.head.WordIsEmpty(i) {
			i = nextWordStart(i)
			continue
		}
		if !d.head.Test(i) {
			i++
			continue
		}

		s, length, err := d.CheckChain(ClusterID(i))
		if err != nil {
			status |= StatusError
			i++
			continue
		}
		status |= s
		numLost++
		d.opts.Diag.Warn("lost cluster chain at cluster %d\n%d cluster(s) lost", i, length)

		if d.opts.Reconnect != nil && d.opts.Oracle.Ask(true, "reconnect") {
			if rs, rerr := d.opts.Reconnect.Reconnect(ClusterID(i), length); rerr == nil {
				status |= rs
				i++
				continue
			}
		}
		if d.opts.Oracle.Ask(false, "clear") {
			cs, _ := d.ClearChain(ClusterID(i))
			status |= cs | StatusFATMOD
		}
		i++
	}

	d.opts.Diag.FinishLostFound()
	return status, numLost, nil
}

// nextWordStart returns the index of the first bit in the word after the one
// containing i.
func nextWordStart(i uint) uint {
	return (i/wordBits + 1) * wordBits
}

// ReconcileFSInfo compares the FAT32 FSInfo free-cluster count and
// next-free hint against what Scan actually found, correcting them (with
// the oracle's approval) when they disagree. It's a no-op on FAT12/FAT16,
// which have no FSInfo sector.
func (d *Descriptor) ReconcileFSInfo(result ScanResult) (Status, error) {
	if !d.boot.FSInfoPresent() {
		return StatusOK, nil
	}

	status := StatusOK
	if uint64(d.boot.FSFree()) != uint64(result.NumFree) {
		d.opts.Diag.Warn("free cluster count in FSInfo block (%d) does not match free count (%d)",
			d.boot.FSFree(), result.NumFree)
		if d.opts.Oracle.Ask(true, "fix") {
			d.boot.SetFSFree(uint32(result.NumFree))
			status |= StatusFATMOD
		} else {
			status |= StatusError
		}
	}

	next := d.boot.FSNext()
	if next != 0xFFFFFFFF && !IsValidCluster(ClusterID(next), d.boot.NumClusters()) {
		d.opts.Diag.Warn("invalid next free cluster hint %d in FSInfo block", next)
		if d.opts.Oracle.Ask(true, "fix") {
			d.boot.SetFSNext(uint32(ClusterFirst))
			status |= StatusFATMOD
		} else {
			status |= StatusError
		}
	}

	if status.Has(StatusFATMOD) && d.opts.FSInfo != nil {
		if err := d.opts.FSInfo.WriteFSInfo(); err != nil {
			return status | StatusError, err
		}
	}
	return status, nil
}
