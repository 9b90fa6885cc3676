package fat

// ScanResult summarizes a single pass over every entry in the table.
type ScanResult struct {
	NumFree uint
	NumBad  uint
	NumUsed uint
}

// Scan walks every entry in the table once, classifying each cluster. The
// head bitmap starts all-ones (every cluster a candidate chain head) and
// Scan clears a bit wherever a cluster is disqualified: a free or bad
// cluster can't be a head itself, and a cluster named as another cluster's
// successor has a predecessor and so isn't a head either. A chain
// terminator's head bit is left untouched. It does not itself detect
// cross-links or cycles; CheckChain does that on a second pass driven by
// directory contents, and LostChainSweep on whatever head bits CheckChain
// never cleared.
func (d *Descriptor) Scan() (ScanResult, Status) {
	var result ScanResult
	status := StatusOK
	numClusters := d.boot.NumClusters()

	for i := uint(ClusterFirst); i < uint(ClusterFirst)+numClusters; i++ {
		cl := ClusterID(i)
		next, ok := decodeEntry(d.buf, d.width, cl)
		if !ok {
			d.opts.Diag.Fatal("corrupt FAT: unrecognized entry width")
			return result, StatusFatal
		}

		switch {
		case next == ClusterFree:
			result.NumFree++
			d.head.TestAndClear(i)

		case next == ClusterBad:
			result.NumBad++
			d.used.Set(i)
			d.head.TestAndClear(i)

		case next < ClusterRsrvd && next >= ClusterFirst && uint(next) < uint(ClusterFirst)+numClusters:
			result.NumUsed++
			d.head.TestAndClear(uint(next))

		case IsEndOfChain(next):
			result.NumUsed++

		default:
			d.opts.Diag.Warn("cluster %d continues with out of range cluster number %d", i, next)
			if d.opts.Oracle.Ask(true, "clear") {
				if s, err := d.SetNext(cl, ClusterEOF); err == nil {
					status |= s | StatusFATMOD
				}
			} else {
				status |= StatusError
			}
		}
	}

	d.boot.SetCounts(result.NumFree, result.NumBad)
	return result, status
}
