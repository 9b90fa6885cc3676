package fat

import "github.com/tinyfat/msdosfsck/fserr"

// CheckChain walks the cluster chain starting at head, as referenced by a
// directory entry, validating each link and detecting cross-links (two
// chains sharing a cluster) and cycles. It clears the head bitmap bit for
// every cluster it visits, since each is now explained by a known chain;
// whatever remains set in the head bitmap after every directory entry has
// been checked is a lost chain for LostChainSweep to find.
//
// On a cross-link, the chain is truncated at the crossing point (the
// predecessor's entry is rewritten to ClusterEOF) once the oracle approves,
// mirroring the original checker's "Cluster %d crossed a chain" repair.
func (d *Descriptor) CheckChain(head ClusterID) (Status, uint, error) {
	status := StatusOK
	numClusters := d.boot.NumClusters()

	if !IsValidCluster(head, numClusters) {
		d.opts.Diag.Err("start cluster %d out of range", head)
		return StatusError, 0, fserr.ErrInvalidCluster
	}

	var length uint
	cur := head
	var prev ClusterID

	for {
		if d.used.TestAndSet(uint(cur)) {
			d.opts.Diag.Warn("cluster %d crossed a chain at %d with %d", head, prev, cur)
			status |= StatusError
			if d.opts.Oracle.Ask(true, "truncate") {
				if prev != 0 {
					if s, err := d.SetNext(prev, ClusterEOF); err == nil {
						status |= s | StatusFATMOD
						length++
					}
				}
			}
			return status, length, nil
		}

		d.head.TestAndClear(uint(cur))
		length++

		next, err := d.GetNext(cur)
		if err != nil {
			status |= StatusError
			return status, length, err
		}

		if IsEndOfChain(next) {
			break
		}
		if !IsValidCluster(next, numClusters) {
			d.opts.Diag.Warn("cluster %d continues with out of range cluster number %d", cur, next)
			status |= StatusError
			if d.opts.Oracle.Ask(true, "truncate") {
				if s, err := d.SetNext(cur, ClusterEOF); err == nil {
					status |= s | StatusFATMOD
				}
			}
			break
		}

		prev = cur
		cur = next
	}

	return status, length, nil
}
