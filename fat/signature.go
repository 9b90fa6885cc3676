package fat

import "github.com/tinyfat/msdosfsck/fserr"

// dirtyBit is the bit within FAT entry 1 that Windows clears to mark the
// volume as not cleanly unmounted ("dirty"). It differs by width; FAT12 has
// no room for it and is never considered dirty.
func dirtyBit(w Width) uint32 {
	switch w {
	case Width16:
		return 0x8000
	case Width32:
		return 0x08000000
	default:
		return 0
	}
}

// CheckSignature validates that FAT entries 0 and 1 carry the expected
// media-descriptor signature, and reports whether the OSR2 "dirty" bit is
// clear (i.e. the volume was not cleanly unmounted). It mirrors the
// signature checks in readfat(): entry 0's low byte must equal the boot
// block's media descriptor with the rest of the entry set to all ones;
// entry 1 must be all ones except, optionally, the dirty bit.
//
// Any other byte pattern is an odd signature: it's reported and the oracle
// is asked whether to correct it. On yes, both entries are rewritten to the
// canonical clean signature and the FATMOD status is set so the caller
// writes the fix back; on no, the odd signature stands and ERROR is set.
func (d *Descriptor) CheckSignature() (ok bool, dirty bool, status Status) {
	e0, valid0 := decodeEntry(d.buf, d.width, 0)
	e1, valid1 := decodeEntry(d.buf, d.width, 1)
	if !valid0 || !valid1 {
		return false, false, StatusError
	}

	mask := d.width.Mask()
	wantE0 := uint32(0xFFFFFF00|uint32(d.boot.Media())) & mask
	full := mask
	dbit := dirtyBit(d.width)

	if uint32(e0)&mask == wantE0 {
		masked1 := uint32(e1) & mask
		if masked1 == full {
			return true, false, StatusOK
		}
		if dbit != 0 && masked1 == full&^dbit {
			return true, true, StatusDirty
		}
	}

	d.opts.Diag.Warn("FAT starts with odd byte sequence (%#x %#x)", e0, e1)
	if !d.opts.Oracle.Ask(true, "Correct") {
		return false, false, StatusError
	}
	if d.opts.ReadOnly {
		d.opts.Diag.Warn(" (NO WRITE)")
		return false, false, StatusFatal
	}

	encodeEntry(d.buf, d.width, 0, ClusterID(0xFFFFFF00|uint32(d.boot.Media())))
	encodeEntry(d.buf, d.width, 1, ClusterEOF)
	return true, false, StatusFATMOD
}

// MarkClean sets entry 1's dirty bit, the way a clean unmount or a
// successful repair run does. Entry 1 sits below ClusterFirst and so isn't
// reachable through SetNext's data-cluster range check; this writes it
// directly, the same way CheckSignature reads entries 0 and 1 directly.
func (d *Descriptor) MarkClean() (Status, error) {
	dbit := dirtyBit(d.width)
	if dbit == 0 {
		return StatusOK, nil
	}

	if d.opts.ReadOnly {
		d.opts.Diag.Warn(" (NO WRITE)")
		return StatusFatal, fserr.ErrReadOnly
	}

	e1, _ := decodeEntry(d.buf, d.width, 1)
	clean := ClusterID(uint32(e1) | dbit | ^d.width.Mask())
	if !encodeEntry(d.buf, d.width, 1, clean) {
		return StatusFatal, fserr.ErrBadClusterMask
	}
	return StatusFATMOD, nil
}
