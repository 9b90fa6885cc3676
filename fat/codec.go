package fat

import "encoding/binary"

// decode12 reads the 12-bit entry for cl out of buf. FAT12 entries are
// nibble-packed: even clusters occupy the low 12 bits of a 16-bit
// little-endian word, odd clusters the high 12 bits of that same word.
func decode12(buf []byte, cl ClusterID) ClusterID {
	off := uint(cl) + uint(cl)/2
	word := binary.LittleEndian.Uint16(buf[off : off+2])

	var raw uint32
	if cl&1 == 1 {
		raw = uint32(word) >> 4
	} else {
		raw = uint32(word) & Width12.Mask()
	}
	return signExtend(raw, Width12)
}

// encode12 writes next into the 12-bit slot for cl, preserving the 4 bits
// belonging to the neighboring cluster packed into the same 16-bit word.
func encode12(buf []byte, cl ClusterID, next ClusterID) {
	off := uint(cl) + uint(cl)/2
	raw := uint32(next) & Width12.Mask()

	var word uint16
	if cl&1 == 1 {
		// Odd cluster: we own the high nibble, low nibble belongs to cl-1.
		word = uint16(raw<<4) | uint16(buf[off]&0x0f)
	} else {
		// Even cluster: we own the low 12 bits, high nibble belongs to cl+1.
		word = uint16(raw) | (uint16(buf[off+1]&0xf0) << 8)
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], word)
}

func decode16(buf []byte, cl ClusterID) ClusterID {
	off := uint(cl) * 2
	raw := uint32(binary.LittleEndian.Uint16(buf[off : off+2]))
	return signExtend(raw, Width16)
}

func encode16(buf []byte, cl ClusterID, next ClusterID) {
	off := uint(cl) * 2
	raw := uint32(next) & Width16.Mask()
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(raw))
}

func decode32(buf []byte, cl ClusterID) ClusterID {
	off := uint(cl) * 4
	raw := binary.LittleEndian.Uint32(buf[off : off+4])
	return signExtend(raw&Width32.Mask(), Width32)
}

func encode32(buf []byte, cl ClusterID, next ClusterID) {
	off := uint(cl) * 4
	raw := uint32(next) & Width32.Mask()
	binary.LittleEndian.PutUint32(buf[off:off+4], raw)
}

// signExtend maps a raw masked value into the common sentinel domain: once
// the value reaches this width's ClusterBad value, the high bits are set to
// all 1s so it compares equal to ClusterBad/ClusterEOFS/ClusterEOF
// regardless of which width produced it. Values below that (including the
// width's own reserved value just under ClusterBad) are returned unchanged. This keeps the sentinel comparisons
// in the rest of the engine width-agnostic.
func signExtend(raw uint32, w Width) ClusterID {
	mask := w.Mask()
	if raw >= (uint32(ClusterBad) & mask) {
		raw |= ^mask
	}
	return ClusterID(raw)
}

// decodeEntry dispatches to the width-specific decoder.
func decodeEntry(buf []byte, w Width, cl ClusterID) (ClusterID, bool) {
	switch w {
	case Width12:
		return decode12(buf, cl), true
	case Width16:
		return decode16(buf, cl), true
	case Width32:
		return decode32(buf, cl), true
	default:
		return ClusterDead, false
	}
}

// encodeEntry dispatches to the width-specific encoder.
func encodeEntry(buf []byte, w Width, cl ClusterID, next ClusterID) bool {
	switch w {
	case Width12:
		encode12(buf, cl, next)
	case Width16:
		encode16(buf, cl, next)
	case Width32:
		encode32(buf, cl, next)
	default:
		return false
	}
	return true
}
