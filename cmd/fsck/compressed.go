package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"

	"github.com/tinyfat/msdosfsck/utilities/compression"
)

// memDisk adapts a bytesextra.ReadWriteSeeker over an in-memory buffer into
// the random-access fat.Disk/clusterio.Disk contracts, so a --gzip image can
// be checked (and repaired) entirely in memory before being re-compressed.
type memDisk struct {
	data   []byte
	stream io.ReadWriteSeeker
}

func newMemDisk(data []byte) *memDisk {
	return &memDisk{data: data, stream: bytesextra.NewReadWriteSeeker(data)}
}

func (d *memDisk) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(d.data) {
		return 0, fmt.Errorf("read out of bounds: offset %d length %d size %d", off, len(p), len(d.data))
	}
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(d.stream, p)
}

func (d *memDisk) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off)+len(p) > len(d.data) {
		return 0, fmt.Errorf("write out of bounds: offset %d length %d size %d", off, len(p), len(d.data))
	}
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return d.stream.Write(p)
}

// loadCompressedImage decompresses an RLE8+gzip image from path entirely
// into memory, for --gzip.
func loadCompressedImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return compression.DecompressImageToBytes(f)
}

// writeCompressedImage re-compresses data and overwrites path with it, the
// way --gzip --repair persists changes made to the in-memory copy.
func writeCompressedImage(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = compression.CompressImage(bytes.NewReader(data), f)
	return err
}
