//go:build !unix

package fat

import "os"

// FileDisk adapts an *os.File to Disk. On non-unix platforms it does not
// implement MappableDisk, so Load always falls back to a heap-allocated
// copy that must be written back explicitly via Descriptor.WriteBack.
type FileDisk struct {
	*os.File
}
