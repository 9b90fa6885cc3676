// Command fsck checks (and, if asked, repairs) the allocation table of a
// FAT12/FAT16/FAT32 volume image.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tinyfat/msdosfsck/boot"
	"github.com/tinyfat/msdosfsck/clusterio"
	"github.com/tinyfat/msdosfsck/diag"
	"github.com/tinyfat/msdosfsck/dirent"
	"github.com/tinyfat/msdosfsck/fat"
	"github.com/tinyfat/msdosfsck/report"
	"github.com/tinyfat/msdosfsck/walker"
)

func main() {
	app := &cli.App{
		Name:      "fsck",
		Usage:     "Check and repair a FAT12/FAT16/FAT32 volume image",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "repair", Usage: "write repairs back to the image"},
			&cli.BoolFlag{Name: "yes", Usage: "answer every repair prompt yes, non-interactively"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report what would change without writing anything"},
			&cli.StringFlag{Name: "report", Usage: "write a CSV report of every finding to this path"},
			&cli.BoolFlag{Name: "gzip", Usage: "treat IMAGE as RLE8+gzip compressed, the format utilities/compression produces"},
		},
		Action: runCheck,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fsck: %s", err)
	}
}

// volume bundles the handles runCheck needs regardless of whether the image
// came from a plain file or was unpacked from a compressed one in memory.
type volume struct {
	bootStream   io.ReadSeeker
	disk         fat.Disk
	rootReader   io.ReaderAt
	fsInfoStream io.WriteSeeker
	// finish persists any in-memory changes back to the original path. It's
	// a no-op for a plain file, since writes there already landed on disk.
	finish func() error
	close  func() error
}

// openPlain opens imagePath as an ordinary file, giving the loader a shot at
// mmap-ing the primary FAT directly (see fat.FileDisk).
func openPlain(imagePath string, repair bool) (*volume, error) {
	mode := os.O_RDONLY
	if repair {
		mode = os.O_RDWR
	}
	f, err := os.OpenFile(imagePath, mode, 0)
	if err != nil {
		return nil, err
	}

	disk := fat.FileDisk{File: f}
	return &volume{
		bootStream:   f,
		disk:         disk,
		rootReader:   f,
		fsInfoStream: f,
		finish:       func() error { return nil },
		close:        f.Close,
	}, nil
}

// openCompressed decompresses imagePath (RLE8+gzip, per utilities/compression)
// entirely into memory and operates on the in-memory copy; on a successful
// repair, finish re-compresses it back over the original file.
func openCompressed(imagePath string) (*volume, error) {
	data, err := loadCompressedImage(imagePath)
	if err != nil {
		return nil, err
	}

	disk := newMemDisk(data)
	return &volume{
		bootStream:   bytes.NewReader(data),
		disk:         disk,
		rootReader:   disk,
		fsInfoStream: disk.stream,
		finish:       func() error { return writeCompressedImage(imagePath, data) },
		close:        func() error { return nil },
	}, nil
}

// walkDirectoryTree clears the head-bitmap bit for every cluster reachable
// from the root directory, the way a directory-referenced chain earns a
// clean bill of health before LostChainSweep runs. The root itself is a
// cluster chain on FAT32, but a fixed sector region on FAT12/16, so the two
// cases are read differently before handing entries to the same walker.
func walkDirectoryTree(rootReader io.ReaderAt, disk clusterio.Disk, bb *boot.Block, descriptor *fat.Descriptor) (fat.Status, error) {
	cio := clusterio.New(disk, bb.FirstDataOffset(), bb.BytesPerCluster(), uint(fat.ClusterFirst), bb.NumClusters())
	w := walker.New(cio, descriptor)

	if bb.ClusterWidth() == fat.Width32 {
		return w.WalkChain(bb.RootCluster(), true)
	}

	buf := make([]byte, bb.RootDirSectors()*bb.BytesPerSector())
	if _, err := rootReader.ReadAt(buf, bb.RootDirOffset()); err != nil {
		return fat.StatusFatal, err
	}
	entries, err := dirent.DecodeAll(buf)
	if err != nil {
		return fat.StatusFatal, err
	}
	return w.WalkRoot(entries)
}

func runCheck(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("exactly one image path is required", 2)
	}
	imagePath := c.Args().Get(0)
	repair := c.Bool("repair") && !c.Bool("dry-run")

	var (
		vol *volume
		err error
	)
	if c.Bool("gzip") {
		vol, err = openCompressed(imagePath)
	} else {
		vol, err = openPlain(imagePath, repair)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open %s: %s", imagePath, err), 1)
	}
	defer vol.close()

	bb, err := boot.Parse(vol.bootStream)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to parse boot sector: %s", err), 1)
	}

	rep := &report.Report{}
	sink := diag.New(os.Stdout, rep)

	var oracle fat.Oracle
	if c.Bool("yes") {
		oracle = fat.AutoOracle{}
	} else {
		oracle = fat.InteractiveOracle{In: os.Stdin, Out: os.Stdout}
	}

	descriptor, err := fat.Load(vol.disk, bb, fat.Options{
		ReadOnly: !repair,
		Oracle:   oracle,
		Diag:     sink,
		FSInfo:   bb.FSInfoWriter(vol.fsInfoStream),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load FAT: %s", err), 1)
	}
	defer descriptor.Release()

	ok, dirty, sigStatus := descriptor.CheckSignature()
	if !ok {
		sink.Err("FAT signature is invalid")
	}
	if dirty {
		sink.Warn("volume was not cleanly unmounted, full check forced")
	}

	result, status := descriptor.Scan()
	status |= sigStatus

	walkStatus, err := walkDirectoryTree(vol.rootReader, vol.disk, bb, descriptor)
	if err != nil {
		return cli.Exit(fmt.Sprintf("directory walk failed: %s", err), 1)
	}
	status |= walkStatus

	lostStatus, numLost, err := descriptor.LostChainSweep()
	if err != nil {
		return cli.Exit(fmt.Sprintf("lost chain sweep failed: %s", err), 1)
	}
	status |= lostStatus

	fsStatus, err := descriptor.ReconcileFSInfo(result)
	if err != nil {
		return cli.Exit(fmt.Sprintf("FSInfo reconciliation failed: %s", err), 1)
	}
	status |= fsStatus

	fmt.Printf("%d free, %d used, %d bad, %d lost chain(s) found\n",
		result.NumFree, result.NumUsed, result.NumBad, numLost)

	if repair {
		if !status.Has(fat.StatusFatal) {
			if _, err := descriptor.MarkClean(); err != nil {
				return cli.Exit(fmt.Sprintf("failed to mark volume clean: %s", err), 1)
			}
		}
		if status.Has(fat.StatusFATMOD) {
			if err := descriptor.WriteBack(); err != nil {
				return cli.Exit(fmt.Sprintf("failed to write repairs: %s", err), 1)
			}
			if err := vol.finish(); err != nil {
				return cli.Exit(fmt.Sprintf("failed to persist repairs: %s", err), 1)
			}
			fmt.Println("repairs written")
		}
	}

	if reportPath := c.String("report"); reportPath != "" {
		rf, err := os.Create(reportPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to create report: %s", err), 1)
		}
		defer rf.Close()
		if err := rep.WriteCSV(rf); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write report: %s", err), 1)
		}
	}

	if status.Has(fat.StatusFatal) {
		return cli.Exit("unrecoverable error", 8)
	}
	if status.Has(fat.StatusError) {
		return cli.Exit("uncorrected errors remain", 4)
	}
	return nil
}
