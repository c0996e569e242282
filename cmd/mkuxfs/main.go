// Command mkuxfs creates and formats a uxfs image file, the host-side
// analogue of the original `mkfs`-style tool: given a path and a
// sector count, it lays out a fresh superblock, root directory, and
// free-data bitmap at LBA 0 of a newly created regular file (or an
// existing block device, sized via blockdev.DeviceSize).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	times "gopkg.in/djherbis/times.v1"

	"github.com/blockproto/uxfs/blockdev"
	"github.com/blockproto/uxfs/diag"
	"github.com/blockproto/uxfs/partition"
	"github.com/blockproto/uxfs/sync"
	"github.com/blockproto/uxfs/util"
	"github.com/blockproto/uxfs/uxfs"
)

func main() {
	var (
		sectors    = flag.Uint64("sectors", 4096, "number of 512-byte sectors to allocate for the image")
		device     = flag.Bool("device", false, "treat the path as an existing block device instead of creating a regular file")
		logLevel   = flag.String("log-level", "info", "logrus level: debug, info, warn, error")
		dump       = flag.Bool("dump-superblock", false, "hex-dump the superblock sector after formatting")
		importFrom = flag.String("import", "", "host directory to copy into the freshly formatted image, file by file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image-path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	}
	sink := diag.NewLeveledLogrusSink(logger, logrus.Fields{"image": path})

	if err := run(path, uint32(*sectors), *device, *dump, *importFrom, sink, logger); err != nil {
		logger.Fatalf("mkuxfs: %v", err)
	}
}

func run(path string, sectors uint32, useDevice, dumpSB bool, importFrom string, sink diag.Leveled, logger *logrus.Logger) error {
	if useDevice {
		size, err := blockdev.DeviceSize(path)
		if err != nil {
			return fmt.Errorf("stat device: %w", err)
		}
		if got := uint32(size / blockdev.BlockSize); got < sectors {
			sink.Warnf("device holds %d sectors, requested %d; using the smaller value", got, sectors)
			sectors = got
		}
	} else {
		if fi, err := os.Stat(path); err == nil {
			logImportDiagnostics(path, fi, sink)
			return fmt.Errorf("refusing to overwrite existing file %s", path)
		}
	}

	size := int64(sectors) * blockdev.BlockSize
	var (
		dev     *blockdev.Device
		closeFn func() error
		err     error
	)
	if useDevice {
		dev, closeFn, err = blockdev.OpenFile(path, 0, false)
	} else {
		dev, closeFn, err = blockdev.CreateFile(path, size)
	}
	if err != nil {
		return fmt.Errorf("open backing store: %w", err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			logger.Errorf("mkuxfs: closing %s: %v", path, cerr)
		}
	}()

	fs := uxfs.New(sink)
	p := partition.Partition{Start: 0, SectorCount: sectors}
	if err := fs.Format(dev, p); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	log.Printf("mkuxfs: formatted %s: %d sectors, session %s", path, sectors, fs.SessionID())

	if importFrom != "" {
		if fi, err := os.Stat(importFrom); err == nil {
			logImportDiagnostics(importFrom, fi, sink)
		}
		if err := sync.ImportDir(os.DirFS(importFrom), fs); err != nil {
			return fmt.Errorf("import %s: %w", importFrom, err)
		}
		sink.Printf("imported host directory %s into %s", importFrom, path)
	}

	if dumpSB {
		var sb [blockdev.BlockSize]byte
		if err := dev.ReadBlock(0, &sb); err != nil {
			return fmt.Errorf("read superblock for dump: %w", err)
		}
		fmt.Print(util.DumpByteSlice(sb[:], 16, true, true, false, nil))
	}
	return nil
}

// logImportDiagnostics reports host filesystem timestamps for a path
// that already exists, to help an operator understand what they are
// about to clobber (an existing image path) or pull in (an -import
// source directory) before the tool proceeds.
func logImportDiagnostics(path string, fi os.FileInfo, sink diag.Leveled) {
	ts, err := times.Stat(path)
	if err != nil {
		sink.Warnf("could not read host timestamps for %s: %v", path, err)
		return
	}
	msg := fmt.Sprintf("existing file %s: size=%d mtime=%s ctime=%s", path, fi.Size(), ts.ModTime(), ts.ChangeTime())
	if ts.HasBirthTime() {
		msg += fmt.Sprintf(" btime=%s", ts.BirthTime())
	}
	sink.Warnf("%s", msg)
}
