//go:build linux

package blockdev

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DeviceSize returns the size in bytes of the block device or regular
// file at pathName. For a regular file this is just os.Stat's size; for
// a raw block device (where Stat's size is 0) it issues the BLKGETSIZE64
// ioctl, grounded on the same pattern diskfs_darwin.go/disk_unix.go use
// for DKIOCGETBLOCKCOUNT/BLKRRPART on their respective platforms.
func DeviceSize(pathName string) (int64, error) {
	info, err := os.Stat(pathName)
	if err != nil {
		return 0, fmt.Errorf("blockdev: stat %s: %w", pathName, err)
	}
	if info.Mode()&os.ModeDevice == 0 {
		return info.Size(), nil
	}
	f, err := os.Open(pathName)
	if err != nil {
		return 0, fmt.Errorf("blockdev: open %s: %w", pathName, err)
	}
	defer f.Close()

	size, err := unix.IoctlGetInt(int(f.Fd()), unix.BLKGETSIZE64)
	if err != nil {
		return 0, fmt.Errorf("blockdev: BLKGETSIZE64 %s: %w", pathName, err)
	}
	return int64(size), nil
}
