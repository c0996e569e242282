//go:build !linux

package blockdev

import (
	"fmt"
	"os"
)

// DeviceSize returns the size in bytes of the file at pathName. Raw
// block device sizing via ioctl is only implemented for linux; on other
// platforms this falls back to os.Stat, which is accurate for regular
// image files (the common case for cmd/mkuxfs).
func DeviceSize(pathName string) (int64, error) {
	info, err := os.Stat(pathName)
	if err != nil {
		return 0, fmt.Errorf("blockdev: stat %s: %w", pathName, err)
	}
	return info.Size(), nil
}
