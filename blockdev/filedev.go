package blockdev

import (
	"fmt"
	"os"
)

// OpenFile opens pathName (an existing image file or block device) and
// returns a Device addressing it, with LBA 0 at byte offset base within
// the file. Grounded on github.com/diskfs/go-diskfs/backend/file's
// OpenFromPath: plain os.OpenFile, no special flags beyond read/write.
func OpenFile(pathName string, base int64, readOnly bool) (*Device, func() error, error) {
	if pathName == "" {
		return nil, nil, fmt.Errorf("blockdev: path must not be empty")
	}
	flag := os.O_RDONLY
	if !readOnly {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(pathName, flag, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("blockdev: open %s: %w", pathName, err)
	}
	return New(f, base), f.Close, nil
}

// CreateFile creates a new image file of the given byte size and
// returns a Device addressing it. Grounded on
// github.com/diskfs/go-diskfs/backend/file's CreateFromPath.
func CreateFile(pathName string, size int64) (*Device, func() error, error) {
	if pathName == "" {
		return nil, nil, fmt.Errorf("blockdev: path must not be empty")
	}
	if size <= 0 {
		return nil, nil, fmt.Errorf("blockdev: size must be positive, got %d", size)
	}
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return nil, nil, fmt.Errorf("blockdev: create %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("blockdev: truncate %s to %d: %w", pathName, size, err)
	}
	return New(f, 0), f.Close, nil
}
