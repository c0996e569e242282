// Package sync imports a host directory tree into a formatted uxfs
// filesystem, file by file.
package sync

import (
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/blockproto/uxfs/uxfs"
)

// excludedNames are host-filesystem noise skipped during import.
var excludedNames = map[string]bool{
	"lost+found":                true,
	".DS_Store":                 true,
	"System Volume Information": true,
}

const maxCopyAllSize = 64 * 1024 * 1024

// ImportDir walks src and recreates every directory and regular file it
// finds under dst, rooted at uxfs path "/". Symlinks and other
// non-regular entries are skipped: uxfs has no inode type for them.
func ImportDir(src fs.FS, dst *uxfs.Filesystem) error {
	return importDir(src, dst, ".", "/")
}

func importDir(src fs.FS, dst *uxfs.Filesystem, hostDir, uxPath string) error {
	entries, err := fs.ReadDir(src, hostDir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", hostDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if excludedNames[name] {
			continue
		}

		hostPath := name
		if hostDir != "." {
			hostPath = path.Join(hostDir, name)
		}
		child := path.Join(uxPath, name)

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", hostPath, err)
		}

		switch {
		case entry.IsDir():
			if _, err := dst.Mknod(child, uxfs.TDir); err != nil {
				return fmt.Errorf("mkdir %s: %w", child, err)
			}
			if err := importDir(src, dst, hostPath, child); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := importFile(src, dst, hostPath, child); err != nil {
				return fmt.Errorf("copy file %s: %w", hostPath, err)
			}
		default:
			// symlinks, devices, etc: no matching uxfs inode type.
			continue
		}
	}
	return nil
}

func importFile(src fs.FS, dst *uxfs.Filesystem, hostPath, uxPath string) error {
	in, err := src.Open(hostPath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if _, err := dst.Mknod(uxPath, uxfs.TReg); err != nil {
		return err
	}
	fd, err := dst.FileOpen(uxPath, uxfs.ORDWR)
	if err != nil {
		return err
	}
	defer func() { _ = dst.FileClose(fd) }()

	data, err := readAllLimited(in, maxCopyAllSize)
	if err != nil {
		return err
	}
	n, err := dst.FileWrite(fd, data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d byte import limit", limit)
	}
	return data, nil
}
