package uxfs

// Open mode flags. ORDWR is both readable and writable; the mode test
// below treats "mode & OWRONLY != 0" as not-readable and "mode !=
// ORDONLY" as writable, rather than testing ORDWR as a distinct bit
// pattern.
const (
	ORDONLY = 0
	OWRONLY = 1
	ORDWR   = 2
)

// NFiles is the fixed capacity of the open file table.
const NFiles = 16

// openFile is one slot of the process-wide open file table. Inum == 0
// means the slot is free.
type openFile struct {
	inum   uint32
	offset uint32
	mode   uint32
}

// FileStat is the metadata a file handle's caller can observe.
type FileStat struct {
	Type    InodeType
	Size    uint32
	LinkCnt uint16
}

// FileOpen resolves path and claims the first free slot in the open
// file table, returning its index as a file descriptor. Returns
// (-1, err) if path does not resolve or the table is full.
func (fs *Filesystem) FileOpen(path string, mode uint32) (int, error) {
	if !fs.init {
		return -1, newErr(KindUninitialized, "FileOpen", path, nil)
	}
	for i := range fs.files {
		if fs.files[i].inum == NullInum {
			inum, err := fs.lookup(path, false)
			if err != nil {
				fs.logf("fileopen: %s not found", path)
				return -1, err
			}
			fs.files[i] = openFile{inum: inum, offset: 0, mode: mode}
			return i, nil
		}
	}
	fs.logf("fileopen: open file table full")
	return -1, newErr(KindNoSpace, "FileOpen", path, nil)
}

func (fs *Filesystem) fileSlot(fd int) (*openFile, error) {
	if fd < 0 || fd >= len(fs.files) || fs.files[fd].inum == NullInum {
		return nil, newErr(KindBadArg, "file", "", nil)
	}
	return &fs.files[fd], nil
}

// FileSeek sets fd's offset absolutely.
func (fs *Filesystem) FileSeek(fd int, off uint32) error {
	f, err := fs.fileSlot(fd)
	if err != nil {
		return err
	}
	f.offset = off
	return nil
}

// FileRead reads up to len(buf) bytes from fd at its current offset,
// advancing the offset by the number of bytes returned. Rejects a
// write-only handle.
func (fs *Filesystem) FileRead(fd int, buf []byte) (int, error) {
	f, err := fs.fileSlot(fd)
	if err != nil {
		return 0, err
	}
	if f.mode&OWRONLY != 0 {
		return 0, newErr(KindBadArg, "FileRead", "", nil)
	}
	n, err := fs.InodeRead(f.inum, buf, len(buf), f.offset)
	f.offset += uint32(n)
	return n, err
}

// FileWrite writes len(buf) bytes to fd at its current offset,
// advancing the offset by the number of bytes written. Rejects a
// read-only handle.
func (fs *Filesystem) FileWrite(fd int, buf []byte) (int, error) {
	f, err := fs.fileSlot(fd)
	if err != nil {
		return 0, err
	}
	if f.mode == ORDONLY {
		return 0, newErr(KindBadArg, "FileWrite", "", nil)
	}
	n, err := fs.InodeWrite(f.inum, buf, len(buf), f.offset)
	f.offset += uint32(n)
	return n, err
}

// FileStat fills st from fd's inode.
func (fs *Filesystem) FileStat(fd int) (FileStat, error) {
	f, err := fs.fileSlot(fd)
	if err != nil {
		return FileStat{}, err
	}
	di, err := fs.readInode(f.inum)
	if err != nil {
		return FileStat{}, err
	}
	return FileStat{Type: di.Type, Size: di.Size, LinkCnt: di.LinkCnt}, nil
}

// FileClose frees fd's slot. The inode itself is untouched: freeing an
// inode whose handle is still open leaves that handle dangling; this
// engine does not guard against it.
func (fs *Filesystem) FileClose(fd int) error {
	if _, err := fs.fileSlot(fd); err != nil {
		return err
	}
	fs.files[fd] = openFile{}
	return nil
}
