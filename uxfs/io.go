package uxfs

import (
	"errors"
	"io"
)

// ErrNoSpace is returned by InodeWrite when the free-data bitmap ran
// out of room partway through a write; n still reports the bytes
// actually written.
var ErrNoSpace = errors.New("uxfs: no space left on device")

// rwCursor threads the state shared across every recursive call
// generated from one InodeRead/InodeWrite: the remaining byte range,
// the caller's buffer position, and whether the walk is a read or a
// write.
type rwCursor struct {
	fs         *Filesystem
	blockOff   uint32 // current_block_offset, in BLOCKSIZE units
	startBlock uint32
	endBlock   uint32
	fileOffset uint32 // advances over every skipped block and transferred byte; only its value modulo BlockSize is used
	buf        []byte // full read/write buffer
	bufPos     int    // cursor into buf
	left       uint32 // bytes remaining to transfer
	write      bool
}

// visit recursively walks one pointer slot at the given indirection
// level, transferring any portion of it that overlaps the cursor's
// byte range.
func (c *rwCursor) visit(ptr *uint32, level int) error {
	lo := c.blockOff
	hi := c.blockOff + coverage(level)

	if !(lo <= c.endBlock && c.startBlock < hi) {
		c.fileOffset += (hi - lo) * BlockSize
		c.blockOff = hi
		return nil
	}

	if c.write {
		if *ptr == 0 {
			lba, ok, err := c.fs.allocBit()
			if err != nil {
				return err
			}
			if !ok {
				return ErrNoSpace
			}
			*ptr = lba
			if level > 0 {
				var zero block
				if err := c.fs.dev.WriteBlock(lba, &zero); err != nil {
					return err
				}
			}
		}
	} else if *ptr == 0 {
		// The hole runs from the current position (inside the start
		// block when this is the first region the range touches) to hi.
		cur := lo
		if cur < c.startBlock {
			cur = c.startBlock
		}
		sz := hi*BlockSize - (cur*BlockSize + c.fileOffset%BlockSize)
		if c.left < sz {
			sz = c.left
		}
		for i := uint32(0); i < sz; i++ {
			c.buf[c.bufPos+int(i)] = 0
		}
		c.bufPos += int(sz)
		c.left -= sz
		c.fileOffset += sz
		c.blockOff = hi
		return nil
	}

	if level > 0 {
		var b block
		if err := c.fs.dev.ReadBlock(*ptr, &b); err != nil {
			return err
		}
		ptrs := decodePtrBlock(&b)
		var walkErr error
		for i := range ptrs {
			if err := c.visit(&ptrs[i], level-1); err != nil {
				walkErr = err
				break
			}
		}
		encoded := encodePtrBlock(ptrs)
		if c.write {
			if err := c.fs.dev.WriteBlock(*ptr, &encoded); err != nil {
				return err
			}
		}
		return walkErr
	}

	var b block
	if err := c.fs.dev.ReadBlock(*ptr, &b); err != nil {
		return err
	}
	start := c.fileOffset % BlockSize
	sz := BlockSize - start
	if c.left < sz {
		sz = c.left
	}
	if c.write {
		copy(b[start:start+sz], c.buf[c.bufPos:c.bufPos+int(sz)])
		if err := c.fs.dev.WriteBlock(*ptr, &b); err != nil {
			return err
		}
	} else {
		copy(c.buf[c.bufPos:c.bufPos+int(sz)], b[start:start+sz])
	}
	c.bufPos += int(sz)
	c.left -= sz
	c.fileOffset += sz
	c.blockOff = hi
	return nil
}

// inodeRW is the shared implementation behind InodeRead and InodeWrite.
func (fs *Filesystem) inodeRW(n uint32, buf []byte, size int, off uint32, write bool) (int, error) {
	if !fs.init {
		return 0, newErr(KindUninitialized, "inodeRW", "", nil)
	}
	if size < 0 || size > maxWriteSize {
		return 0, newErr(KindBadArg, "inodeRW", "", nil)
	}
	if n >= fs.sb.NInodes {
		fs.logf("inode number %d is out of range", n)
		return 0, newErr(KindBadArg, "inodeRW", "", nil)
	}
	di, err := fs.readInode(n)
	if err != nil {
		return 0, err
	}

	sbyte := off
	ebyte := off + uint32(size)
	var eofErr error
	if !write {
		if sbyte >= di.Size {
			return 0, io.EOF
		}
		if ebyte > di.Size {
			ebyte = di.Size
			size = int(di.Size - sbyte)
			eofErr = io.EOF
		}
	}

	c := &rwCursor{
		fs:         fs,
		startBlock: sbyte / BlockSize,
		endBlock:   ebyte / BlockSize,
		fileOffset: off,
		buf:        buf,
		left:       uint32(size),
		write:      write,
	}

	var walkErr error
	for i := range di.Ptrs {
		if err := c.visit(&di.Ptrs[i], ilevel(i)); err != nil {
			walkErr = err
			break
		}
	}

	consumed := uint32(size) - c.left
	newEnd := off + consumed
	if di.Size < newEnd {
		di.Size = newEnd
	}
	if write {
		if err := fs.writeInode(n, di); err != nil {
			return int(consumed), err
		}
	}
	if walkErr != nil && walkErr != ErrNoSpace {
		return int(consumed), walkErr
	}
	if walkErr == ErrNoSpace {
		return int(consumed), ErrNoSpace
	}
	if !write && consumed < uint32(size) {
		return int(consumed), io.EOF
	}
	return int(consumed), eofErr
}

// InodeRead reads up to size bytes of inode n starting at byte offset
// off into buf (which must be at least size bytes long), synthesizing
// zeros for any sparse hole the range intersects. Returns io.EOF (with
// a non-zero count when a prefix was read) once offset reaches the end
// of the file.
func (fs *Filesystem) InodeRead(n uint32, buf []byte, size int, off uint32) (int, error) {
	return fs.inodeRW(n, buf, size, off, false)
}

// InodeWrite writes size bytes from buf to inode n starting at byte
// offset off, lazily allocating indirect and data blocks as needed and
// growing the inode's size. Returns ErrNoSpace (with the count of bytes
// actually written) if allocation runs out partway.
func (fs *Filesystem) InodeWrite(n uint32, buf []byte, size int, off uint32) (int, error) {
	return fs.inodeRW(n, buf, size, off, true)
}
