package uxfs

// ilevel returns the indirection level of the i'th pointer slot in an
// inode: 0 for direct, 1 for singly-indirect, 2 for doubly-indirect.
func ilevel(i int) int {
	switch {
	case i < NDirect:
		return 0
	case i < NDirect+NIndirect:
		return 1
	default:
		return 2
	}
}

// coverage returns the number of data blocks a single pointer at the
// given indirection level can reach.
func coverage(level int) uint32 {
	switch level {
	case 0:
		return 1
	case 1:
		return NPtrsPerBlock
	default:
		return NPtrsPerBlock * NPtrsPerBlock
	}
}

// ReadInode reads inode number n. It rejects n >= ninodes.
func (fs *Filesystem) ReadInode(n uint32) (dinode, error) {
	if !fs.init {
		return dinode{}, newErr(KindUninitialized, "ReadInode", "", nil)
	}
	return fs.readInode(n)
}

func (fs *Filesystem) readInode(n uint32) (dinode, error) {
	if n >= fs.sb.NInodes {
		fs.logf("read_inode: inode number %d is out of range", n)
		return dinode{}, newErr(KindBadArg, "readInode", "", nil)
	}
	var b block
	blockLBA := fs.sb.SInode + n/NInodesPerBlock
	if err := fs.dev.ReadBlock(blockLBA, &b); err != nil {
		return dinode{}, err
	}
	inodes := decodeInodeBlock(&b)
	return inodes[n%NInodesPerBlock], nil
}

// WriteInode writes di back as inode number n.
func (fs *Filesystem) WriteInode(n uint32, di dinode) error {
	if !fs.init {
		return newErr(KindUninitialized, "WriteInode", "", nil)
	}
	return fs.writeInode(n, di)
}

func (fs *Filesystem) writeInode(n uint32, di dinode) error {
	if n >= fs.sb.NInodes {
		fs.logf("write_inode: inode number %d is out of range", n)
		return newErr(KindBadArg, "writeInode", "", nil)
	}
	var b block
	blockLBA := fs.sb.SInode + n/NInodesPerBlock
	if err := fs.dev.ReadBlock(blockLBA, &b); err != nil {
		return err
	}
	writeInodeSlot(&b, int(n%NInodesPerBlock), di)
	return fs.dev.WriteBlock(blockLBA, &b)
}

// allocInode linearly scans the inode table for a free (type==0) slot,
// zeroes it, sets its type, and returns its inode number. Returns
// (NullInum, false) if the table is full.
func (fs *Filesystem) allocInode(t InodeType) (uint32, bool, error) {
	if t > TDev {
		fs.logf("alloc_inode: invalid inode type %d", t)
		return NullInum, false, newErr(KindBadArg, "allocInode", "", nil)
	}
	for blk := uint32(0); blk < fs.sb.NBlockInode; blk++ {
		var b block
		lba := fs.sb.SInode + blk
		if err := fs.dev.ReadBlock(lba, &b); err != nil {
			return NullInum, false, err
		}
		inodes := decodeInodeBlock(&b)
		for slot, di := range inodes {
			if di.Type == TFree {
				fresh := dinode{Type: t}
				writeInodeSlot(&b, slot, fresh)
				if err := fs.dev.WriteBlock(lba, &b); err != nil {
					return NullInum, false, err
				}
				return blk*NInodesPerBlock + uint32(slot), true, nil
			}
		}
	}
	return NullInum, false, nil
}

// freeBlockTree frees the block subtree rooted at lba: it reads lba,
// frees lba's own bitmap bit, then recursively frees the data blocks
// (or indirect blocks) it references.
func (fs *Filesystem) freeBlockTree(lba uint32, level int) error {
	if level == 0 {
		return fs.freeBit(lba)
	}
	var b block
	if err := fs.dev.ReadBlock(lba, &b); err != nil {
		return err
	}
	if err := fs.freeBit(lba); err != nil {
		return err
	}
	ptrs := decodePtrBlock(&b)
	for _, child := range ptrs {
		if child != 0 {
			if err := fs.freeBlockTree(child, level-1); err != nil {
				return err
			}
		}
	}
	return nil
}

// freeInode frees every block subtree an inode's pointers reference,
// then marks the inode slot free. Link-count policy is the caller's
// responsibility; freeInode does not consult LinkCnt.
func (fs *Filesystem) freeInode(n uint32) error {
	di, err := fs.readInode(n)
	if err != nil {
		return err
	}
	for i, p := range di.Ptrs {
		if p != 0 {
			if err := fs.freeBlockTree(p, ilevel(i)); err != nil {
				return err
			}
		}
	}
	di.Type = TFree
	di.LinkCnt = 0
	di.Size = 0
	di.Ptrs = [NPtrs]uint32{}
	return fs.writeInode(n, di)
}
