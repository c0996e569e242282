package uxfs

import "fmt"

// Superblock mirrors the on-disk superblock record persisted at the
// partition's first LBA. All fields are 32-bit unsigned; the layout
// is fixed-width and leaves no spare field for anything else, which is
// why a filesystem identifier is tracked only at the Filesystem-handle
// level rather than persisted on disk.
type Superblock struct {
	NInodes      uint32
	NBlockTot    uint32
	NBlockLog    uint32
	NBlockDat    uint32
	NBlockInode  uint32
	Start        uint32
	SLog         uint32
	SInode       uint32
	SBitmap      uint32
	SData        uint32
	Magic        uint32
}

const superblockFieldCount = 11
const superblockSize = superblockFieldCount * 4

func (s Superblock) encode() block {
	var b block
	fields := []uint32{
		s.NInodes, s.NBlockTot, s.NBlockLog, s.NBlockDat, s.NBlockInode,
		s.Start, s.SLog, s.SInode, s.SBitmap, s.SData, s.Magic,
	}
	for i, f := range fields {
		off := i * 4
		putUint32(b[off:off+4], f)
	}
	return b
}

func decodeSuperblock(b *block) Superblock {
	get := func(i int) uint32 { return getUint32(b[i*4 : i*4+4]) }
	return Superblock{
		NInodes:     get(0),
		NBlockTot:   get(1),
		NBlockLog:   get(2),
		NBlockDat:   get(3),
		NBlockInode: get(4),
		Start:       get(5),
		SLog:        get(6),
		SInode:      get(7),
		SBitmap:     get(8),
		SData:       get(9),
		Magic:       get(10),
	}
}

// minFormatSectors is the smallest partition that can hold the fixed
// log region, the inode table, and the single bitmap block, leaving at
// least one data block.
const minFormatSectors = 1 /*superblock*/ + NBlocksLog + (NInodes / NInodesPerBlock) + 1 /*bitmap*/ + 1 /*one data block*/

// layoutSuperblock computes the region layout for a freshly formatted
// partition, enforcing the fixed layout invariant:
//
//	slog = start + 1
//	sinode = slog + nblock_log
//	sbitmap = sinode + nblock_inode
//	sdata = sbitmap + 1
//	nblock_inode = NINODES / NINODES_PER_BLOCK
//	nblock_dat = nblock_tot - (nblock_log + nblock_inode + 2)
func layoutSuperblock(start, nblockTot uint32) Superblock {
	nblockInode := uint32(NInodes / NInodesPerBlock)
	sb := Superblock{
		NInodes:     NInodes,
		NBlockTot:   nblockTot,
		NBlockLog:   NBlocksLog,
		NBlockInode: nblockInode,
		Start:       start,
		Magic:       FSMagic,
	}
	sb.SLog = start + 1
	sb.SInode = sb.SLog + sb.NBlockLog
	sb.SBitmap = sb.SInode + sb.NBlockInode
	sb.SData = sb.SBitmap + 1
	sb.NBlockDat = nblockTot - (sb.NBlockLog + sb.NBlockInode + 2)
	return sb
}

func (s Superblock) validate() error {
	if s.Magic != FSMagic {
		return fmt.Errorf("superblock: bad magic %#x, want %#x", s.Magic, uint32(FSMagic))
	}
	wantInode := uint32(NInodes / NInodesPerBlock)
	if s.NBlockInode != wantInode {
		return fmt.Errorf("superblock: nblock_inode %d, want %d", s.NBlockInode, wantInode)
	}
	if s.SLog != s.Start+1 {
		return fmt.Errorf("superblock: slog %d, want %d", s.SLog, s.Start+1)
	}
	if s.SInode != s.SLog+s.NBlockLog {
		return fmt.Errorf("superblock: sinode %d, want %d", s.SInode, s.SLog+s.NBlockLog)
	}
	if s.SBitmap != s.SInode+s.NBlockInode {
		return fmt.Errorf("superblock: sbitmap %d, want %d", s.SBitmap, s.SInode+s.NBlockInode)
	}
	if s.SData != s.SBitmap+1 {
		return fmt.Errorf("superblock: sdata %d, want %d", s.SData, s.SBitmap+1)
	}
	wantDat := s.NBlockTot - (s.NBlockLog + s.NBlockInode + 2)
	if s.NBlockDat != wantDat {
		return fmt.Errorf("superblock: nblock_dat %d, want %d", s.NBlockDat, wantDat)
	}
	return nil
}
