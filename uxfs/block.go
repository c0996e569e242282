// Package uxfs implements a block-addressed filesystem engine: an
// inode allocator and per-inode read/write engine, a path/directory
// layer, and a small open-file table, all layered on an injected
// blockdev.Device. This file implements the block codec: one
// 512-byte block viewed as a superblock, an inode table block, a
// directory block, or a pointer-array block depending on context.
package uxfs

import "github.com/blockproto/uxfs/blockdev"

// Fixed on-disk constants. These MUST match across implementations for
// two images to be mutually readable.
const (
	BlockSize  = blockdev.BlockSize
	NBlocksLog = 30
	NInodes    = 200
	FSMagic    = 0xDEADBEEF

	NDirect    = 10
	NIndirect  = 2
	NDIndirect = 1
	NPtrs      = NDirect + NIndirect + NDIndirect // 13

	MaxName = 14
	MaxPath = 64

	NullInum = 0
	RootInum = 1

	dinodeSize = 64 // 2+2+2+2+4 + 13*4
	direntSize = 16 // 2 + 14
	ptrSize    = 4

	NInodesPerBlock  = BlockSize / dinodeSize  // 8
	NDirentsPerBlock = BlockSize / direntSize  // 32
	NPtrsPerBlock    = BlockSize / ptrSize      // 128

	// maxWriteSize caps a single InodeRead/InodeWrite size argument: it
	// must be representable as a non-negative int32, and in practice
	// under 2 GiB to avoid arithmetic wraparound in offset+size
	// computations.
	maxWriteSize = 0x80000000 - 1
)

// InodeType is the on-disk inode type tag.
type InodeType uint16

const (
	TFree InodeType = 0
	TReg  InodeType = 1
	TDir  InodeType = 2
	TDev  InodeType = 3
)

func (t InodeType) String() string {
	switch t {
	case TFree:
		return "free"
	case TReg:
		return "reg"
	case TDir:
		return "dir"
	case TDev:
		return "dev"
	default:
		return "unknown"
	}
}

// block is the raw 512-byte unit exchanged with blockdev.Device. It is
// reinterpreted as several distinct shapes depending on which region
// of the partition it belongs to; each shape gets its own explicit
// codec function pair (encode.../decode...) rather than relying on
// memory layout.
type block = [BlockSize]byte

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// dinode is the decoded form of an on-disk inode record.
type dinode struct {
	Type    InodeType
	Major   uint16
	Minor   uint16
	LinkCnt uint16
	Size    uint32
	Ptrs    [NPtrs]uint32
}

func (d dinode) encode() [dinodeSize]byte {
	var b [dinodeSize]byte
	putUint16(b[0:2], uint16(d.Type))
	putUint16(b[2:4], d.Major)
	putUint16(b[4:6], d.Minor)
	putUint16(b[6:8], d.LinkCnt)
	putUint32(b[8:12], d.Size)
	for i, p := range d.Ptrs {
		off := 12 + i*ptrSize
		putUint32(b[off:off+ptrSize], p)
	}
	return b
}

func decodeDinode(b []byte) dinode {
	var d dinode
	d.Type = InodeType(getUint16(b[0:2]))
	d.Major = getUint16(b[2:4])
	d.Minor = getUint16(b[4:6])
	d.LinkCnt = getUint16(b[6:8])
	d.Size = getUint32(b[8:12])
	for i := range d.Ptrs {
		off := 12 + i*ptrSize
		d.Ptrs[i] = getUint32(b[off : off+ptrSize])
	}
	return d
}

// decodeInodeBlock views a block as NInodesPerBlock dinodes.
func decodeInodeBlock(b *block) [NInodesPerBlock]dinode {
	var out [NInodesPerBlock]dinode
	for i := range out {
		off := i * dinodeSize
		out[i] = decodeDinode(b[off : off+dinodeSize])
	}
	return out
}

// writeInodeSlot encodes d into slot idx of b in place.
func writeInodeSlot(b *block, idx int, d dinode) {
	enc := d.encode()
	off := idx * dinodeSize
	copy(b[off:off+dinodeSize], enc[:])
}

// dirent is the decoded form of an on-disk directory entry. Name is
// null-padded; a tombstone has Inum == 0.
type dirent struct {
	Inum uint16
	Name [MaxName]byte
}

func newDirent(inum uint16, name string) dirent {
	var d dirent
	d.Inum = inum
	copy(d.Name[:], name)
	return d
}

// NameString returns the null-terminated name as a Go string.
func (d dirent) NameString() string {
	n := 0
	for n < len(d.Name) && d.Name[n] != 0 {
		n++
	}
	return string(d.Name[:n])
}

func (d dirent) encode() [direntSize]byte {
	var b [direntSize]byte
	putUint16(b[0:2], d.Inum)
	copy(b[2:], d.Name[:])
	return b
}

func decodeDirent(b []byte) dirent {
	var d dirent
	d.Inum = getUint16(b[0:2])
	copy(d.Name[:], b[2:2+MaxName])
	return d
}

// decodePtrBlock views a block as NPtrsPerBlock uint32 pointers.
func decodePtrBlock(b *block) [NPtrsPerBlock]uint32 {
	var out [NPtrsPerBlock]uint32
	for i := range out {
		off := i * ptrSize
		out[i] = getUint32(b[off : off+ptrSize])
	}
	return out
}

func encodePtrBlock(ptrs [NPtrsPerBlock]uint32) block {
	var b block
	for i, p := range ptrs {
		off := i * ptrSize
		putUint32(b[off:off+ptrSize], p)
	}
	return b
}
