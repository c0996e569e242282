package uxfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIlevelBoundaries(t *testing.T) {
	for i := 0; i < NDirect; i++ {
		require.Equalf(t, 0, ilevel(i), "slot %d", i)
	}
	for i := NDirect; i < NDirect+NIndirect; i++ {
		require.Equalf(t, 1, ilevel(i), "slot %d", i)
	}
	for i := NDirect + NIndirect; i < NPtrs; i++ {
		require.Equalf(t, 2, ilevel(i), "slot %d", i)
	}
}

func TestCoverageValues(t *testing.T) {
	require.Equal(t, uint32(1), coverage(0))
	require.Equal(t, uint32(NPtrsPerBlock), coverage(1))
	require.Equal(t, uint32(NPtrsPerBlock*NPtrsPerBlock), coverage(2))
}

func TestAllocInodeRejectsInvalidType(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	_, _, err := fs.allocInode(InodeType(99))
	require.Error(t, err)
}

func TestAllocInodeLinearScanSkipsUsedSlots(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	// Inode 0 (sentinel) and 1 (root) are already allocated by Format.
	n, ok, err := fs.allocInode(TReg)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(2), n)
}

func TestAllocInodeExhaustion(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	var allocated []uint32
	for {
		n, ok, err := fs.allocInode(TReg)
		require.NoError(t, err)
		if !ok {
			break
		}
		allocated = append(allocated, n)
	}
	require.Equal(t, int(fs.sb.NInodes)-2, len(allocated))
}

func TestReadWriteInodeRoundTrip(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	n, ok, err := fs.allocInode(TReg)
	require.NoError(t, err)
	require.True(t, ok)

	di, err := fs.ReadInode(n)
	require.NoError(t, err)
	di.LinkCnt = 5
	di.Size = 1024
	require.NoError(t, fs.WriteInode(n, di))

	got, err := fs.ReadInode(n)
	require.NoError(t, err)
	require.Equal(t, uint16(5), got.LinkCnt)
	require.Equal(t, uint32(1024), got.Size)
}

func TestReadInodeOutOfRangeRejected(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	_, err := fs.ReadInode(fs.sb.NInodes)
	require.Error(t, err)
}

func TestFreeInodeReleasesBlocksAndResetsFields(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+10)
	n, ok, err := fs.allocInode(TReg)
	require.NoError(t, err)
	require.True(t, ok)

	buf := []byte("hello world")
	_, err = fs.InodeWrite(n, buf, len(buf), 0)
	require.NoError(t, err)

	before, err := fs.bitmapPopcount()
	require.NoError(t, err)
	require.Greater(t, before, 0)

	require.NoError(t, fs.freeInode(n))
	after, err := fs.bitmapPopcount()
	require.NoError(t, err)
	require.Equal(t, 0, after)

	got, err := fs.ReadInode(n)
	require.NoError(t, err)
	require.Equal(t, TFree, got.Type)
	require.Equal(t, uint32(0), got.Size)
	require.Equal(t, uint16(0), got.LinkCnt)
}

func TestFreeBlockTreeRecursesIntoIndirect(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+400)
	n, ok, err := fs.allocInode(TReg)
	require.NoError(t, err)
	require.True(t, ok)

	// Write far enough to force allocation of a singly-indirect block
	// plus several data blocks beyond the 10 direct slots.
	buf := make([]byte, BlockSize*3)
	off := uint32(NDirect) * BlockSize
	n2, err := fs.InodeWrite(n, buf, len(buf), off)
	require.NoError(t, err)
	require.Equal(t, len(buf), n2)

	before, err := fs.bitmapPopcount()
	require.NoError(t, err)
	require.GreaterOrEqual(t, before, 4) // 3 data blocks + 1 indirect block

	require.NoError(t, fs.freeInode(n))
	after, err := fs.bitmapPopcount()
	require.NoError(t, err)
	require.Equal(t, 0, after)
}
