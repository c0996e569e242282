package uxfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocBitFreeBitRoundTrip(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+3)
	lba, ok, err := fs.allocBit()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fs.sb.SData, lba)

	count, err := fs.bitmapPopcount()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, fs.freeBit(lba))
	count, err = fs.bitmapPopcount()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestAllocBitExhaustion(t *testing.T) {
	fs := newTestFS(t, minFormatSectors) // exactly one data block
	_, ok, err := fs.allocBit()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = fs.allocBit()
	require.NoError(t, err)
	require.False(t, ok, "second alloc should fail: data region has exactly one block")
}

func TestFreeBitDoubleFreeRejected(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+1)
	lba, ok, err := fs.allocBit()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, fs.freeBit(lba))

	err = fs.freeBit(lba)
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, KindBadState, uerr.Kind)
}

func TestFreeBitOutOfRangeRejected(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+1)
	require.Error(t, fs.freeBit(fs.sb.SData-1))
	require.Error(t, fs.freeBit(fs.sb.SData+fs.sb.NBlockDat))
}

func TestAllocBitSkipsFullBytes(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+20)
	var lbas []uint32
	for i := 0; i < 9; i++ {
		lba, ok, err := fs.allocBit()
		require.NoError(t, err)
		require.True(t, ok)
		lbas = append(lbas, lba)
	}
	// 9 consecutive allocations should yield 9 consecutive LBAs starting
	// at SData, spanning the first full byte of the bitmap.
	for i, lba := range lbas {
		require.Equal(t, fs.sb.SData+uint32(i), lba)
	}
}
