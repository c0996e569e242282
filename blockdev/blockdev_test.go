package blockdev

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestMemDeviceReadWriteRoundTrip(t *testing.T) {
	d := NewMemDevice(4)
	var buf [BlockSize]byte
	for i := range buf {
		buf[i] = byte(i)
	}
	if err := d.WriteBlock(2, &buf); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	var got [BlockSize]byte
	if err := d.ReadBlock(2, &got); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if got != buf {
		t.Errorf("read back different bytes than written")
	}
}

func TestMemDeviceOtherBlocksUntouched(t *testing.T) {
	d := NewMemDevice(4)
	var buf [BlockSize]byte
	buf[0] = 0xff
	if err := d.WriteBlock(1, &buf); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	var zero [BlockSize]byte
	var got [BlockSize]byte
	if err := d.ReadBlock(0, &got); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if got != zero {
		t.Errorf("lba 0 should remain zero-filled, got non-zero bytes")
	}
}

func TestMemDeviceOutOfRangeRead(t *testing.T) {
	d := NewMemDevice(2)
	var buf [BlockSize]byte
	if err := d.ReadBlock(5, &buf); err == nil {
		t.Error("expected error reading out-of-range lba")
	}
}

func TestFileDeviceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")

	d, closeFn, err := CreateFile(path, 8*BlockSize)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	defer closeFn()

	var buf [BlockSize]byte
	copy(buf[:], []byte("hello block"))
	if err := d.WriteBlock(3, &buf); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d2, closeFn2, err := OpenFile(path, 0, true)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer closeFn2()

	var got [BlockSize]byte
	if err := d2.ReadBlock(3, &got); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if !bytes.Equal(got[:], buf[:]) {
		t.Errorf("read back different bytes than written")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 8*BlockSize {
		t.Errorf("image size = %d, want %d", info.Size(), 8*BlockSize)
	}
}

func TestDeviceWithNonZeroBase(t *testing.T) {
	storage := NewMemStorage(4 * BlockSize)
	d := New(storage, BlockSize) // LBA 0 starts at byte offset 512

	var buf [BlockSize]byte
	buf[0] = 0x42
	if err := d.WriteBlock(0, &buf); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	raw := make([]byte, BlockSize)
	if _, err := storage.ReadAt(raw, BlockSize); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if raw[0] != 0x42 {
		t.Errorf("expected write to land at base offset, got byte %x", raw[0])
	}
}
