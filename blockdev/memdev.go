package blockdev

import "fmt"

// MemStorage is an in-memory Storage, grounded on the same role
// github.com/diskfs/go-diskfs/testhelper.FileImpl plays for that
// project's tests: a stand-in backing store that needs no filesystem of
// its own to exercise the engine against.
type MemStorage struct {
	data []byte
}

// NewMemStorage allocates a zero-filled in-memory backing store of the
// given byte size.
func NewMemStorage(size int64) *MemStorage {
	return &MemStorage{data: make([]byte, size)}
}

func (m *MemStorage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, fmt.Errorf("blockdev: read offset %d out of range (size %d)", off, len(m.data))
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("blockdev: short read at offset %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}

func (m *MemStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, fmt.Errorf("blockdev: write offset %d+%d out of range (size %d)", off, len(p), len(m.data))
	}
	return copy(m.data[off:], p), nil
}

// NewMemDevice is a convenience constructor combining NewMemStorage and
// New for the common case of a dedicated in-memory partition starting
// at LBA 0.
func NewMemDevice(sectorCount uint32) *Device {
	return New(NewMemStorage(int64(sectorCount)*BlockSize), 0)
}
