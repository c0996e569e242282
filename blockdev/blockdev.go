// Package blockdev provides the block I/O primitive the filesystem
// engine is injected with: read_block(lba, &buf) / write_block(lba,
// &buf), both synchronous and assumed infallible by the engine's
// callers upstream (errors from a real backend are surfaced to the
// caller of Device's methods instead of being swallowed, unlike the C
// source's void-returning callbacks).
//
// Device is deliberately narrower than github.com/diskfs/go-diskfs's
// backend.Storage: the engine never seeks, never stats, never needs an
// *os.File for ioctls. It only ever reads or writes one fixed-size
// block at a fixed LBA, so the interface underneath is just the two
// io.ReaderAt/io.WriterAt methods.
package blockdev

import (
	"fmt"
	"io"
)

// BlockSize is the fixed sector size the whole on-disk format is built
// from.
const BlockSize = 512

// Storage is the minimal byte-addressable backing store a Device wraps.
// *os.File and an in-memory byte slice both satisfy it; this mirrors
// the read/write half of github.com/diskfs/go-diskfs/backend.Storage
// without the Stat/Sys/Writable machinery that multi-format disk images
// need and a single fixed-layout partition does not.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Device turns byte-addressable Storage into the LBA-addressable
// ReadBlock/WriteBlock primitive the engine consumes.
type Device struct {
	storage Storage
	// base is the byte offset of LBA 0 within storage, letting a Device
	// be layered over a Storage that holds more than just this
	// partition (e.g. a disk image with other partitions before it).
	base int64
}

// New wraps storage as a Device. base is the byte offset within storage
// of logical block address 0 (usually 0 for a dedicated image file).
func New(storage Storage, base int64) *Device {
	return &Device{storage: storage, base: base}
}

// ReadBlock reads the BlockSize bytes at lba into buf.
func (d *Device) ReadBlock(lba uint32, buf *[BlockSize]byte) error {
	off := d.base + int64(lba)*BlockSize
	n, err := d.storage.ReadAt(buf[:], off)
	if err != nil && !(err == io.EOF && n == BlockSize) {
		return fmt.Errorf("blockdev: read lba %d: %w", lba, err)
	}
	return nil
}

// WriteBlock writes buf to the BlockSize bytes at lba.
func (d *Device) WriteBlock(lba uint32, buf *[BlockSize]byte) error {
	off := d.base + int64(lba)*BlockSize
	if _, err := d.storage.WriteAt(buf[:], off); err != nil {
		return fmt.Errorf("blockdev: write lba %d: %w", lba, err)
	}
	return nil
}
