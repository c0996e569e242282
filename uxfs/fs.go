package uxfs

import (
	"github.com/google/uuid"

	"github.com/blockproto/uxfs/blockdev"
	"github.com/blockproto/uxfs/diag"
	"github.com/blockproto/uxfs/partition"
)

// Filesystem is a handle onto one formatted partition: the cached
// superblock, the backing block device, the open-file table, and a
// diagnostic sink every operation logs failures through. A zero-value
// Filesystem is not usable; construct one with New and call Init or
// Format.
type Filesystem struct {
	dev  *blockdev.Device
	sb   Superblock
	init bool
	sink diag.Sink

	// sessionID tags every diagnostic line emitted by this handle. It is
	// minted fresh on each successful Init/Format and never persisted —
	// the on-disk superblock has no spare field to carry it.
	sessionID uuid.UUID

	files [NFiles]openFile
}

// New constructs an unattached Filesystem handle logging through sink.
// A nil sink discards all diagnostics.
func New(sink diag.Sink) *Filesystem {
	if sink == nil {
		sink = diag.Discard
	}
	return &Filesystem{sink: sink}
}

func (fs *Filesystem) logf(format string, args ...any) {
	fs.sink.Printf("uxfs["+fs.sessionID.String()+"] "+format, args...)
}

// Format zeroes the partition, lays out a fresh superblock, and
// allocates the root directory inode. The partition must already pass
// Validate(minFormatSectors); Format does not resize anything. After a
// successful Format the handle is initialized and ready for use, so a
// separate Init call is not required.
func (fs *Filesystem) Format(dev *blockdev.Device, p partition.Partition) error {
	if dev == nil {
		return newErr(KindBadArg, "Format", "", nil)
	}
	if err := p.Validate(minFormatSectors); err != nil {
		return newErr(KindBadArg, "Format", "", err)
	}

	fs.dev = dev
	fs.sessionID = uuid.New()
	fs.logf("formatting partition start=%d sectors=%d", p.Start, p.SectorCount)

	var zero block
	for lba := p.Start; lba < p.End(); lba++ {
		if err := fs.dev.WriteBlock(lba, &zero); err != nil {
			return err
		}
	}

	sb := layoutSuperblock(p.Start, p.SectorCount)
	if err := sb.validate(); err != nil {
		fs.logf("format: computed superblock failed validation: %v", err)
		return newErr(KindBadState, "Format", "", err)
	}
	enc := sb.encode()
	if err := fs.dev.WriteBlock(p.Start, &enc); err != nil {
		return err
	}

	fs.sb = sb
	fs.init = true
	fs.files = [NFiles]openFile{}

	// Inode 0 is reserved as the permanent NullInum sentinel: allocate
	// and immediately burn it so it can never be handed out again.
	if _, _, err := fs.allocInode(TDir); err != nil {
		fs.init = false
		return err
	}
	rootInum, ok, err := fs.allocInode(TDir)
	if err != nil {
		fs.init = false
		return err
	}
	if !ok || rootInum != RootInum {
		fs.init = false
		fs.logf("format: root inode allocated as %d, want %d", rootInum, RootInum)
		return newErr(KindBadState, "Format", "", nil)
	}

	fs.logf("format complete: ninodes=%d nblockdat=%d", sb.NInodes, sb.NBlockDat)
	return nil
}

// Init attaches an already-formatted partition's superblock at LBA
// start, validating its magic and layout invariants before marking the
// handle usable. Returns KindBadState if the block at start is not a
// valid uxfs superblock.
func (fs *Filesystem) Init(dev *blockdev.Device, start uint32) error {
	if dev == nil {
		return newErr(KindBadArg, "Init", "", nil)
	}
	if fs.init {
		return newErr(KindBadState, "Init", "", nil)
	}

	var b block
	if err := dev.ReadBlock(start, &b); err != nil {
		return err
	}
	sb := decodeSuperblock(&b)
	if err := sb.validate(); err != nil {
		return newErr(KindBadState, "Init", "", err)
	}

	fs.dev = dev
	fs.sb = sb
	fs.init = true
	fs.sessionID = uuid.New()
	fs.files = [NFiles]openFile{}
	fs.logf("initialized: ninodes=%d nblockdat=%d", sb.NInodes, sb.NBlockDat)
	return nil
}

// SessionID returns the diagnostic session identifier minted by the
// most recent successful Init or Format call.
func (fs *Filesystem) SessionID() uuid.UUID {
	return fs.sessionID
}
