// Package partition describes the single on-disk partition a uxfs
// filesystem is formatted onto. Unlike github.com/diskfs/go-diskfs's
// partition package, there is no GPT/MBR table with multiple entries
// to parse here — this engine addresses one partition, identified by
// its starting LBA and sector count, the same two fields a classic
// C-style `struct partition` carried alongside its (unused by the
// engine) CHS geometry fields.
package partition

import "fmt"

// Partition is the {start LBA, sector count} pair fs_format/fs_init
// consume. SectorCount is the total number of BLOCKSIZE-byte sectors
// available to the filesystem, including the superblock sector itself.
type Partition struct {
	Start       uint32
	SectorCount uint32
}

// End returns the LBA one past the last sector of the partition.
func (p Partition) End() uint32 {
	return p.Start + p.SectorCount
}

// Validate reports whether the partition has at least minSectors
// sectors. The caller supplies the minimum; uxfs's Format passes the
// size of a superblock, the reserved log, the whole inode table, the
// bitmap block and one data block.
func (p Partition) Validate(minSectors uint32) error {
	if p.SectorCount < minSectors {
		return fmt.Errorf("partition: %d sectors is below the %d sector minimum", p.SectorCount, minSectors)
	}
	return nil
}

// Entry is the on-disk encoding of a classic MBR-style partition table
// entry: bootable flag, CHS start/end geometry, system id, and the LBA
// fields. Only Start/SectorCount describe what the engine uses (the CHS
// fields are geometry hints for BIOS-era bootloaders the engine never
// consults). Nothing in this module writes an Entry to disk: cmd/mkuxfs
// formats the filesystem starting at LBA 0 and writes no partition
// table.
//
// The struct this is modeled on used C bitfields (startc:8, starth:10,
// starts:6) to pack the CHS fields; Go has no bitfield support, so the
// packing here is explicit shifts and masks rather than relying on any
// struct layout.
type Entry struct {
	Bootable    bool
	StartHead   uint8
	StartSector uint8 // 0..63, 6 bits
	StartCyl    uint16 // 0..1023, 10 bits
	SysID       uint8
	EndHead     uint8
	EndSector   uint8 // 6 bits
	EndCyl      uint16 // 10 bits
	Partition   Partition
}

// EntrySize is the on-disk size in bytes of a packed Entry.
const EntrySize = 16

// MarshalBinary packs e into the classic 16-byte MBR partition entry
// layout: bootable(1) chs-start(3) sysid(1) chs-end(3) lba-start(4)
// sector-count(4).
func (e Entry) MarshalBinary() []byte {
	b := make([]byte, EntrySize)
	if e.Bootable {
		b[0] = 0x80
	}
	packCHS(b[1:4], e.StartHead, e.StartSector, e.StartCyl)
	b[4] = e.SysID
	packCHS(b[5:8], e.EndHead, e.EndSector, e.EndCyl)
	putUint32LE(b[8:12], e.Partition.Start)
	putUint32LE(b[12:16], e.Partition.SectorCount)
	return b
}

// UnmarshalEntry unpacks a 16-byte classic MBR partition entry.
func UnmarshalEntry(b []byte) (Entry, error) {
	if len(b) < EntrySize {
		return Entry{}, fmt.Errorf("partition: entry must be %d bytes, got %d", EntrySize, len(b))
	}
	head, sector, cyl := unpackCHS(b[1:4])
	endHead, endSector, endCyl := unpackCHS(b[5:8])
	return Entry{
		Bootable:    b[0]&0x80 != 0,
		StartHead:   head,
		StartSector: sector,
		StartCyl:    cyl,
		SysID:       b[4],
		EndHead:     endHead,
		EndSector:   endSector,
		EndCyl:      endCyl,
		Partition: Partition{
			Start:       getUint32LE(b[8:12]),
			SectorCount: getUint32LE(b[12:16]),
		},
	}, nil
}

// packCHS packs (head, sector, cylinder) into the 3-byte CHS encoding:
// byte0 = head; byte1 = (cylinder high 2 bits)<<6 | sector (6 bits);
// byte2 = cylinder low 8 bits.
func packCHS(dst []byte, head, sector uint8, cyl uint16) {
	dst[0] = head
	dst[1] = (uint8(cyl>>8) << 6) | (sector & 0x3f)
	dst[2] = uint8(cyl & 0xff)
}

func unpackCHS(src []byte) (head, sector uint8, cyl uint16) {
	head = src[0]
	sector = src[1] & 0x3f
	cyl = (uint16(src[1]>>6) << 8) | uint16(src[2])
	return
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
