package uxfs

import "testing"

func TestDinodeRoundTrip(t *testing.T) {
	d := dinode{Type: TReg, Major: 1, Minor: 2, LinkCnt: 3, Size: 4096}
	for i := range d.Ptrs {
		d.Ptrs[i] = uint32(100 + i)
	}
	enc := d.encode()
	got := decodeDinode(enc[:])
	if got != d {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, d)
	}
}

func TestDecodeInodeBlockLayout(t *testing.T) {
	var b block
	d0 := dinode{Type: TReg, LinkCnt: 1}
	d1 := dinode{Type: TDir, LinkCnt: 2}
	writeInodeSlot(&b, 0, d0)
	writeInodeSlot(&b, 1, d1)
	inodes := decodeInodeBlock(&b)
	if inodes[0].Type != TReg || inodes[0].LinkCnt != 1 {
		t.Fatalf("slot 0 = %+v", inodes[0])
	}
	if inodes[1].Type != TDir || inodes[1].LinkCnt != 2 {
		t.Fatalf("slot 1 = %+v", inodes[1])
	}
	for i := 2; i < NInodesPerBlock; i++ {
		if inodes[i].Type != TFree {
			t.Fatalf("slot %d should be free, got %+v", i, inodes[i])
		}
	}
}

func TestDirentRoundTrip(t *testing.T) {
	d := newDirent(7, "hello.txt")
	enc := d.encode()
	got := decodeDirent(enc[:])
	if got.Inum != 7 || got.NameString() != "hello.txt" {
		t.Fatalf("round trip mismatch: got inum=%d name=%q", got.Inum, got.NameString())
	}
}

func TestDirentNameTruncationBoundary(t *testing.T) {
	name := "abcdefghijklmn" // exactly MaxName (14) bytes
	d := newDirent(1, name)
	enc := d.encode()
	got := decodeDirent(enc[:])
	if got.NameString() != name {
		t.Fatalf("got %q, want %q", got.NameString(), name)
	}
}

func TestPtrBlockRoundTrip(t *testing.T) {
	var ptrs [NPtrsPerBlock]uint32
	for i := range ptrs {
		ptrs[i] = uint32(i * 3)
	}
	b := encodePtrBlock(ptrs)
	got := decodePtrBlock(&b)
	if got != ptrs {
		t.Fatalf("round trip mismatch")
	}
}

func TestInodeTypeString(t *testing.T) {
	cases := map[InodeType]string{
		TFree: "free", TReg: "reg", TDir: "dir", TDev: "dev", InodeType(99): "unknown",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("InodeType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}
