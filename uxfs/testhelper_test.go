package uxfs

import (
	"testing"

	"github.com/blockproto/uxfs/blockdev"
	"github.com/blockproto/uxfs/partition"
)

// testSink adapts *testing.T into a diag.Sink so engine diagnostics
// show up alongside test failures instead of disappearing.
type testSink struct{ t *testing.T }

func (s testSink) Printf(format string, args ...any) { s.t.Logf(format, args...) }

// newTestFS formats a fresh in-memory partition of nsectors and returns
// a ready-to-use Filesystem handle.
func newTestFS(t *testing.T, nsectors uint32) *Filesystem {
	t.Helper()
	dev := blockdev.NewMemDevice(nsectors)
	fs := New(testSink{t})
	p := partition.Partition{Start: 0, SectorCount: nsectors}
	if err := fs.Format(dev, p); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return fs
}
