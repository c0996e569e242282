package uxfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPathBasic(t *testing.T) {
	cases := []struct {
		path, wantParent, wantName string
	}{
		{"/foo", "/", "foo"},
		{"/foo/bar", "/foo", "bar"},
		{"/foo/bar/", "/foo", "bar"},
		{"/a/b/c", "/a/b", "c"},
	}
	for _, c := range cases {
		parent, name, err := splitPath(c.path)
		require.NoErrorf(t, err, "splitPath(%q)", c.path)
		require.Equalf(t, c.wantParent, parent, "splitPath(%q) parent", c.path)
		require.Equalf(t, c.wantName, name, "splitPath(%q) name", c.path)
	}
}

func TestSplitPathRejectsInvalid(t *testing.T) {
	cases := []string{"", "/", "///", "/" + string(make([]byte, MaxName))}
	for _, p := range cases {
		_, _, err := splitPath(p)
		require.Errorf(t, err, "splitPath(%q)", p)
	}
}

func TestLookupRoot(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	inum, err := fs.Lookup("/")
	require.NoError(t, err)
	require.Equal(t, uint32(RootInum), inum)
}

func TestLookupMissingComponent(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+5)
	_, err := fs.Lookup("/nope")
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, KindNotFound, uerr.Kind)
}

func TestLookupNestedPath(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+10)
	_, err := fs.Mknod("/dir", TDir)
	require.NoError(t, err)
	child, err := fs.Mknod("/dir/file", TReg)
	require.NoError(t, err)

	got, err := fs.Lookup("/dir/file")
	require.NoError(t, err)
	require.Equal(t, child, got)
}

func TestLookupParentOnlyTrailingSlashDistinction(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+10)
	_, err := fs.Mknod("/dir", TDir)
	require.NoError(t, err)
	_, err = fs.Mknod("/dir/file", TReg)
	require.NoError(t, err)

	// lookup(path, true) without a trailing slash stops one level early,
	// returning /dir/file's parent (/dir).
	noSlash, err := fs.lookup("/dir/file", true)
	require.NoError(t, err)
	dirInum, err := fs.Lookup("/dir")
	require.NoError(t, err)
	require.Equal(t, dirInum, noSlash)

	// With a trailing slash the slash itself is the component skipped
	// past, so resolution goes one level further: it returns /dir/file
	// itself rather than stopping at /dir.
	withSlash, err := fs.lookup("/dir/file/", true)
	require.NoError(t, err)
	fileInum, err := fs.Lookup("/dir/file")
	require.NoError(t, err)
	require.Equal(t, fileInum, withSlash)
}

func TestDirLookupSkipsTombstones(t *testing.T) {
	fs := newTestFS(t, minFormatSectors+10)
	_, err := fs.Mknod("/a", TReg)
	require.NoError(t, err)
	require.NoError(t, fs.Unlink("/a"))
	_, err = fs.Mknod("/a", TReg)
	require.NoError(t, err)

	inum, err := fs.Lookup("/a")
	require.NoError(t, err)
	require.NotEqual(t, uint32(NullInum), inum)
}
