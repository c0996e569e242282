package uxfs

// dirLookup iterates the directory inode's dirents in order and returns
// the inum and byte offset of the first live (non-tombstone) entry whose
// name matches. Returns (NullInum, 0, nil) on a clean miss.
func (fs *Filesystem) dirLookup(dirInum uint32, name string) (uint32, uint32, error) {
	di, err := fs.readInode(dirInum)
	if err != nil {
		return NullInum, 0, err
	}
	if di.Type != TDir {
		return NullInum, 0, newErr(KindNotDir, "dirLookup", "", nil)
	}
	count := di.Size / direntSize
	var buf [direntSize]byte
	for i := uint32(0); i < count; i++ {
		off := i * direntSize
		n, err := fs.InodeRead(dirInum, buf[:], direntSize, off)
		if err != nil || n != direntSize {
			return NullInum, 0, err
		}
		de := decodeDirent(buf[:])
		if de.Inum != 0 && de.NameString() == name {
			return uint32(de.Inum), off, nil
		}
	}
	return NullInum, 0, nil
}

// dirIsEmpty reports whether a directory inode has no live (non-tombstone)
// entries left. Tombstones left behind by Unlink keep occupying their slot
// — directory size never shrinks, since slot reuse isn't implemented — so
// emptiness can't be read off di.Size directly; every entry has to be
// checked for a zero Inum.
func (fs *Filesystem) dirIsEmpty(dirInum uint32) (bool, error) {
	di, err := fs.readInode(dirInum)
	if err != nil {
		return false, err
	}
	count := di.Size / direntSize
	var buf [direntSize]byte
	for i := uint32(0); i < count; i++ {
		n, err := fs.InodeRead(dirInum, buf[:], direntSize, i*direntSize)
		if err != nil || n != direntSize {
			return false, err
		}
		if decodeDirent(buf[:]).Inum != 0 {
			return false, nil
		}
	}
	return true, nil
}

// lookup resolves path to an inode number, starting from RootInum.
// When parentOnly is set, resolution stops one level early and returns
// the parent directory's inode once the remaining suffix has no further
// components. A trailing slash is itself a further component to skip
// past before that empty-suffix check, so lookup("/a/b", true) and
// lookup("/a/b/", true) differ; this implementation keeps that
// distinction rather than normalizing it away.
func (fs *Filesystem) lookup(path string, parentOnly bool) (uint32, error) {
	if len(path) == 0 || len(path) >= MaxPath {
		return NullInum, newErr(KindBadArg, "lookup", path, nil)
	}
	if path[0] != '/' {
		return NullInum, newErr(KindBadArg, "lookup", path, nil)
	}
	inum := uint32(RootInum)
	rest := path[1:]
	for {
		if rest == "" {
			break
		}
		// take the next name component
		i := 0
		for i < len(rest) && rest[i] != '/' {
			i++
		}
		if i >= MaxName {
			return NullInum, newErr(KindBadArg, "lookup", path, nil)
		}
		name := rest[:i]
		rest = rest[i:]
		if rest == "" && parentOnly {
			break
		}
		// skip the run of slashes following the component
		j := 0
		for j < len(rest) && rest[j] == '/' {
			j++
		}
		rest = rest[j:]

		next, _, err := fs.dirLookup(inum, name)
		if err != nil {
			return NullInum, err
		}
		if next == NullInum {
			return NullInum, newErr(KindNotFound, "lookup", path, nil)
		}
		inum = next
	}
	return inum, nil
}

// Lookup resolves an absolute path to its inode number.
func (fs *Filesystem) Lookup(path string) (uint32, error) {
	if !fs.init {
		return NullInum, newErr(KindUninitialized, "Lookup", path, nil)
	}
	return fs.lookup(path, false)
}

// splitPath splits path into its parent portion and leaf name: scan
// from the end skipping trailing slashes, find the preceding slash,
// split there. Rejects empty paths, all-slash paths, and names that
// don't fit in MaxName-1 bytes.
func splitPath(path string) (parent, name string, err error) {
	if path == "" {
		return "", "", newErr(KindBadArg, "splitPath", path, nil)
	}
	end := len(path)
	for end > 0 && path[end-1] == '/' {
		end--
	}
	if end == 0 {
		// all slashes
		return "", "", newErr(KindBadArg, "splitPath", path, nil)
	}
	start := end
	for start > 0 && path[start-1] != '/' {
		start--
	}
	name = path[start:end]
	if len(name) > MaxName-1 {
		return "", "", newErr(KindBadArg, "splitPath", path, nil)
	}
	if start == 0 {
		// no leading slash found before the name: invalid (paths must be absolute)
		return "", "", newErr(KindBadArg, "splitPath", path, nil)
	}
	parent = path[:start-1]
	if parent == "" {
		parent = "/"
	}
	return parent, name, nil
}
