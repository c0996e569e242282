package uxfs

// resolveParentDir splits path into (parent, leaf name), resolves the
// parent by calling lookup on the *original* path with parentOnly set
// (rather than looking up the split parent substring directly, so the
// trailing-slash distinction in lookup applies uniformly across
// Mknod/Link/Unlink), and checks it is a directory.
func (fs *Filesystem) resolveParentDir(path string) (parentInum uint32, name string, err error) {
	_, name, err = splitPath(path)
	if err != nil {
		return NullInum, "", err
	}
	parentInum, err = fs.lookup(path, true)
	if err != nil {
		return NullInum, "", err
	}
	di, err := fs.readInode(parentInum)
	if err != nil {
		return NullInum, "", err
	}
	if di.Type != TDir {
		return NullInum, "", newErr(KindNotDir, "resolveParentDir", path, nil)
	}
	return parentInum, name, nil
}

// Mknod creates a new inode of type t, links it into its parent
// directory under the leaf name in path, and sets its link count to 1.
func (fs *Filesystem) Mknod(path string, t InodeType) (uint32, error) {
	if !fs.init {
		return NullInum, newErr(KindUninitialized, "Mknod", path, nil)
	}
	parentInum, name, err := fs.resolveParentDir(path)
	if err != nil {
		fs.logf("mknod: parent directory not found for %s: %v", path, err)
		return NullInum, err
	}
	if existing, _, _ := fs.dirLookup(parentInum, name); existing != NullInum {
		fs.logf("mknod: %s already exists", path)
		return NullInum, newErr(KindExists, "Mknod", path, nil)
	}
	parentDi, err := fs.readInode(parentInum)
	if err != nil {
		return NullInum, err
	}

	newInum, ok, err := fs.allocInode(t)
	if err != nil {
		return NullInum, err
	}
	if !ok {
		fs.logf("mknod: failed to allocate inode for %s", path)
		return NullInum, newErr(KindNoSpace, "Mknod", path, nil)
	}

	de := newDirent(uint16(newInum), name)
	enc := de.encode()
	n, err := fs.InodeWrite(parentInum, enc[:], direntSize, parentDi.Size)
	if err != nil || n != direntSize {
		if ferr := fs.freeInode(newInum); ferr != nil {
			fs.logf("mknod: failed to free inode %d after failed link: %v", newInum, ferr)
		}
		fs.logf("mknod: failed to link %s into parent", path)
		if err != nil {
			return NullInum, err
		}
		return NullInum, newErr(KindNoSpace, "Mknod", path, nil)
	}

	newDi, err := fs.readInode(newInum)
	if err != nil {
		return NullInum, err
	}
	newDi.LinkCnt = 1
	if err := fs.writeInode(newInum, newDi); err != nil {
		return NullInum, err
	}
	return newInum, nil
}

// Link creates newPath as a second name for the inode oldPath resolves
// to, incrementing its link count. The directory-entry slot is always
// appended at the end of the directory; tombstone slots are not
// reused.
func (fs *Filesystem) Link(newPath, oldPath string) error {
	if !fs.init {
		return newErr(KindUninitialized, "Link", newPath, nil)
	}
	existingInum, err := fs.lookup(oldPath, false)
	if err != nil {
		fs.logf("link: %s not found", oldPath)
		return err
	}

	parentInum, name, err := fs.resolveParentDir(newPath)
	if err != nil {
		fs.logf("link: parent directory not found for %s: %v", newPath, err)
		return err
	}
	if existing, _, _ := fs.dirLookup(parentInum, name); existing != NullInum {
		fs.logf("link: %s already exists", newPath)
		return newErr(KindExists, "Link", newPath, nil)
	}
	parentDi, err := fs.readInode(parentInum)
	if err != nil {
		return err
	}

	de := newDirent(uint16(existingInum), name)
	enc := de.encode()
	n, err := fs.InodeWrite(parentInum, enc[:], direntSize, parentDi.Size)
	if err != nil || n != direntSize {
		fs.logf("link: failed to append to %s", newPath)
		if err != nil {
			return err
		}
		return newErr(KindNoSpace, "Link", newPath, nil)
	}

	targetDi, err := fs.readInode(existingInum)
	if err != nil {
		return err
	}
	targetDi.LinkCnt++
	return fs.writeInode(existingInum, targetDi)
}

// Unlink removes the directory entry path refers to, decrementing its
// inode's link count and freeing the inode once the count reaches zero.
// Fails with KindNotEmpty if the target is a non-empty directory.
func (fs *Filesystem) Unlink(path string) error {
	if !fs.init {
		return newErr(KindUninitialized, "Unlink", path, nil)
	}
	parentInum, name, err := fs.resolveParentDir(path)
	if err != nil {
		fs.logf("unlink: parent directory not found for %s: %v", path, err)
		return err
	}

	targetInum, off, err := fs.dirLookup(parentInum, name)
	if err != nil {
		return err
	}
	if targetInum == NullInum {
		fs.logf("unlink: %s not found", path)
		return newErr(KindNotFound, "Unlink", path, nil)
	}

	targetDi, err := fs.readInode(targetInum)
	if err != nil {
		return err
	}
	if targetDi.Type == TDir {
		empty, err := fs.dirIsEmpty(targetInum)
		if err != nil {
			return err
		}
		if !empty {
			fs.logf("unlink: %s is a non-empty directory", path)
			return newErr(KindNotEmpty, "Unlink", path, nil)
		}
	}

	var zero [direntSize]byte
	n, err := fs.InodeWrite(parentInum, zero[:], direntSize, off)
	if err != nil {
		return err
	}
	if n != direntSize {
		return newErr(KindBadState, "Unlink", path, nil)
	}

	targetDi.LinkCnt--
	if targetDi.LinkCnt == 0 {
		return fs.freeInode(targetInum)
	}
	return fs.writeInode(targetInum, targetDi)
}
