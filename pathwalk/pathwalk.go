// Package pathwalk implements the path resolver: walking a
// slash-separated path to an inode, starting from a root (always inode 1
// for top-level calls). There is no symlink-following or mount-relative
// working directory -- symbolic links are out of scope entirely -- and
// resolution is built directly around inode.Ref since there is exactly one
// file system here.
package pathwalk

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// SkipElem consumes one path component: leading separators are skipped, one
// component is taken up to the next separator or the end of the string, and
// the name is truncated to at most DirentNameSize bytes (§4.7).
func SkipElem(path string) (elem string, rest string) {
	i := 0
	for i < len(path) && path[i] == '/' {
		i++
	}
	path = path[i:]

	j := 0
	for j < len(path) && path[j] != '/' {
		j++
	}
	elem = path[:j]
	rest = path[j:]

	if len(elem) > xv6fs.DirentNameSize {
		elem = elem[:xv6fs.DirentNameSize]
	}
	return elem, rest
}

// isEmptyPath reports whether path is empty or consists entirely of
// separators, the case ilookup resolves directly to root.
func isEmptyPath(path string) bool {
	return strings.Trim(path, "/") == ""
}

// Lookup implements §4.7 ilookup: repeatedly consumes path components
// starting at root. An empty path resolves to root. Every non-terminal
// component must name a directory; the terminal component may name any
// type.
func Lookup(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, root inode.Ref, path string) (inode.Ref, error) {
	if isEmptyPath(path) {
		return root, nil
	}

	cur := root
	elem, rest := SkipElem(path)

	for elem != "" {
		if !cur.IsDir() {
			return inode.Ref{}, xv6fs.ErrNotDirectory.WithMessage(elem)
		}

		next, found, err := dirent.Lookup(sb, image, alloc, cur, elem)
		if err != nil {
			return inode.Ref{}, err
		}
		if !found {
			return inode.Ref{}, xv6fs.ErrNotFound.WithMessage(elem)
		}

		cur, err = inode.Get(sb, image, next.Inum)
		if err != nil {
			return inode.Ref{}, err
		}

		elem, rest = SkipElem(rest)
	}
	return cur, nil
}

// Split implements §4.7 splitpath: returns the trailing path component and
// the prefix up to (not including) its leading separator(s).
func Split(path string) (dirPart, base string) {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx < 0 {
		return "", trimmed
	}
	return trimmed[:idx], trimmed[idx+1:]
}

// WalkToParent resolves the directory portion of path and returns it along
// with the final component's name, truncated to DirentNameSize bytes. It is
// the shared first half of icreat and iunlink.
func WalkToParent(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, root inode.Ref, path string) (parent inode.Ref, base string, err error) {
	dirPart, base := Split(path)
	if len(base) > xv6fs.DirentNameSize {
		base = base[:xv6fs.DirentNameSize]
	}
	parent, err = Lookup(sb, image, alloc, root, dirPart)
	if err != nil {
		return inode.Ref{}, "", err
	}
	if !parent.IsDir() {
		return inode.Ref{}, "", xv6fs.ErrNotDirectory.WithMessage(dirPart)
	}
	return parent, base, nil
}

// Create implements §4.7 icreat: walks path except for the last component,
// which must be non-empty and must not already exist in its parent.
// Allocates a new inode of typ, adds the directory entry, and -- for
// directories -- additionally adds "." and ".." entries inside the new
// directory.
func Create(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, root inode.Ref, path string, typ int) (inode.Ref, error) {
	parent, base, err := WalkToParent(sb, image, alloc, root, path)
	if err != nil {
		return inode.Ref{}, err
	}
	if base == "" {
		return inode.Ref{}, xv6fs.ErrInvalidName.WithMessage("empty path component")
	}

	if _, found, err := dirent.Lookup(sb, image, alloc, parent, base); err != nil {
		return inode.Ref{}, err
	} else if found {
		return inode.Ref{}, xv6fs.ErrExists.WithMessage(base)
	}

	child, err := inode.Alloc(sb, image, typ)
	if err != nil {
		return inode.Ref{}, err
	}

	if err := dirent.AddEntry(sb, image, alloc, parent, base, child); err != nil {
		return inode.Ref{}, err
	}

	if typ == xv6fs.TDir {
		if err := dirent.AddEntry(sb, image, alloc, child, ".", child); err != nil {
			return inode.Ref{}, err
		}
		if err := dirent.AddEntry(sb, image, alloc, child, "..", parent); err != nil {
			return inode.Ref{}, err
		}
	}

	return child, nil
}

// Unlink implements §4.7 iunlink: walks to the parent of the terminal
// component, refuses to unlink "." or "..", and delegates the rest to
// UnlinkEntry.
func Unlink(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, root inode.Ref, path string, log *logrus.Logger) error {
	parent, base, err := WalkToParent(sb, image, alloc, root, path)
	if err != nil {
		return err
	}
	if base == "." || base == ".." {
		return xv6fs.ErrInvalidArgs.WithMessage("cannot unlink \".\" or \"..\"")
	}
	return UnlinkEntry(sb, image, alloc, parent, base, log)
}

// UnlinkEntry removes the entry named name from parent, zeroing the dirent
// and adjusting nlink counts: the parent loses a link if the removed entry
// was a subdirectory whose ".." still pointed back at parent, the target
// always loses one, and a target whose nlink reaches zero has its data
// truncated away (unless it is a device) and is freed. This is the generic
// half of §4.7 iunlink, reused by callers that have already resolved a
// (parent, name) pair directly -- e.g. a rename that relinks an entry under
// a new name before removing the old one.
func UnlinkEntry(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, parent inode.Ref, name string, log *logrus.Logger) error {
	entry, found, err := dirent.Lookup(sb, image, alloc, parent, name)
	if err != nil {
		return err
	}
	if !found {
		return xv6fs.ErrNotFound.WithMessage(name)
	}

	target, err := inode.Get(sb, image, entry.Inum)
	if err != nil {
		return err
	}

	if err := dirent.RemoveEntry(parent, alloc, image, entry.Offset); err != nil {
		return err
	}

	if target.IsDir() {
		if parentEntry, found, err := dirent.Lookup(sb, image, alloc, target, ".."); err == nil && found && parentEntry.Inum == parent.Num {
			parent.IncNlink(-1)
		}
	}

	target.IncNlink(-1)
	if target.Nlink() <= 0 {
		if !target.IsDevice() {
			if err := inode.Truncate(target, alloc, image, 0); err != nil {
				return err
			}
		}
		inode.Free(target, log)
	}
	return nil
}
