// Package dirent implements directory operations: a directory is a file
// whose bytes are a sequence of 16-byte entries, and this package
// enumerates, looks up, inserts, and erases them while maintaining nlink
// bookkeeping.
package dirent

import (
	"bytes"
	"encoding/binary"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// Entry is a decoded directory entry.
type Entry struct {
	Inum   layout.InodeNum
	Name   string
	Offset int64 // byte offset within the directory's data, for callers that need to rewrite it in place
}

// decode reads one 16-byte record at raw[0:DirentSize].
func decode(raw []byte, offset int64) Entry {
	inum := binary.LittleEndian.Uint16(raw[0:2])
	nameBytes := raw[2 : 2+xv6fs.DirentNameSize]
	end := bytes.IndexByte(nameBytes, 0)
	if end < 0 {
		end = len(nameBytes)
	}
	return Entry{Inum: layout.InodeNum(inum), Name: string(nameBytes[:end]), Offset: offset}
}

func encode(raw []byte, inum layout.InodeNum, name string) {
	for i := range raw[:xv6fs.DirentSize] {
		raw[i] = 0
	}
	binary.LittleEndian.PutUint16(raw[0:2], uint16(inum))
	copy(raw[2:2+xv6fs.DirentNameSize], name)
}

// namesEqual compares two directory-entry names up to DirentNameSize bytes,
// treating an equal prefix followed by a NUL in either string as a match.
func namesEqual(a, b string) bool {
	if len(a) > xv6fs.DirentNameSize {
		a = a[:xv6fs.DirentNameSize]
	}
	if len(b) > xv6fs.DirentNameSize {
		b = b[:xv6fs.DirentNameSize]
	}
	return a == b
}

// List enumerates every entry of dir, including free slots (Inum == 0).
func List(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, dir inode.Ref) ([]Entry, error) {
	size := dir.Size()
	entries := make([]Entry, 0, size/xv6fs.DirentSize)
	buf := make([]byte, xv6fs.DirentSize)

	for off := int64(0); off < size; off += xv6fs.DirentSize {
		n, err := inode.Read(dir, alloc, image, buf, off)
		if err != nil {
			return nil, err
		}
		if n < xv6fs.DirentSize {
			break
		}
		entries = append(entries, decode(buf, off))
	}
	return entries, nil
}

// Lookup returns the first entry of dir whose name matches (§4.6 dlookup).
// Free slots (Inum == 0) are examined but never match.
func Lookup(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, dir inode.Ref, name string) (Entry, bool, error) {
	entries, err := List(sb, image, alloc, dir)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.Inum == 0 {
			continue
		}
		if namesEqual(e.Name, name) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// AddEntry implements §4.6 daddent: scans for a free slot while checking
// for a name collision, reuses the first free slot found (or appends a new
// one by growing the directory), writes the new entry, and bumps the
// target's nlink unless name is ".".
func AddEntry(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, dir inode.Ref, name string, target inode.Ref) error {
	entries, err := List(sb, image, alloc, dir)
	if err != nil {
		return err
	}

	freeOffset := int64(-1)
	for _, e := range entries {
		if e.Inum == 0 {
			if freeOffset < 0 {
				freeOffset = e.Offset
			}
			continue
		}
		if namesEqual(e.Name, name) {
			return xv6fs.ErrExists.WithMessage("directory entry " + name + " already exists")
		}
	}

	buf := make([]byte, xv6fs.DirentSize)
	encode(buf, target.Num, name)

	if freeOffset < 0 {
		freeOffset = dir.Size()
	}
	if _, err := inode.Write(dir, alloc, image, buf, freeOffset); err != nil {
		return err
	}

	if name != "." {
		target.IncNlink(1)
	}
	return nil
}

// RemoveEntry zeroes the full 16-byte record at offset, scrubbing the name
// as well as the inum so no stale bytes remain (§4.7 iunlink).
func RemoveEntry(dir inode.Ref, alloc *bitmap.Allocator, image []byte, offset int64) error {
	zero := make([]byte, xv6fs.DirentSize)
	_, err := inode.Write(dir, alloc, image, zero, offset)
	return err
}

// IsEmpty reports whether dir contains exactly the two entries "." and
// ".." (invariant 5): true iff exactly two entries have a nonzero Inum.
func IsEmpty(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, dir inode.Ref) (bool, error) {
	entries, err := List(sb, image, alloc, dir)
	if err != nil {
		return false, err
	}
	count := 0
	for _, e := range entries {
		if e.Inum != 0 {
			count++
		}
	}
	return count == 2, nil
}

// FixParentLink implements §4.6 dmkparlink: overwrites child's existing
// ".." entry to point at parent, and increments parent's nlink. Used after
// moving a directory to a new parent.
func FixParentLink(sb layout.Superblock, image []byte, alloc *bitmap.Allocator, child inode.Ref, parent inode.Ref) error {
	entry, found, err := Lookup(sb, image, alloc, child, "..")
	if err != nil {
		return err
	}
	if !found {
		return xv6fs.ErrCorrupt.WithMessage("directory missing \"..\" entry")
	}

	buf := make([]byte, xv6fs.DirentSize)
	encode(buf, parent.Num, "..")
	if _, err := inode.Write(child, alloc, image, buf, entry.Offset); err != nil {
		return err
	}
	parent.IncNlink(1)
	return nil
}
