package modfs

import (
	"encoding/binary"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// DirentEdit is the value half of a Dirent call: either a new inum to
// write, or Delete to zero the whole 16-byte record.
type DirentEdit struct {
	Inum   uint32
	Delete bool
}

// Dirent reads, or when edit is non-nil overwrites, the inum field of the
// entry named name inside the directory at path. An edit with Delete set
// zeroes the entire record (inum and name); otherwise only the 2-byte inum
// field is rewritten, leaving the name bytes untouched even if the new inum
// is out of range or already appears elsewhere.
func (c *Context) Dirent(path, name string, edit *DirentEdit) (uint32, error) {
	root, err := c.Img.Root()
	if err != nil {
		return 0, err
	}
	dir, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	if err != nil {
		return 0, err
	}
	if !dir.IsDir() {
		return 0, xv6fs.ErrNotDirectory.WithMessage(path)
	}

	entry, found, err := dirent.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, dir, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, xv6fs.ErrNotFound.WithMessage(name)
	}

	if edit == nil {
		return uint32(entry.Inum), nil
	}
	if edit.Delete {
		if err := dirent.RemoveEntry(dir, c.Img.Alloc, c.Img.Bytes, entry.Offset); err != nil {
			return 0, err
		}
		return 0, nil
	}

	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(edit.Inum))
	if _, err := inode.Write(dir, c.Img.Alloc, c.Img.Bytes, buf, entry.Offset); err != nil {
		return 0, err
	}
	return edit.Inum, nil
}
