package ops

import (
	"path"
	"strings"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// Mv implements the mv operation of §4.8: relinks src under a new name at
// dst, then removes the original entry. A directory is moved by linking it
// into the new parent and rewriting its ".." entry with dirent.FixParentLink
// once the old location has released its own link -- a link-then-unlink
// sequence that keeps nlink correct for both the old and new parent without
// a special rollback path.
func (c *Context) Mv(src, dst string) error {
	root, err := c.root()
	if err != nil {
		return err
	}

	srcRef, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, src)
	if err != nil {
		return err
	}
	if srcRef.Num == xv6fs.RootInum {
		return xv6fs.ErrInvalidArgs.WithMessage("cannot move the root directory")
	}

	srcBase := path.Base(strings.TrimRight(src, "/"))
	parent, name, existing, err := c.destInsertionPoint(root, dst, srcBase)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Num == srcRef.Num {
			return xv6fs.ErrInvalidArgs.WithMessage("source and destination are the same entry")
		}
		if existing.Type() != srcRef.Type() {
			return xv6fs.ErrInvalidArgs.WithMessage("mv: source and destination types differ")
		}
		if existing.IsDir() {
			empty, err := dirent.IsEmpty(c.Img.SB, c.Img.Bytes, c.Img.Alloc, *existing)
			if err != nil {
				return err
			}
			if !empty {
				return xv6fs.ErrNotEmpty.WithMessage(dst)
			}
		}
		if err := pathwalk.UnlinkEntry(c.Img.SB, c.Img.Bytes, c.Img.Alloc, parent, name, c.Log); err != nil {
			return err
		}
	}

	if err := dirent.AddEntry(c.Img.SB, c.Img.Bytes, c.Img.Alloc, parent, name, srcRef); err != nil {
		return err
	}
	if err := pathwalk.Unlink(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, src, c.Log); err != nil {
		return err
	}
	if srcRef.IsDir() {
		if err := dirent.FixParentLink(c.Img.SB, c.Img.Bytes, c.Img.Alloc, srcRef, parent); err != nil {
			return err
		}
	}
	return nil
}
