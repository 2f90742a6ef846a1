package ops

import (
	"path"
	"strings"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// Ln implements the ln operation of §4.8: src must be a regular file
// (directories cannot be hard-linked). dst is resolved the same way as cp
// and mv; unlike mv, a name collision at the resolved entry is always an
// error -- ln never replaces an existing entry.
func (c *Context) Ln(src, dst string) error {
	root, err := c.root()
	if err != nil {
		return err
	}

	srcRef, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, src)
	if err != nil {
		return err
	}
	if !srcRef.IsFile() {
		return xv6fs.ErrNotRegularFile.WithMessage(src)
	}

	parent, name, existing, err := c.destInsertionPoint(root, dst, path.Base(strings.TrimRight(src, "/")))
	if err != nil {
		return err
	}
	if existing != nil {
		return xv6fs.ErrExists.WithMessage(dst)
	}

	return dirent.AddEntry(c.Img.SB, c.Img.Bytes, c.Img.Alloc, parent, name, srcRef)
}
