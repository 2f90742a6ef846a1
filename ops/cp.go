package ops

import (
	"path"
	"strings"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// Cp implements the cp operation of §4.8: copies a regular file's bytes
// into a new or existing regular-file entry at dst, leaving src untouched.
func (c *Context) Cp(src, dst string) error {
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

	var target inode.Ref
	if existing != nil {
		if !existing.IsFile() {
			return xv6fs.ErrNotRegularFile.WithMessage(dst)
		}
		target = *existing
		if err := inode.Truncate(target, c.Img.Alloc, c.Img.Bytes, 0); err != nil {
			return err
		}
	} else {
		target, err = inode.Alloc(c.Img.SB, c.Img.Bytes, xv6fs.TFile)
		if err != nil {
			return err
		}
		if err := dirent.AddEntry(c.Img.SB, c.Img.Bytes, c.Img.Alloc, parent, name, target); err != nil {
			return err
		}
	}

	buf := make([]byte, xv6fs.BufSize)
	var off int64
	for {
		n, err := inode.Read(srcRef, c.Img.Alloc, c.Img.Bytes, buf, off)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := inode.Write(target, c.Img.Alloc, c.Img.Bytes, buf[:n], off); err != nil {
			return err
		}
		off += int64(n)
	}
}
