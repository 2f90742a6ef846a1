package ops

import (
	"errors"
	"io"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// Get implements the get operation of §4.8: streams the target file's
// contents to w.
func (c *Context) Get(path string, w io.Writer) error {
	root, err := c.root()
	if err != nil {
		return err
	}
	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	if err != nil {
		return err
	}
	if !target.IsFile() {
		return xv6fs.ErrNotRegularFile.WithMessage(path)
	}

	buf := make([]byte, xv6fs.BufSize)
	var off int64
	for {
		n, err := inode.Read(target, c.Img.Alloc, c.Img.Bytes, buf, off)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, werr := w.Write(buf[:n]); werr != nil {
			return xv6fs.ErrInvalidArgs.Wrap(werr)
		}
		off += int64(n)
	}
}

// Put implements the put operation of §4.8: creates path as a new file (or
// truncates an existing one) and fills it with r's contents.
func (c *Context) Put(path string, r io.Reader) error {
	root, err := c.root()
	if err != nil {
		return err
	}

	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	switch {
	case err == nil:
		if !target.IsFile() {
			return xv6fs.ErrNotRegularFile.WithMessage(path)
		}
		if err := inode.Truncate(target, c.Img.Alloc, c.Img.Bytes, 0); err != nil {
			return err
		}
	case errors.Is(err, xv6fs.ErrNotFound):
		target, err = pathwalk.Create(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path, xv6fs.TFile)
		if err != nil {
			return err
		}
	default:
		return err
	}

	buf := make([]byte, xv6fs.BufSize)
	var off int64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := inode.Write(target, c.Img.Alloc, c.Img.Bytes, buf[:n], off); werr != nil {
				return werr
			}
			off += int64(n)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return xv6fs.ErrInvalidArgs.Wrap(rerr)
		}
	}
}

// Rm implements the rm operation of §4.8: unlinks a non-directory entry.
func (c *Context) Rm(path string) error {
	root, err := c.root()
	if err != nil {
		return err
	}
	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	if err != nil {
		return err
	}
	if target.IsDir() {
		return xv6fs.ErrIsDirectory.WithMessage(path)
	}
	return pathwalk.Unlink(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path, c.Log)
}
