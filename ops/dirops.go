package ops

import (
	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// Mkdir implements the mkdir operation of §4.8.
func (c *Context) Mkdir(path string) error {
	root, err := c.root()
	if err != nil {
		return err
	}
	_, err = pathwalk.Create(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path, xv6fs.TDir)
	return err
}

// Rmdir implements the rmdir operation of §4.8: refuses a non-empty
// directory (invariant 5), otherwise unlinks it.
func (c *Context) Rmdir(path string) error {
	root, err := c.root()
	if err != nil {
		return err
	}
	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	if err != nil {
		return err
	}
	if !target.IsDir() {
		return xv6fs.ErrNotDirectory.WithMessage(path)
	}
	if target.Num == xv6fs.RootInum {
		return xv6fs.ErrInvalidArgs.WithMessage("cannot remove the root directory")
	}

	empty, err := dirent.IsEmpty(c.Img.SB, c.Img.Bytes, c.Img.Alloc, target)
	if err != nil {
		return err
	}
	if !empty {
		return xv6fs.ErrNotEmpty.WithMessage(path)
	}
	return pathwalk.Unlink(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path, c.Log)
}
