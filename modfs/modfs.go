// Package modfs implements the raw field editor: direct,
// unchecked read/write access to superblock fields, bitmap bits, per-inode
// fields, and dirent inum slots. None of these operations enforce the
// invariants ops and pathwalk maintain -- that is the point. This is the
// test harness's way of constructing deliberately corrupted images to
// exercise consistency-warning and invalid-argument paths elsewhere.
package modfs

import (
	"github.com/xv6tools/xv6fs/image"
)

// Context is the handle every raw edit in this package is a method of.
type Context struct {
	Img *image.Image
}

// New wraps img for raw field access.
func New(img *image.Image) *Context {
	return &Context{Img: img}
}
