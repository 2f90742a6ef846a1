// Package ops implements the high-level, path-based operations a front end
// drives: ls, get, put, rm, cp, mv, ln, mkdir, rmdir, info,
// and diskinfo. Every operation resolves its path arguments through
// pathwalk and dirent against one *image.Image and leaves nlink/bitmap
// bookkeeping to the packages beneath it.
package ops

import (
	"github.com/sirupsen/logrus"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/image"
	"github.com/xv6tools/xv6fs/inode"
)

// Context is the handle every operation in this package is a method of.
type Context struct {
	Img *image.Image
	Log *logrus.Logger
}

// New wraps img for use by the operations in this package.
func New(img *image.Image, log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Context{Img: img, Log: log}
}

func (c *Context) root() (inode.Ref, error) {
	return c.Img.Root()
}

// TypeName renders an inode type constant as the short name used in ls and
// info output.
func TypeName(t int) string {
	switch t {
	case xv6fs.TDir:
		return "dir"
	case xv6fs.TFile:
		return "file"
	case xv6fs.TDev:
		return "dev"
	default:
		return "free"
	}
}
