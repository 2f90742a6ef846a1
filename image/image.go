// Package image ties the lower-level packages together into one handle over
// a mapped xv6 file-system image, and provides the builder that formats a
// fresh image from scratch.
//
// Nothing here owns the backing bytes: Image borrows a []byte a front end
// supplies (an mmap-ed file, or a plain buffer in tests) -- every caller
// threads its own handle instead of reaching for a package-level singleton.
package image

import (
	"github.com/sirupsen/logrus"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// Image is a live handle to one xv6 file-system image: the superblock read
// from it, an allocator over its bitmap region, and the raw bytes both
// operate on.
type Image struct {
	Bytes []byte
	SB    layout.Superblock
	Alloc *bitmap.Allocator
	Log   *logrus.Logger
}

// Open reads and validates the superblock at the front of data and wraps the
// rest into an Image. data is borrowed, not copied; callers are responsible
// for persisting it (e.g. by mmapping the backing file MAP_SHARED).
func Open(data []byte, log *logrus.Logger) (*Image, error) {
	sb, err := layout.ReadSuperblock(data)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Image{
		Bytes: data,
		SB:    sb,
		Alloc: bitmap.New(sb, data).WithLogger(log),
		Log:   log,
	}, nil
}

// Root returns a Ref for the root directory (inode 1).
func (img *Image) Root() (inode.Ref, error) {
	return inode.Get(img.SB, img.Bytes, xv6fs.RootInum)
}
