package image

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// Geometry is the set of parameters a fresh image is built from: total size
// in blocks, inode count, and log region size in blocks.
type Geometry struct {
	Size    uint32
	NInodes uint32
	NLog    uint32
}

func ceilDivU32(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// validate checks g against the constraints setupfs needs before it ever
// touches data, aggregating every violation instead of stopping at the
// first one -- a malformed newfs invocation usually gets several parameters
// wrong at once, and reporting them together saves a round trip.
func (g Geometry) validate(bufLen int) error {
	var errs *multierror.Error
	if g.Size == 0 {
		errs = multierror.Append(errs, fmt.Errorf("size must be greater than zero"))
	}
	if g.NInodes == 0 {
		errs = multierror.Append(errs, fmt.Errorf("ninodes must be greater than zero"))
	}
	if g.NLog == 0 {
		errs = multierror.Append(errs, fmt.Errorf("nlog must be greater than zero"))
	}
	if errs.ErrorOrNil() != nil {
		return errs
	}

	logStart := uint32(2)
	inodeStart := logStart + g.NLog
	niBlocks := ceilDivU32(g.NInodes, xv6fs.IPB)
	bmapStart := inodeStart + niBlocks
	nmBlocks := ceilDivU32(g.Size, xv6fs.BSIZE*8)
	dataStart := bmapStart + nmBlocks

	if dataStart >= g.Size {
		errs = multierror.Append(errs, fmt.Errorf(
			"size %d blocks is too small to hold log+inode+bitmap regions (need at least %d blocks plus one data block)",
			g.Size, dataStart+1))
	}
	if uint32(bufLen) != g.Size*xv6fs.BSIZE {
		errs = multierror.Append(errs, fmt.Errorf(
			"backing buffer is %d bytes, want %d for a %d-block image", bufLen, g.Size*xv6fs.BSIZE, g.Size))
	}
	return errs.ErrorOrNil()
}

// Setup implements §4.9 setupfs/newfs: zeroes data, lays out the log, inode,
// and bitmap regions against g, writes the superblock, reserves the
// metadata prefix in the bitmap, and creates the root directory (inode 1)
// with "." and ".." entries pointing at itself.
func Setup(data []byte, g Geometry) error {
	if err := g.validate(len(data)); err != nil {
		return err
	}

	logStart := uint32(2)
	inodeStart := logStart + g.NLog
	niBlocks := ceilDivU32(g.NInodes, xv6fs.IPB)
	bmapStart := inodeStart + niBlocks
	nmBlocks := ceilDivU32(g.Size, xv6fs.BSIZE*8)
	dataStart := bmapStart + nmBlocks

	for i := range data {
		data[i] = 0
	}

	sb := layout.Superblock{
		Magic:      xv6fs.Magic,
		Size:       g.Size,
		NBlocks:    g.Size - dataStart,
		NInodes:    g.NInodes,
		NLog:       g.NLog,
		LogStart:   logStart,
		InodeStart: inodeStart,
		BmapStart:  bmapStart,
	}
	if err := sb.WriteTo(data); err != nil {
		return err
	}

	alloc := bitmap.New(sb, data)
	alloc.MarkReserved(layout.BlockNum(dataStart))

	root, err := inode.Alloc(sb, data, xv6fs.TDir)
	if err != nil {
		return err
	}
	if root.Num != xv6fs.RootInum {
		return xv6fs.ErrCorrupt.WithMessage("ialloc did not return inode 1 for the root directory")
	}

	if err := dirent.AddEntry(sb, data, alloc, root, ".", root); err != nil {
		return err
	}
	if err := dirent.AddEntry(sb, data, alloc, root, "..", root); err != nil {
		return err
	}
	return nil
}
