// Package bitmap implements the free-block bitmap allocator:
// scanning a github.com/boljen/go-bitmap bit array for the first clear bit.
// The bitmap is not an allocator-owned buffer -- boljen/go-bitmap.Bitmap is
// itself defined as a []byte, so wrapping the image's own bitmap-region
// slice gives every Set/Get call direct, cache-free access to the mapped
// image.
package bitmap

import (
	"fmt"

	gobitmap "github.com/boljen/go-bitmap"
	"github.com/sirupsen/logrus"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/layout"
)

// Allocator scans and mutates the free-block bitmap of one image.
type Allocator struct {
	bits layout.Superblock
	bm   gobitmap.Bitmap
	log  *logrus.Logger
}

// New wraps the bitmap region of image (as described by sb) for allocation.
func New(sb layout.Superblock, image []byte) *Allocator {
	return &Allocator{
		bits: sb,
		bm:   gobitmap.Bitmap(sb.BitmapRegionBytes(image)),
		log:  logrus.StandardLogger(),
	}
}

// WithLogger overrides the logger used for consistency warnings (§7).
func (a *Allocator) WithLogger(log *logrus.Logger) *Allocator {
	a.log = log
	return a
}

// Balloc scans the bitmap bit-by-bit starting at 0, returns the first clear
// bit whose block number is a valid data block, marks it allocated, zeroes
// the block's 512 bytes in image, and returns the block number. It fails
// fatally (ErrNoFreeBlock) if no free valid data block exists.
func (a *Allocator) Balloc(image []byte) (layout.BlockNum, error) {
	first := uint32(a.bits.FirstDataBlock())
	last := uint32(a.bits.LastDataBlock())

	for i := first; i <= last; i++ {
		if !a.bm.Get(int(i)) {
			a.bm.Set(int(i), true)
			block := layout.BlockNum(i)
			zeroed := a.bits.BlockBytes(image, block)
			for j := range zeroed {
				zeroed[j] = 0
			}
			return block, nil
		}
	}
	return 0, xv6fs.ErrNoFreeBlock
}

// Bfree validates that b is a data block (returning ErrInvalidBlock
// otherwise) and clears its bit. Clearing an already-clear bit is logged as
// a consistency warning, not an error (§7).
func (a *Allocator) Bfree(b layout.BlockNum) error {
	if !a.bits.IsValidDataBlock(b) {
		return xv6fs.ErrInvalidBlock.WithMessage(fmt.Sprintf("block %d", b))
	}

	if !a.bm.Get(int(b)) {
		a.log.Warnf("bfree: block %d is already free", b)
		return nil
	}
	a.bm.Set(int(b), false)
	return nil
}

// IsAllocated reports whether block b's bit is set. It does not validate
// that b is a data block.
func (a *Allocator) IsAllocated(b layout.BlockNum) bool {
	return a.bm.Get(int(b))
}

// SetRaw sets or clears block b's bit with no validation at all -- used by
// the raw field editor (§4.10), which bypasses every invariant by design to
// let a test harness construct deliberately corrupted images.
func (a *Allocator) SetRaw(b layout.BlockNum, v bool) {
	a.bm.Set(int(b), v)
}

// MarkReserved marks every block in [0, n) as allocated. Used once by the
// image builder (§4.9) to reserve the boot block, superblock, log, inode,
// and bitmap regions.
func (a *Allocator) MarkReserved(n layout.BlockNum) {
	for i := uint32(0); i < uint32(n); i++ {
		a.bm.Set(int(i), true)
	}
}

// Popcount returns the number of set bits across the whole bitmap, i.e. the
// number of allocated blocks (reserved prefix plus live data blocks). Used
// by diskinfo (§4.8) and testable property P1.
func (a *Allocator) Popcount() int {
	count := 0
	for i := 0; i < int(a.bits.Size); i++ {
		if a.bm.Get(i) {
			count++
		}
	}
	return count
}
