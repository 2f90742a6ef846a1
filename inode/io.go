package inode

import (
	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
)

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Read implements §4.5 iread. Device inodes fail immediately. A request
// with off beyond the file's size, or whose off+n would overflow, fails
// immediately. A request extending past size is clipped to size -- this is
// what keeps allocation-during-read (§4.4) from firing in practice, per the
// "clip-first rule" in Design Notes §9.
func Read(r Ref, alloc *bitmap.Allocator, image []byte, buf []byte, off int64) (int, error) {
	if r.IsDevice() {
		return 0, xv6fs.ErrIsDevice.WithMessage("cannot read a device inode")
	}

	size := r.Size()
	n := int64(len(buf))
	if off < 0 || off > size || off+n < off {
		return 0, xv6fs.ErrInvalidArgs.WithMessage("read offset out of range")
	}
	if off+n > size {
		n = size - off
	}

	var copied int64
	for copied < n {
		logicalBlock := int((off + copied) / xv6fs.BSIZE)
		blockOff := (off + copied) % xv6fs.BSIZE
		chunk := min(n-copied, xv6fs.BSIZE-blockOff)

		physical, err := BlockMap(r, alloc, image, logicalBlock)
		if err != nil {
			return int(copied), err
		}

		src := r.sb.BlockBytes(image, physical)[blockOff : blockOff+chunk]
		copy(buf[copied:copied+chunk], src)
		copied += chunk
	}
	return int(copied), nil
}

// Write implements §4.5 iwrite. Preconditions mirror Read except the upper
// bound is MaxFileBytes and there is no clipping -- the write may extend
// the file, growing inode.Size to reflect the new high-water mark.
func Write(r Ref, alloc *bitmap.Allocator, image []byte, data []byte, off int64) (int, error) {
	if r.IsDevice() {
		return 0, xv6fs.ErrIsDevice.WithMessage("cannot write a device inode")
	}

	n := int64(len(data))
	if off < 0 || off+n < off || off+n > xv6fs.MaxFileBytes {
		return 0, xv6fs.ErrFileTooLarge.WithMessage("write would exceed MAXFILE")
	}

	var written int64
	for written < n {
		logicalBlock := int((off + written) / xv6fs.BSIZE)
		blockOff := (off + written) % xv6fs.BSIZE
		chunk := min(n-written, xv6fs.BSIZE-blockOff)

		physical, err := BlockMap(r, alloc, image, logicalBlock)
		if err != nil {
			return int(written), err
		}

		dst := r.sb.BlockBytes(image, physical)[blockOff : blockOff+chunk]
		copy(dst, data[written:written+chunk])
		written += chunk
	}

	if off+written > r.Size() {
		r.SetSize(off + written)
	}
	return int(written), nil
}

// Truncate implements §4.5 itruncate. Device inodes and sizes over MAXFILE
// are rejected. Shrinking frees direct and indirect slots beyond the new
// size, zeroing each freed slot and the indirect block pointer itself once
// it is no longer needed (invariant 7). Growing zero-fills the new range
// through Write, exercising the same allocate-on-demand path as an
// ordinary write.
func Truncate(r Ref, alloc *bitmap.Allocator, image []byte, newSize int64) error {
	if r.IsDevice() {
		return xv6fs.ErrIsDevice.WithMessage("cannot truncate a device inode")
	}
	if newSize < 0 || newSize > xv6fs.MaxFileBytes {
		return xv6fs.ErrFileTooLarge
	}

	size := r.Size()
	if newSize < size {
		nBlocks := (size + xv6fs.BSIZE - 1) / xv6fs.BSIZE
		kBlocks := (newSize + xv6fs.BSIZE - 1) / xv6fs.BSIZE

		directFrom := kBlocks
		if directFrom > xv6fs.NDIRECT {
			directFrom = xv6fs.NDIRECT
		}
		directTo := nBlocks
		if directTo > xv6fs.NDIRECT {
			directTo = xv6fs.NDIRECT
		}
		for i := directFrom; i < directTo; i++ {
			if b := r.Addr(int(i)); b != 0 {
				if err := alloc.Bfree(b); err != nil {
					return err
				}
				r.SetAddr(int(i), 0)
			}
		}

		if nBlocks > xv6fs.NDIRECT {
			indFrom := kBlocks - xv6fs.NDIRECT
			if indFrom < 0 {
				indFrom = 0
			}
			indTo := nBlocks - xv6fs.NDIRECT
			indirect := r.Addr(xv6fs.NDIRECT)
			if indirect != 0 {
				for i := indFrom; i < indTo; i++ {
					if b := IndirectAddr(r, image, int(i)); b != 0 {
						if err := alloc.Bfree(b); err != nil {
							return err
						}
						SetIndirectAddr(r, image, int(i), 0)
					}
				}
				if kBlocks <= xv6fs.NDIRECT {
					if err := alloc.Bfree(indirect); err != nil {
						return err
					}
					r.SetAddr(xv6fs.NDIRECT, 0)
				}
			}
		}
	} else if newSize > size {
		zeros := make([]byte, xv6fs.BSIZE)
		off := size
		for off < newSize {
			chunk := min(newSize-off, xv6fs.BSIZE)
			if _, err := Write(r, alloc, image, zeros[:chunk], off); err != nil {
				return err
			}
			off += chunk
		}
	}

	r.SetSize(newSize)
	return nil
}
