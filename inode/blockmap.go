package inode

import (
	"encoding/binary"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/layout"
)

// BlockMap translates logical block n of r's file to a physical block
// number, allocating on demand in both the direct and indirect slots
// Any call may mutate the bitmap and the inode record; see
// the allocation-during-read note in §4.4 and §9.
func BlockMap(r Ref, alloc *bitmap.Allocator, image []byte, n int) (layout.BlockNum, error) {
	if n < 0 {
		return 0, xv6fs.ErrInvalidArgs.WithMessage("negative logical block index")
	}

	if n < xv6fs.NDIRECT {
		b := r.Addr(n)
		if b == 0 {
			newBlock, err := alloc.Balloc(image)
			if err != nil {
				return 0, err
			}
			r.SetAddr(n, newBlock)
			b = newBlock
		}
		return b, nil
	}

	n -= xv6fs.NDIRECT
	if n < xv6fs.NINDIRECT {
		indirect := r.Addr(xv6fs.NDIRECT)
		if indirect == 0 {
			newBlock, err := alloc.Balloc(image)
			if err != nil {
				return 0, err
			}
			r.SetAddr(xv6fs.NDIRECT, newBlock)
			indirect = newBlock
		}

		slot := r.sb.BlockBytes(image, indirect)[n*4 : n*4+4]
		b := layout.BlockNum(binary.LittleEndian.Uint32(slot))
		if b == 0 {
			newBlock, err := alloc.Balloc(image)
			if err != nil {
				return 0, err
			}
			binary.LittleEndian.PutUint32(slot, uint32(newBlock))
			b = newBlock
		}
		return b, nil
	}

	return 0, xv6fs.ErrFileTooLarge.WithMessage("logical block index beyond MAXFILE")
}

// IndirectAddr returns the physical block number stored in slot n of r's
// indirect block, or 0 if the indirect block itself is unallocated. It does
// not allocate; used by info (§4.8) to list existing block numbers and by
// Truncate to free indirect slots.
func IndirectAddr(r Ref, image []byte, n int) layout.BlockNum {
	indirect := r.Addr(xv6fs.NDIRECT)
	if indirect == 0 {
		return 0
	}
	slot := r.sb.BlockBytes(image, indirect)[n*4 : n*4+4]
	return layout.BlockNum(binary.LittleEndian.Uint32(slot))
}

// SetIndirectAddr overwrites slot n of r's indirect block. The indirect
// block must already be allocated.
func SetIndirectAddr(r Ref, image []byte, n int, b layout.BlockNum) {
	indirect := r.Addr(xv6fs.NDIRECT)
	slot := r.sb.BlockBytes(image, indirect)[n*4 : n*4+4]
	binary.LittleEndian.PutUint32(slot, uint32(b))
}
