// Package layout computes xv6 on-disk region boundaries from the
// superblock fields and validates block numbers against them.
package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"

	"github.com/xv6tools/xv6fs"
)

// BlockNum identifies a physical block by index into the image.
type BlockNum uint32

// InodeNum identifies an inode by its 1-based index into the inode region.
// Inode 0 is never used (invariant 3).
type InodeNum uint32

// Superblock holds the eight little-endian u32 fields stored in block 1,
// in their on-disk order.
type Superblock struct {
	Magic      uint32
	Size       uint32 // total block count, N
	NBlocks    uint32 // data-block count
	NInodes    uint32
	NLog       uint32
	LogStart   uint32
	InodeStart uint32
	BmapStart  uint32
}

// superblockFieldCount is the number of u32 fields serialized, in order.
const superblockFieldCount = 8

// ReadSuperblock decodes the superblock from block 1 of image and validates
// its magic number.
func ReadSuperblock(image []byte) (Superblock, error) {
	if len(image) < 2*xv6fs.BSIZE {
		return Superblock{}, xv6fs.ErrCorrupt.WithMessage("image shorter than two blocks")
	}

	block := image[xv6fs.BSIZE : 2*xv6fs.BSIZE]
	var fields [superblockFieldCount]uint32
	for i := range fields {
		fields[i] = binary.LittleEndian.Uint32(block[i*4 : i*4+4])
	}

	sb := Superblock{
		Magic:      fields[0],
		Size:       fields[1],
		NBlocks:    fields[2],
		NInodes:    fields[3],
		NLog:       fields[4],
		LogStart:   fields[5],
		InodeStart: fields[6],
		BmapStart:  fields[7],
	}
	if sb.Magic != xv6fs.Magic {
		return Superblock{}, xv6fs.ErrCorrupt.WithMessage(
			fmt.Sprintf("bad superblock magic 0x%x, want 0x%x", sb.Magic, xv6fs.Magic),
		)
	}
	return sb, nil
}

// WriteTo serializes sb into block 1 of image.
func (sb Superblock) WriteTo(image []byte) error {
	if len(image) < 2*xv6fs.BSIZE {
		return xv6fs.ErrCorrupt.WithMessage("image shorter than two blocks")
	}

	block := image[xv6fs.BSIZE : 2*xv6fs.BSIZE]
	writer := bytewriter.New(block)
	fields := [superblockFieldCount]uint32{
		sb.Magic, sb.Size, sb.NBlocks, sb.NInodes,
		sb.NLog, sb.LogStart, sb.InodeStart, sb.BmapStart,
	}
	return binary.Write(writer, binary.LittleEndian, &fields)
}

// NIBlocks is ceil(ninodes / IPB), the number of inode blocks.
func (sb Superblock) NIBlocks() uint32 {
	return ceilDiv(sb.NInodes, xv6fs.IPB)
}

// NMBlocks is ceil(size / (BSIZE*8)), the number of bitmap blocks.
func (sb Superblock) NMBlocks() uint32 {
	return ceilDiv(sb.Size, xv6fs.BSIZE*8)
}

// FirstDataBlock is the first block number available for file data.
func (sb Superblock) FirstDataBlock() BlockNum {
	return BlockNum(sb.BmapStart + sb.NMBlocks())
}

// LastDataBlock is the last (inclusive) block number available for file
// data.
func (sb Superblock) LastDataBlock() BlockNum {
	return BlockNum(sb.Size - 1)
}

// IsValidDataBlock reports whether b lies within the data region.
func (sb Superblock) IsValidDataBlock(b BlockNum) bool {
	return b >= sb.FirstDataBlock() && b <= sb.LastDataBlock()
}

// InodeBlock returns the block number holding inode i's record.
func (sb Superblock) InodeBlock(i InodeNum) BlockNum {
	return BlockNum(sb.InodeStart) + BlockNum(uint32(i)/xv6fs.IPB)
}

// InodeByteOffset returns the byte offset, within the image, of inode i's
// 64-byte record.
func (sb Superblock) InodeByteOffset(i InodeNum) int64 {
	block := sb.InodeBlock(i)
	slot := uint32(i) % xv6fs.IPB
	return int64(block)*xv6fs.BSIZE + int64(slot)*xv6fs.DinodeSize
}

// BitmapBlock returns the block number holding the free-bit for block b.
func (sb Superblock) BitmapBlock(b BlockNum) BlockNum {
	return BlockNum(sb.BmapStart) + BlockNum(uint32(b)/(xv6fs.BSIZE*8))
}

// IsValidInum reports whether i is a usable inode number: 0 < i < ninodes.
func (sb Superblock) IsValidInum(i InodeNum) bool {
	return i > 0 && uint32(i) < sb.NInodes
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// BitmapRegionBytes returns the slice of image covering the free-block
// bitmap region. Mutating it mutates the image in place -- there is no
// copy, matching the no-cache requirement.
func (sb Superblock) BitmapRegionBytes(image []byte) []byte {
	start := int64(sb.BmapStart) * xv6fs.BSIZE
	length := int64(sb.NMBlocks()) * xv6fs.BSIZE
	return image[start : start+length]
}

// BlockBytes returns the 512-byte slice of image backing block b.
func (sb Superblock) BlockBytes(image []byte, b BlockNum) []byte {
	start := int64(b) * xv6fs.BSIZE
	return image[start : start+xv6fs.BSIZE]
}
