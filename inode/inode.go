// Package inode implements the inode table: allocation, freeing, and
// translation between inode numbers and inode records.
//
// Ref carries no cached field values -- it is an index (inum) plus a borrow
// of the image, and every accessor recomputes the 64-byte record's offset
// via layout.Superblock.InodeByteOffset and reads or writes straight through
// to the mapped image. There is no in-memory inode table to keep coherent
// with the bytes on disk.
package inode

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/layout"
)

// field byte offsets within a 64-byte Dinode record.
const (
	offType  = 0
	offMajor = 2
	offMinor = 4
	offNlink = 6
	offSize  = 8
	offAddrs = 12
)

// Ref is a lightweight handle to one inode record: an inode number plus a
// borrow of the image it lives in. It is cheap to copy and never goes stale
// across bmap/bitmap mutations, since it holds no cached field values.
type Ref struct {
	sb    layout.Superblock
	image []byte
	Num   layout.InodeNum
}

// Get returns a Ref for inum iff 0 < inum < ninodes (§4.3 iget); otherwise
// ErrInvalidInum.
func Get(sb layout.Superblock, image []byte, inum layout.InodeNum) (Ref, error) {
	if !sb.IsValidInum(inum) {
		return Ref{}, xv6fs.ErrInvalidInum.WithMessage(fmt.Sprintf("inum %d", inum))
	}
	return Ref{sb: sb, image: image, Num: inum}, nil
}

func (r Ref) record() []byte {
	off := r.sb.InodeByteOffset(r.Num)
	return r.image[off : off+xv6fs.DinodeSize]
}

// Type returns one of xv6fs.TFree, TDir, TFile, TDev.
func (r Ref) Type() int {
	return int(binary.LittleEndian.Uint16(r.record()[offType:]))
}

func (r Ref) SetType(t int) {
	binary.LittleEndian.PutUint16(r.record()[offType:], uint16(t))
}

func (r Ref) Major() uint16 { return binary.LittleEndian.Uint16(r.record()[offMajor:]) }
func (r Ref) SetMajor(v uint16) {
	binary.LittleEndian.PutUint16(r.record()[offMajor:], v)
}

func (r Ref) Minor() uint16 { return binary.LittleEndian.Uint16(r.record()[offMinor:]) }
func (r Ref) SetMinor(v uint16) {
	binary.LittleEndian.PutUint16(r.record()[offMinor:], v)
}

func (r Ref) Nlink() int {
	return int(binary.LittleEndian.Uint16(r.record()[offNlink:]))
}

func (r Ref) SetNlink(n int) {
	binary.LittleEndian.PutUint16(r.record()[offNlink:], uint16(n))
}

func (r Ref) IncNlink(delta int) {
	r.SetNlink(r.Nlink() + delta)
}

func (r Ref) Size() int64 {
	return int64(binary.LittleEndian.Uint32(r.record()[offSize:]))
}

func (r Ref) SetSize(n int64) {
	binary.LittleEndian.PutUint32(r.record()[offSize:], uint32(n))
}

// Addr returns the n'th raw address slot (0..NADDRS-1): direct pointers
// followed by the single indirect pointer.
func (r Ref) Addr(n int) layout.BlockNum {
	off := offAddrs + n*4
	return layout.BlockNum(binary.LittleEndian.Uint32(r.record()[off:]))
}

func (r Ref) SetAddr(n int, b layout.BlockNum) {
	off := offAddrs + n*4
	binary.LittleEndian.PutUint32(r.record()[off:], uint32(b))
}

func (r Ref) IsFree() bool   { return r.Type() == xv6fs.TFree }
func (r Ref) IsDir() bool    { return r.Type() == xv6fs.TDir }
func (r Ref) IsFile() bool   { return r.Type() == xv6fs.TFile }
func (r Ref) IsDevice() bool { return r.Type() == xv6fs.TDev }

// SizeInBlocks returns ceil(size/BSIZE), the number of logical blocks
// backing the inode's current size.
func (r Ref) SizeInBlocks() int {
	return int((r.Size() + xv6fs.BSIZE - 1) / xv6fs.BSIZE)
}

// zero clears every field of the inode record, leaving type at TFree.
func (r Ref) zero() {
	rec := r.record()
	for i := range rec {
		rec[i] = 0
	}
}

// Alloc scans inodes from index 1 upward and allocates the first one with
// type TFree, zeroing its record and setting its type. It fails fatally
// (ErrNoFreeInode) if none is available (§4.3 ialloc).
func Alloc(sb layout.Superblock, image []byte, typ int) (Ref, error) {
	for i := layout.InodeNum(1); uint32(i) < sb.NInodes; i++ {
		ref := Ref{sb: sb, image: image, Num: i}
		if ref.IsFree() {
			ref.zero()
			ref.SetType(typ)
			return ref, nil
		}
	}
	return Ref{}, xv6fs.ErrNoFreeInode
}

// Free sets the inode's type to TFree (§4.3 ifree). It logs -- but does not
// fail on -- an already-free inode or a nonzero nlink at the time of the
// call (§7 Consistency warning); callers that need to release data blocks
// first must call inode.Truncate(ref, 0) themselves (see §4.7 iunlink).
func Free(r Ref, log *logrus.Logger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if r.IsFree() {
		log.Warnf("ifree: inode %d is already free", r.Num)
	}
	if r.Nlink() > 0 {
		log.Warnf("ifree: inode %d freed with nlink=%d", r.Num, r.Nlink())
	}
	r.SetType(xv6fs.TFree)
}
