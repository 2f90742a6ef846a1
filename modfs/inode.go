package modfs

import (
	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// Inode reads, or when value is non-nil overwrites, one field of inode
// inum: type, nlink, size, indirect (the single indirect address slot), or
// addrs with index in [0, NDIRECT) for a direct address slot. inum is
// still range-checked against the superblock -- there is no field to edit
// on an inode number that cannot be addressed -- but nothing about the
// resulting value (a nonsense type, a negative-looking size, a dangling
// block number) is validated.
func (c *Context) Inode(inum layout.InodeNum, field string, index int, value *int64) (int64, error) {
	ref, err := inode.Get(c.Img.SB, c.Img.Bytes, inum)
	if err != nil {
		return 0, err
	}

	read := func() (int64, error) {
		switch field {
		case "type":
			return int64(ref.Type()), nil
		case "nlink":
			return int64(ref.Nlink()), nil
		case "size":
			return ref.Size(), nil
		case "indirect":
			return int64(ref.Addr(xv6fs.NDIRECT)), nil
		case "addrs":
			if index < 0 || index >= xv6fs.NDIRECT {
				return 0, xv6fs.ErrInvalidArgs.WithMessage("addrs index out of range")
			}
			return int64(ref.Addr(index)), nil
		default:
			return 0, xv6fs.ErrInvalidArgs.WithMessage("unknown inode field " + field)
		}
	}

	cur, err := read()
	if err != nil {
		return 0, err
	}
	if value == nil {
		return cur, nil
	}

	switch field {
	case "type":
		ref.SetType(int(*value))
	case "nlink":
		ref.SetNlink(int(*value))
	case "size":
		ref.SetSize(*value)
	case "indirect":
		ref.SetAddr(xv6fs.NDIRECT, layout.BlockNum(*value))
	case "addrs":
		ref.SetAddr(index, layout.BlockNum(*value))
	}
	return *value, nil
}
