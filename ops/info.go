package ops

import (
	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// InfoResult is the per-inode detail §4.8's info operation reports.
type InfoResult struct {
	Inum   uint32
	Type   string
	Nlink  int
	Size   int64
	Blocks []uint32
}

// Info implements the info operation of §4.8: the target's inode number,
// type, nlink, size, and the list of data block numbers backing it (direct
// slots, then the indirect pointer's own block, then the indirect block's
// contents), stopping at the first unallocated slot.
func (c *Context) Info(path string) (InfoResult, error) {
	root, err := c.root()
	if err != nil {
		return InfoResult{}, err
	}
	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path)
	if err != nil {
		return InfoResult{}, err
	}

	res := InfoResult{
		Inum:  uint32(target.Num),
		Type:  TypeName(target.Type()),
		Nlink: target.Nlink(),
		Size:  target.Size(),
	}

	nblocks := target.SizeInBlocks()
	directLimit := nblocks
	if directLimit > xv6fs.NDIRECT {
		directLimit = xv6fs.NDIRECT
	}
	for i := 0; i < directLimit; i++ {
		b := target.Addr(i)
		if b == 0 {
			break
		}
		res.Blocks = append(res.Blocks, uint32(b))
	}

	if nblocks > xv6fs.NDIRECT {
		indirect := target.Addr(xv6fs.NDIRECT)
		if indirect != 0 {
			res.Blocks = append(res.Blocks, uint32(indirect))
			for i := 0; i < xv6fs.NINDIRECT; i++ {
				b := inode.IndirectAddr(target, c.Img.Bytes, i)
				if b == 0 {
					break
				}
				res.Blocks = append(res.Blocks, uint32(b))
			}
		}
	}

	return res, nil
}
