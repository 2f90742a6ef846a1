package modfs

import "github.com/xv6tools/xv6fs"

// Superblock reads, or when value is non-nil overwrites, the named
// superblock field: magic, size, nblocks, ninodes, nlog, logstart,
// inodestart, bmapstart. It returns the field's value either way.
func (c *Context) Superblock(field string, value *uint32) (uint32, error) {
	sb := &c.Img.SB

	fieldPtr := func() *uint32 {
		switch field {
		case "magic":
			return &sb.Magic
		case "size":
			return &sb.Size
		case "nblocks":
			return &sb.NBlocks
		case "ninodes":
			return &sb.NInodes
		case "nlog":
			return &sb.NLog
		case "logstart":
			return &sb.LogStart
		case "inodestart":
			return &sb.InodeStart
		case "bmapstart":
			return &sb.BmapStart
		default:
			return nil
		}
	}()
	if fieldPtr == nil {
		return 0, xv6fs.ErrInvalidArgs.WithMessage("unknown superblock field " + field)
	}

	if value == nil {
		return *fieldPtr, nil
	}
	*fieldPtr = *value
	if err := sb.WriteTo(c.Img.Bytes); err != nil {
		return 0, err
	}
	return *value, nil
}
