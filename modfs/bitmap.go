package modfs

import "github.com/xv6tools/xv6fs/layout"

// Bitmap reads, or when value is non-nil overwrites, the allocation bit for
// block, with no check that block lies in the data region.
func (c *Context) Bitmap(block layout.BlockNum, value *bool) bool {
	if value != nil {
		c.Img.Alloc.SetRaw(block, *value)
	}
	return c.Img.Alloc.IsAllocated(block)
}
