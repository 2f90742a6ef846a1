package ops

import (
	"path"

	"github.com/gocarina/gocsv"

	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// LsEntry is one row of an ls result: a directory's contents, or a single
// row describing the target itself when it names a non-directory.
type LsEntry struct {
	Name string `csv:"name"`
	Type string `csv:"type"`
	Inum uint32 `csv:"inum"`
	Size int64  `csv:"size"`
}

// Ls implements the ls operation of §4.8: resolves path and, for a
// directory, lists every live entry; for anything else, returns the single
// entry describing the target.
func (c *Context) Ls(path_ string) ([]LsEntry, error) {
	root, err := c.root()
	if err != nil {
		return nil, err
	}
	target, err := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, path_)
	if err != nil {
		return nil, err
	}

	if !target.IsDir() {
		return []LsEntry{{
			Name: path.Base(path_),
			Type: TypeName(target.Type()),
			Inum: uint32(target.Num),
			Size: target.Size(),
		}}, nil
	}

	entries, err := dirent.List(c.Img.SB, c.Img.Bytes, c.Img.Alloc, target)
	if err != nil {
		return nil, err
	}

	out := make([]LsEntry, 0, len(entries))
	for _, e := range entries {
		if e.Inum == 0 {
			continue
		}
		child, err := inode.Get(c.Img.SB, c.Img.Bytes, e.Inum)
		if err != nil {
			return nil, err
		}
		out = append(out, LsEntry{
			Name: e.Name,
			Type: TypeName(child.Type()),
			Inum: uint32(e.Inum),
			Size: child.Size(),
		})
	}
	return out, nil
}

// LsCSV renders Ls's result as CSV, for front ends that want tabular output
// instead of a Go slice.
func (c *Context) LsCSV(path_ string) (string, error) {
	rows, err := c.Ls(path_)
	if err != nil {
		return "", err
	}
	return gocsv.MarshalString(&rows)
}
