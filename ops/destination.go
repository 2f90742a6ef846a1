package ops

import (
	"errors"
	"strings"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/pathwalk"
)

// destInsertionPoint resolves the parent directory and entry name a cp, mv,
// or ln destination argument names, following the same destination rule used
// for all three: if dst already exists and is a directory, the new entry is
// created inside it under srcBase; otherwise dirname(dst) must resolve to
// an existing directory and basename(dst) becomes the entry name. existing
// is non-nil when an entry already occupies the resolved (parent, name)
// slot, letting the caller decide whether that collision is an error or
// something to overwrite.
//
// A trailing slash on dst (besides the bare root "/") is treated as an
// explicit assertion that dst names a directory: this case is left
// to the implementer, and resolving it to "that directory must already
// exist" keeps the rule symmetric with the no-trailing-slash case instead
// of inventing an implicit mkdir.
func (c *Context) destInsertionPoint(root inode.Ref, dst string, srcBase string) (parent inode.Ref, name string, existing *inode.Ref, err error) {
	trailingSlash := len(dst) > 1 && strings.HasSuffix(dst, "/")

	target, lerr := pathwalk.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, dst)
	if lerr == nil {
		if target.IsDir() {
			parent = target
			name = srcBase
			if e, found, ferr := dirent.Lookup(c.Img.SB, c.Img.Bytes, c.Img.Alloc, parent, name); ferr != nil {
				return inode.Ref{}, "", nil, ferr
			} else if found {
				ref, gerr := inode.Get(c.Img.SB, c.Img.Bytes, e.Inum)
				if gerr != nil {
					return inode.Ref{}, "", nil, gerr
				}
				existing = &ref
			}
			return parent, name, existing, nil
		}

		if trailingSlash {
			return inode.Ref{}, "", nil, xv6fs.ErrNotDirectory.WithMessage(dst)
		}

		p, base, werr := pathwalk.WalkToParent(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, dst)
		if werr != nil {
			return inode.Ref{}, "", nil, werr
		}
		existing = &target
		return p, base, existing, nil
	}

	if !errors.Is(lerr, xv6fs.ErrNotFound) {
		return inode.Ref{}, "", nil, lerr
	}
	if trailingSlash {
		return inode.Ref{}, "", nil, xv6fs.ErrNotFound.WithMessage(dst)
	}

	p, base, werr := pathwalk.WalkToParent(c.Img.SB, c.Img.Bytes, c.Img.Alloc, root, dst)
	if werr != nil {
		return inode.Ref{}, "", nil, werr
	}
	if base == "" {
		return inode.Ref{}, "", nil, xv6fs.ErrInvalidName.WithMessage("empty destination name")
	}
	return p, base, nil, nil
}
