package dirent_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/dirent"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

func blankImage(t *testing.T) ([]byte, layout.Superblock, *bitmap.Allocator) {
	t.Helper()
	sb := layout.Superblock{
		Magic: xv6fs.Magic, Size: 64, NBlocks: 53, NInodes: 32, NLog: 4,
		LogStart: 2, InodeStart: 6, BmapStart: 10,
	}
	data := make([]byte, int(sb.Size)*xv6fs.BSIZE)
	require.NoError(t, sb.WriteTo(data))
	return data, sb, bitmap.New(sb, data)
}

func TestAddEntryLookupList(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, ".", dir))
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "..", dir))

	child, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "hello.txt", child))
	require.Equal(t, 1, child.Nlink())

	entry, found, err := dirent.Lookup(sb, data, alloc, dir, "hello.txt")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, child.Num, entry.Inum)

	entries, err := dirent.List(sb, data, alloc, dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestAddEntryRejectsCollision(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	a, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	b, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)

	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "a", a))
	require.Error(t, dirent.AddEntry(sb, data, alloc, dir, "a", b))
}

func TestAddEntryDoesNotLinkDot(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, ".", dir))
	require.Equal(t, 0, dir.Nlink())
}

func TestAddEntryReusesFreedSlot(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	a, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "a", a))

	entry, found, err := dirent.Lookup(sb, data, alloc, dir, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, dirent.RemoveEntry(dir, alloc, data, entry.Offset))
	sizeBefore := dir.Size()

	b, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "b", b))
	require.Equal(t, sizeBefore, dir.Size(), "should reuse the freed slot instead of growing")
}

func TestIsEmpty(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, ".", dir))
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "..", dir))

	empty, err := dirent.IsEmpty(sb, data, alloc, dir)
	require.NoError(t, err)
	require.True(t, empty)

	child, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, "x", child))

	empty, err = dirent.IsEmpty(sb, data, alloc, dir)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestFixParentLink(t *testing.T) {
	data, sb, alloc := blankImage(t)
	oldParent, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	newParent, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	child, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)

	require.NoError(t, dirent.AddEntry(sb, data, alloc, child, ".", child))
	require.NoError(t, dirent.AddEntry(sb, data, alloc, child, "..", oldParent))
	require.Equal(t, 1, oldParent.Nlink())

	require.NoError(t, dirent.FixParentLink(sb, data, alloc, child, newParent))
	entry, found, err := dirent.Lookup(sb, data, alloc, child, "..")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, newParent.Num, entry.Inum)
	require.Equal(t, 1, newParent.Nlink())
}

func TestNameTruncationMatchesOnPrefix(t *testing.T) {
	data, sb, alloc := blankImage(t)
	dir, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	child, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)

	longName := "exactly-fourteen-byte-name-but-longer"
	require.NoError(t, dirent.AddEntry(sb, data, alloc, dir, longName, child))

	_, found, err := dirent.Lookup(sb, data, alloc, dir, longName[:xv6fs.DirentNameSize])
	require.NoError(t, err)
	require.True(t, found)
}
