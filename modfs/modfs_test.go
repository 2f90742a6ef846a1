package modfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/image"
	"github.com/xv6tools/xv6fs/internal/xv6test"
	"github.com/xv6tools/xv6fs/layout"
	"github.com/xv6tools/xv6fs/modfs"
)

func newContext(t *testing.T) *modfs.Context {
	t.Helper()
	data := xv6test.NewBlankImage(t, image.Geometry{Size: 64, NInodes: 32, NLog: 4})
	img, err := image.Open(data, nil)
	require.NoError(t, err)
	return modfs.New(img)
}

func TestSuperblockReadAndWrite(t *testing.T) {
	c := newContext(t)
	v, err := c.Superblock("ninodes", nil)
	require.NoError(t, err)
	require.Equal(t, uint32(32), v)

	newVal := uint32(16)
	v, err = c.Superblock("ninodes", &newVal)
	require.NoError(t, err)
	require.Equal(t, uint32(16), v)

	v, err = c.Superblock("ninodes", nil)
	require.NoError(t, err)
	require.Equal(t, uint32(16), v)
}

func TestSuperblockUnknownField(t *testing.T) {
	c := newContext(t)
	_, err := c.Superblock("nonsense", nil)
	require.Error(t, err)
}

func TestBitmapReadAndWrite(t *testing.T) {
	c := newContext(t)
	require.True(t, c.Bitmap(0, nil), "reserved prefix starts allocated")

	value := false
	require.False(t, c.Bitmap(0, &value))
	require.False(t, c.Bitmap(0, nil))
}

func TestInodeFieldsBypassInvariants(t *testing.T) {
	c := newContext(t)

	v, err := c.Inode(1, "type", 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(xv6fs.TDir), v)

	corrupt := int64(xv6fs.TFile)
	_, err = c.Inode(1, "type", 0, &corrupt)
	require.NoError(t, err)
	v, err = c.Inode(1, "type", 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(xv6fs.TFile), v, "raw edit bypasses every consistency check by design")
}

func TestInodeAddrsIndexed(t *testing.T) {
	c := newContext(t)
	value := int64(77)
	_, err := c.Inode(1, "addrs", 3, &value)
	require.NoError(t, err)

	v, err := c.Inode(1, "addrs", 3, nil)
	require.NoError(t, err)
	require.Equal(t, int64(77), v)
}

func TestInodeRejectsOutOfRangeInum(t *testing.T) {
	c := newContext(t)
	_, err := c.Inode(layout.InodeNum(1000), "type", 0, nil)
	require.Error(t, err)
}

func TestDirentReadAndDelete(t *testing.T) {
	c := newContext(t)
	inum, err := c.Dirent("/", ".", nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), inum)

	_, err = c.Dirent("/", ".", &modfs.DirentEdit{Delete: true})
	require.NoError(t, err)

	_, err = c.Dirent("/", ".", nil)
	require.Error(t, err)
}

func TestDirentOverwriteInum(t *testing.T) {
	c := newContext(t)
	edit := &modfs.DirentEdit{Inum: 99}
	v, err := c.Dirent("/", "..", edit)
	require.NoError(t, err)
	require.Equal(t, uint32(99), v)

	v, err = c.Dirent("/", "..", nil)
	require.NoError(t, err)
	require.Equal(t, uint32(99), v)
}
