package inode_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

func blankImage(t *testing.T) ([]byte, layout.Superblock) {
	t.Helper()
	sb := layout.Superblock{
		Magic: xv6fs.Magic, Size: 64, NBlocks: 53, NInodes: 32, NLog: 4,
		LogStart: 2, InodeStart: 6, BmapStart: 10,
	}
	data := make([]byte, int(sb.Size)*xv6fs.BSIZE)
	require.NoError(t, sb.WriteTo(data))
	return data, sb
}

func TestGetRejectsInvalidInum(t *testing.T) {
	data, sb := blankImage(t)
	_, err := inode.Get(sb, data, 0)
	require.Error(t, err)
	_, err = inode.Get(sb, data, layout.InodeNum(sb.NInodes))
	require.Error(t, err)
}

func TestAllocSkipsAllocatedAndFindsFree(t *testing.T) {
	data, sb := blankImage(t)

	first, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.Equal(t, layout.InodeNum(1), first.Num)

	second, err := inode.Alloc(sb, data, xv6fs.TDir)
	require.NoError(t, err)
	require.Equal(t, layout.InodeNum(2), second.Num)
	require.True(t, second.IsDir())

	inode.Free(first, logrus.StandardLogger())
	reused, err := inode.Alloc(sb, data, xv6fs.TDev)
	require.NoError(t, err)
	require.Equal(t, layout.InodeNum(1), reused.Num)
	require.True(t, reused.IsDevice())
}

func TestFieldAccessors(t *testing.T) {
	data, sb := blankImage(t)
	r, err := inode.Alloc(sb, data, xv6fs.TDev)
	require.NoError(t, err)

	r.SetMajor(3)
	r.SetMinor(7)
	r.SetNlink(1)
	r.SetSize(42)
	r.SetAddr(0, 99)

	require.Equal(t, uint16(3), r.Major())
	require.Equal(t, uint16(7), r.Minor())
	require.Equal(t, 1, r.Nlink())
	require.Equal(t, int64(42), r.Size())
	require.Equal(t, layout.BlockNum(99), r.Addr(0))

	r.IncNlink(2)
	require.Equal(t, 3, r.Nlink())
}

func TestAllocZeroesRecord(t *testing.T) {
	data, sb := blankImage(t)
	r, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	r.SetSize(100)
	r.SetAddr(0, 5)

	inode.Free(r, logrus.StandardLogger())
	again, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	require.Equal(t, int64(0), again.Size())
	require.Equal(t, layout.BlockNum(0), again.Addr(0))
}

func TestAllocExhaustion(t *testing.T) {
	data, sb := blankImage(t)
	for i := uint32(1); i < sb.NInodes; i++ {
		_, err := inode.Alloc(sb, data, xv6fs.TFile)
		require.NoError(t, err)
	}
	_, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.Error(t, err)
}

func TestSizeInBlocks(t *testing.T) {
	data, sb := blankImage(t)
	r, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)

	r.SetSize(0)
	require.Equal(t, 0, r.SizeInBlocks())
	r.SetSize(1)
	require.Equal(t, 1, r.SizeInBlocks())
	r.SetSize(xv6fs.BSIZE)
	require.Equal(t, 1, r.SizeInBlocks())
	r.SetSize(xv6fs.BSIZE + 1)
	require.Equal(t, 2, r.SizeInBlocks())
}
