package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/layout"
)

func blankSuperblock() layout.Superblock {
	return layout.Superblock{
		Magic:      xv6fs.Magic,
		Size:       64,
		NBlocks:    53,
		NInodes:    32,
		NLog:       4,
		LogStart:   2,
		InodeStart: 6,
		BmapStart:  10,
	}
}

func TestSuperblockRoundTrip(t *testing.T) {
	sb := blankSuperblock()
	data := make([]byte, 64*xv6fs.BSIZE)
	require.NoError(t, sb.WriteTo(data))

	got, err := layout.ReadSuperblock(data)
	require.NoError(t, err)
	require.Equal(t, sb, got)
}

func TestReadSuperblockRejectsBadMagic(t *testing.T) {
	data := make([]byte, 64*xv6fs.BSIZE)
	_, err := layout.ReadSuperblock(data)
	require.Error(t, err)
}

func TestReadSuperblockRejectsShortImage(t *testing.T) {
	_, err := layout.ReadSuperblock(make([]byte, xv6fs.BSIZE))
	require.Error(t, err)
}

func TestRegionHelpers(t *testing.T) {
	sb := blankSuperblock()
	require.Equal(t, uint32(4), sb.NIBlocks())
	require.Equal(t, uint32(1), sb.NMBlocks())
	require.Equal(t, layout.BlockNum(11), sb.FirstDataBlock())
	require.Equal(t, layout.BlockNum(63), sb.LastDataBlock())
	require.True(t, sb.IsValidDataBlock(11))
	require.True(t, sb.IsValidDataBlock(63))
	require.False(t, sb.IsValidDataBlock(10))
	require.False(t, sb.IsValidDataBlock(64))
}

func TestInodeByteOffset(t *testing.T) {
	sb := blankSuperblock()
	// inode 1 is the second record (slot 1) of block InodeStart -- slot 0
	// belongs to the always-unused inode 0.
	require.Equal(t, int64(sb.InodeStart)*xv6fs.BSIZE+int64(xv6fs.DinodeSize), sb.InodeByteOffset(1))
	// inode 9 (IPB=8) lands in the second inode block, slot 1.
	require.Equal(t, int64(sb.InodeStart+1)*xv6fs.BSIZE+int64(xv6fs.DinodeSize), sb.InodeByteOffset(9))
}

func TestIsValidInum(t *testing.T) {
	sb := blankSuperblock()
	require.False(t, sb.IsValidInum(0))
	require.True(t, sb.IsValidInum(1))
	require.True(t, sb.IsValidInum(31))
	require.False(t, sb.IsValidInum(32))
}
