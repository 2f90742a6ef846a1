package inode_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/bitmap"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

func freshFile(t *testing.T) (inode.Ref, *bitmap.Allocator, []byte, layout.Superblock) {
	t.Helper()
	data, sb := blankImage(t)
	alloc := bitmap.New(sb, data)
	r, err := inode.Alloc(sb, data, xv6fs.TFile)
	require.NoError(t, err)
	return r, alloc, data, sb
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	r, alloc, data, _ := freshFile(t)

	payload := bytes.Repeat([]byte("xv6"), 100)
	n, err := inode.Write(r, alloc, data, payload, 0)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, int64(len(payload)), r.Size())

	buf := make([]byte, len(payload))
	n, err = inode.Read(r, alloc, data, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, buf)
}

func TestReadClipsAtSize(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	_, err := inode.Write(r, alloc, data, []byte("hello"), 0)
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := inode.Read(r, alloc, data, buf, 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestReadPastEndIsError(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	_, err := inode.Write(r, alloc, data, []byte("hi"), 0)
	require.NoError(t, err)

	_, err = inode.Read(r, alloc, data, make([]byte, 1), 10)
	require.Error(t, err)
}

func TestWriteCrossesIntoIndirectBlock(t *testing.T) {
	r, alloc, data, _ := freshFile(t)

	// Logical block NDIRECT (the 13th block) requires the indirect pointer.
	off := int64(xv6fs.NDIRECT) * xv6fs.BSIZE
	payload := []byte("beyond the direct blocks")
	_, err := inode.Write(r, alloc, data, payload, off)
	require.NoError(t, err)
	require.NotZero(t, r.Addr(xv6fs.NDIRECT))

	buf := make([]byte, len(payload))
	_, err = inode.Read(r, alloc, data, buf, off)
	require.NoError(t, err)
	require.Equal(t, payload, buf)
}

func TestWriteRejectsBeyondMaxFile(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	_, err := inode.Write(r, alloc, data, []byte("x"), xv6fs.MaxFileBytes)
	require.Error(t, err)
}

func TestDeviceRejectsIO(t *testing.T) {
	data, sb := blankImage(t)
	alloc := bitmap.New(sb, data)
	r, err := inode.Alloc(sb, data, xv6fs.TDev)
	require.NoError(t, err)

	_, err = inode.Write(r, alloc, data, []byte("x"), 0)
	require.Error(t, err)
	_, err = inode.Read(r, alloc, data, make([]byte, 1), 0)
	require.Error(t, err)
}

func TestTruncateShrinkFreesBlocks(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	_, err := inode.Write(r, alloc, data, bytes.Repeat([]byte{1}, xv6fs.BSIZE*3), 0)
	require.NoError(t, err)

	used := alloc.Popcount()
	require.NoError(t, inode.Truncate(r, alloc, data, xv6fs.BSIZE))
	require.Equal(t, int64(xv6fs.BSIZE), r.Size())
	require.Less(t, alloc.Popcount(), used)
	require.Zero(t, r.Addr(1))
	require.Zero(t, r.Addr(2))
}

func TestTruncateGrowZeroFills(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	require.NoError(t, inode.Truncate(r, alloc, data, 10))
	require.Equal(t, int64(10), r.Size())

	buf := make([]byte, 10)
	_, err := inode.Read(r, alloc, data, buf, 0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 10), buf)
}

func TestTruncateToZeroFreesIndirectBlock(t *testing.T) {
	r, alloc, data, _ := freshFile(t)
	off := int64(xv6fs.NDIRECT) * xv6fs.BSIZE
	_, err := inode.Write(r, alloc, data, []byte("y"), off)
	require.NoError(t, err)
	require.NotZero(t, r.Addr(xv6fs.NDIRECT))

	require.NoError(t, inode.Truncate(r, alloc, data, 0))
	require.Zero(t, r.Addr(xv6fs.NDIRECT))
	require.Equal(t, int64(0), r.Size())
}
