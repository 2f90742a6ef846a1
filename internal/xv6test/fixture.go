// Package xv6test provides test helpers for xv6 images: a blank image
// formatted in memory, and compression of an image with the RLE8-plus-gzip
// codec of utilities/compression (mostly-empty images shrink to a small
// fraction of their size) together with inflation back to a plain byte
// slice. No compressed fixture files are part of the repository.
package xv6test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs/utilities/compression"
)

// LoadImage decompresses an RLE8-encoded, gzipped image and asserts its size
// matches sizeBlocks*512 exactly before handing it to a test.
func LoadImage(t *testing.T, compressed []byte, sizeBlocks uint) []byte {
	t.Helper()
	require.Greater(t, len(compressed), 0, "compressed fixture is empty")

	data, err := compression.DecompressImageToBytes(bytes.NewReader(compressed))
	require.NoError(t, err)
	require.Equal(t, int(sizeBlocks)*512, len(data), "decompressed fixture is the wrong size")
	return data
}

// CompressImage is the inverse of LoadImage, used by the tooling that
// generates or refreshes fixtures rather than by tests themselves.
func CompressImage(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := compression.CompressImage(bytes.NewReader(raw), &buf)
	require.NoError(t, err)
	return buf.Bytes()
}
