package xv6test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs/image"
)

func TestCompressImageThenLoadImageRoundTrip(t *testing.T) {
	g := image.Geometry{Size: 64, NInodes: 32, NLog: 4}
	raw := NewBlankImage(t, g)

	compressed := CompressImage(t, raw)
	require.Less(t, len(compressed), len(raw), "a freshly formatted image is mostly zero blocks and should compress down")

	restored := LoadImage(t, compressed, uint(g.Size))
	require.Equal(t, raw, restored)
}
