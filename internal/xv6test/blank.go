package xv6test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xv6tools/xv6fs/image"
)

// NewBlankImage formats a fresh image of the given geometry in memory and
// returns the raw bytes, for tests that want a known-good starting point
// without shipping a fixture.
func NewBlankImage(t *testing.T, g image.Geometry) []byte {
	t.Helper()
	data := make([]byte, int(g.Size)*512)
	require.NoError(t, image.Setup(data, g))
	return data
}
