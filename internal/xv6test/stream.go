package xv6test

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// ByteStream wraps buf in a seekable stream, for tests exercising
// ops.(*Context).Get/Put against a fixed-capacity source or destination
// instead of an auto-growing bytes.Buffer.
func ByteStream(buf []byte) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(buf)
}
