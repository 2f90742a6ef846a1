package xv6fs

import "fmt"

// Error is a stable, comparable error sentinel: a string constant that is
// itself an error, so callers can compare against it with errors.Is while
// still being able to attach call-specific context via WithMessage.
type Error string

// Error sentinels. Two of them, ErrNoFreeInode and ErrNoFreeBlock, are the
// fatal conditions of §7 (resource exhaustion); the rest are ordinary
// failures. A front-end that receives an
// error for which IsFatal returns true must unmap the image and exit without
// attempting any further core call; the in-progress structural edit may be
// half-complete and there is no journal to roll it back.
const (
	ErrNoFreeInode    = Error("no free inode available")
	ErrNoFreeBlock    = Error("no space left on device")
	ErrInvalidInum    = Error("inode number out of range")
	ErrInvalidBlock   = Error("block number not in data region")
	ErrNotFound       = Error("no such file or directory")
	ErrExists         = Error("file exists")
	ErrNotDirectory   = Error("not a directory")
	ErrIsDirectory    = Error("is a directory")
	ErrNotEmpty       = Error("directory not empty")
	ErrIsDevice       = Error("is a device file")
	ErrNotRegularFile = Error("not a regular file")
	ErrInvalidName    = Error("invalid or reserved directory entry name")
	ErrFileTooLarge   = Error("file too large")
	ErrInvalidArgs    = Error("invalid argument")
	ErrCorrupt        = Error("file system image is corrupt")
)

// fatalErrors identifies which sentinels represent resource exhaustion
// (§7 "Resource exhaustion"): no free inode, no free data block.
var fatalErrors = map[Error]bool{
	ErrNoFreeInode: true,
	ErrNoFreeBlock: true,
}

func (e Error) Error() string {
	return string(e)
}

// IsFatal reports whether this sentinel represents resource exhaustion, which
// front-ends must treat as unrecoverable for the current image.
func (e Error) IsFatal() bool {
	return fatalErrors[e]
}

// WithMessage returns a new error with additional context appended, while
// remaining comparable to e via errors.Is.
func (e Error) WithMessage(message string) *WrappedError {
	return &WrappedError{sentinel: e, message: fmt.Sprintf("%s: %s", string(e), message)}
}

// WrappedError pairs a sentinel Error with call-specific context.
type WrappedError struct {
	sentinel Error
	message  string
	cause    error
}

func (e *WrappedError) Error() string {
	return e.message
}

// Is lets errors.Is(err, xv6fs.ErrNotFound) succeed through a WithMessage or
// Wrap call, regardless of whether a cause was attached.
func (e *WrappedError) Is(target error) bool {
	return e.sentinel == target
}

// Unwrap exposes the original wrapped error, if any, so errors.As can reach
// it.
func (e *WrappedError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether the underlying sentinel represents resource
// exhaustion.
func (e *WrappedError) IsFatal() bool {
	return e.sentinel.IsFatal()
}

// Wrap attaches an underlying cause (e.g. an I/O error from the front-end)
// to a sentinel.
func (e Error) Wrap(cause error) *WrappedError {
	return &WrappedError{
		sentinel: e,
		message:  fmt.Sprintf("%s: %s", string(e), cause.Error()),
		cause:    cause,
	}
}
