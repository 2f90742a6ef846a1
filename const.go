package xv6fs

// BSIZE is the fixed block size, in bytes, of every block in an xv6 image.
const BSIZE = 512

// Magic is the superblock magic number that identifies the newer xv6-riscv
// superblock layout (magic, size, nblocks, ninodes, nlog, logstart,
// inodestart, bmapstart). The older variant, which omits magic and the
// three *start fields, is out of scope.
const Magic = 0x10203040

// Inode type codes, stored in the 16-bit Dinode.Type field.
const (
	// TFree marks an inode record as unused.
	TFree = 0
	// TDir marks a directory inode.
	TDir = 1
	// TFile marks a regular file inode.
	TFile = 2
	// TDev marks a device inode. Device inodes never have data blocks and
	// never participate in read/write (invariant 8).
	TDev = 3
)

// IPB is the number of Dinode records that fit in one block.
const IPB = BSIZE / DinodeSize

// DinodeSize is the on-disk size, in bytes, of one inode record.
const DinodeSize = 64

// DirentSize is the on-disk size, in bytes, of one directory entry.
const DirentSize = 16

// DirentNameSize is the number of bytes reserved for a directory entry's
// name. Names longer than this are truncated; a full name is not
// necessarily NUL-terminated.
const DirentNameSize = 14

// NDIRECT is the number of direct block pointers in a Dinode.
const NDIRECT = 12

// NINDIRECT is the number of block numbers that fit in a single indirect
// block.
const NINDIRECT = BSIZE / 4

// NADDRS is the length of Dinode.Addrs: NDIRECT direct pointers plus one
// indirect pointer.
const NADDRS = NDIRECT + 1

// MAXFILE is the largest file size representable, in blocks.
const MAXFILE = NDIRECT + NINDIRECT

// MaxFileBytes is the largest file size representable, in bytes.
const MaxFileBytes = MAXFILE * BSIZE

// RootInum is the inode number of the root directory. It is always inode 1;
// inode 0 is never used (invariant 3).
const RootInum = 1

// BufSize is the chunk size used by get/put when streaming file contents
// to/from the host's standard I/O streams.
const BufSize = 4096
