/*
Package xv6fs implements the on-disk file system used by xv6-riscv.

A disk image is a single host file whose bytes are the bit-exact layout of
an xv6 file system: a boot block, superblock, log blocks, inode blocks, a
free-block bitmap, and data blocks. This package operates directly on a
byte slice backing such an image -- typically a memory-mapped file handed
in by one of the front-ends under cmd/ -- with no in-memory cache and no
log replay. Concurrent access to one image is not supported.

Subpackages, leaves first:

	bitmap    free-block bitmap allocator
	layout    superblock accessors and region arithmetic
	inode     inode table, block map, inode I/O
	dirent    directory entry enumeration/insertion/removal
	pathwalk  slash-separated path resolution
	image     image handle, mmap-agnostic, and the newfs builder
	ops       the high-level operations (ls, cp, mv, ln, ...)
	modfs     raw, unchecked field access for repairing corrupted images
*/
package xv6fs
