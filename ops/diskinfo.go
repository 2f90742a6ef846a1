package ops

import (
	"github.com/gocarina/gocsv"

	"github.com/xv6tools/xv6fs"
	"github.com/xv6tools/xv6fs/inode"
	"github.com/xv6tools/xv6fs/layout"
)

// DiskInfo is the whole-image summary §4.8's diskinfo operation reports:
// the superblock fields, each region's block range, and the live
// bitmap/inode usage counts.
type DiskInfo struct {
	Magic       uint32
	Size        uint32
	NInodes     uint32
	NLog        uint32
	LogStart    uint32
	LogEnd      uint32
	InodeStart  uint32
	InodeEnd    uint32
	BmapStart   uint32
	BmapEnd     uint32
	DataStart   uint32
	DataEnd     uint32
	MaxFileSize int64
	UsedBlocks  int

	UsedInodesByType map[string]int
}

// InodeTypeCount is one row of DiskinfoCSV's inode-usage table.
type InodeTypeCount struct {
	Type  string `csv:"type"`
	Count int    `csv:"count"`
}

// Diskinfo implements the diskinfo operation of §4.8.
func (c *Context) Diskinfo() (DiskInfo, error) {
	sb := c.Img.SB
	info := DiskInfo{
		Magic:       sb.Magic,
		Size:        sb.Size,
		NInodes:     sb.NInodes,
		NLog:        sb.NLog,
		LogStart:    sb.LogStart,
		LogEnd:      sb.LogStart + sb.NLog - 1,
		InodeStart:  sb.InodeStart,
		InodeEnd:    sb.InodeStart + sb.NIBlocks() - 1,
		BmapStart:   sb.BmapStart,
		BmapEnd:     sb.BmapStart + sb.NMBlocks() - 1,
		DataStart:   uint32(sb.FirstDataBlock()),
		DataEnd:     uint32(sb.LastDataBlock()),
		MaxFileSize: xv6fs.MaxFileBytes,
		UsedBlocks:  c.Img.Alloc.Popcount(),
	}

	counts := map[string]int{}
	for i := layout.InodeNum(1); uint32(i) < sb.NInodes; i++ {
		ref, err := inode.Get(sb, c.Img.Bytes, i)
		if err != nil {
			continue
		}
		if ref.IsFree() {
			continue
		}
		counts[TypeName(ref.Type())]++
	}
	info.UsedInodesByType = counts
	return info, nil
}

// DiskinfoCSV renders the per-type inode usage counts from Diskinfo as CSV.
func (c *Context) DiskinfoCSV() (string, error) {
	info, err := c.Diskinfo()
	if err != nil {
		return "", err
	}
	rows := make([]InodeTypeCount, 0, len(info.UsedInodesByType))
	for t, n := range info.UsedInodesByType {
		rows = append(rows, InodeTypeCount{Type: t, Count: n})
	}
	return gocsv.MarshalString(&rows)
}
