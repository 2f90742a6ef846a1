// Command modfs performs raw, unchecked field edits against an xv6
// file-system image:
// modfs imgfile command [args...], where command is one of superblock,
// bitmap, inode, dirent. With no value argument a command prints the
// field's current value; with a value it overwrites the field.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/xv6tools/xv6fs/image"
	"github.com/xv6tools/xv6fs/layout"
	"github.com/xv6tools/xv6fs/modfs"
)

func main() {
	app := &cli.App{
		Name:      "modfs",
		Usage:     "raw, unchecked field edits against an xv6 image",
		ArgsUsage: "IMGFILE COMMAND [ARGS...]",
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: modfs imgfile command [args...]", 1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)

	imgPath := c.Args().Get(0)
	command := c.Args().Get(1)
	rest := c.Args().Slice()[2:]

	f, err := os.OpenFile(imgPath, os.O_RDWR, 0644)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open %s: %s", imgPath, err), 1)
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return cli.Exit(fmt.Sprintf("mmap %s: %s", imgPath, err), 1)
	}
	defer func() {
		if err := data.Unmap(); err != nil {
			log.Printf("unmap %s: %s", imgPath, err)
		}
	}()

	img, err := image.Open([]byte(data), log)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %s", imgPath, err), 1)
	}
	ctx := modfs.New(img)

	if err := dispatch(ctx, command, rest); err != nil {
		return cli.Exit(fmt.Sprintf("%s: %s", command, err), 1)
	}

	if err := data.Flush(); err != nil {
		return cli.Exit(fmt.Sprintf("flush %s: %s", imgPath, err), 1)
	}
	return nil
}

func dispatch(ctx *modfs.Context, command string, args []string) error {
	switch command {
	case "superblock":
		if len(args) < 1 || len(args) > 2 {
			return cli.Exit("usage: modfs imgfile superblock field [value]", 1)
		}
		var valuePtr *uint32
		if len(args) == 2 {
			v, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return err
			}
			value := uint32(v)
			valuePtr = &value
		}
		result, err := ctx.Superblock(args[0], valuePtr)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil

	case "bitmap":
		if len(args) < 1 || len(args) > 2 {
			return cli.Exit("usage: modfs imgfile bitmap block [0|1]", 1)
		}
		b, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return err
		}
		var valuePtr *bool
		if len(args) == 2 {
			value := args[1] == "1" || args[1] == "true"
			valuePtr = &value
		}
		fmt.Println(ctx.Bitmap(layout.BlockNum(b), valuePtr))
		return nil

	case "inode":
		return dispatchInode(ctx, args)

	case "dirent":
		if len(args) < 2 || len(args) > 3 {
			return cli.Exit("usage: modfs imgfile dirent path name [inum|delete]", 1)
		}
		var editPtr *modfs.DirentEdit
		if len(args) == 3 {
			if args[2] == "delete" {
				editPtr = &modfs.DirentEdit{Delete: true}
			} else {
				v, err := strconv.ParseUint(args[2], 10, 32)
				if err != nil {
					return err
				}
				editPtr = &modfs.DirentEdit{Inum: uint32(v)}
			}
		}
		result, err := ctx.Dirent(args[0], args[1], editPtr)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil

	default:
		return cli.Exit(fmt.Sprintf("unknown command %q", command), 1)
	}
}

func dispatchInode(ctx *modfs.Context, args []string) error {
	if len(args) < 2 {
		return cli.Exit("usage: modfs imgfile inode inum field [index] [value]", 1)
	}
	inum, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	field := args[1]
	rest := args[2:]

	index := 0
	if field == "addrs" {
		if len(rest) < 1 {
			return cli.Exit("usage: modfs imgfile inode inum addrs index [value]", 1)
		}
		i, err := strconv.Atoi(rest[0])
		if err != nil {
			return err
		}
		index = i
		rest = rest[1:]
	}

	var valuePtr *int64
	if len(rest) == 1 {
		v, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return err
		}
		valuePtr = &v
	} else if len(rest) > 1 {
		return cli.Exit("too many arguments", 1)
	}

	result, err := ctx.Inode(layout.InodeNum(inum), field, index, valuePtr)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
