// Command opfs performs safe, consistency-preserving operations against an
// existing xv6 file-system image:
// opfs imgfile command [args...], where command is one of diskinfo, info,
// ls, get, put, rm, cp, mv, ln, mkdir, rmdir.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/xv6tools/xv6fs/image"
	"github.com/xv6tools/xv6fs/ops"
)

func main() {
	app := &cli.App{
		Name:      "opfs",
		Usage:     "run a consistency-preserving operation against an xv6 image",
		ArgsUsage: "IMGFILE COMMAND [ARGS...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug-channel consistency warnings"},
			&cli.BoolFlag{Name: "csv", Usage: "render ls/diskinfo output as CSV"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: opfs imgfile command [args...]", 1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

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
	ctx := ops.New(img, log)

	if err := dispatch(ctx, c, command, rest); err != nil {
		return cli.Exit(fmt.Sprintf("%s: %s", command, err), 1)
	}

	if err := data.Flush(); err != nil {
		return cli.Exit(fmt.Sprintf("flush %s: %s", imgPath, err), 1)
	}
	return nil
}

func dispatch(ctx *ops.Context, c *cli.Context, command string, args []string) error {
	switch command {
	case "diskinfo":
		if c.Bool("csv") {
			out, err := ctx.DiskinfoCSV()
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		info, err := ctx.Diskinfo()
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", info)
		return nil

	case "info":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile info path", 1)
		}
		info, err := ctx.Info(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", info)
		return nil

	case "ls":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile ls path", 1)
		}
		if c.Bool("csv") {
			out, err := ctx.LsCSV(args[0])
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		entries, err := ctx.Ls(args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%d\t%d\n", e.Name, e.Type, e.Inum, e.Size)
		}
		return nil

	case "get":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile get path", 1)
		}
		return ctx.Get(args[0], os.Stdout)

	case "put":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile put path", 1)
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, os.Stdin); err != nil {
			return err
		}
		return ctx.Put(args[0], &buf)

	case "rm":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile rm path", 1)
		}
		return ctx.Rm(args[0])

	case "cp":
		if len(args) != 2 {
			return cli.Exit("usage: opfs imgfile cp src dst", 1)
		}
		return ctx.Cp(args[0], args[1])

	case "mv":
		if len(args) != 2 {
			return cli.Exit("usage: opfs imgfile mv src dst", 1)
		}
		return ctx.Mv(args[0], args[1])

	case "ln":
		if len(args) != 2 {
			return cli.Exit("usage: opfs imgfile ln src dst", 1)
		}
		return ctx.Ln(args[0], args[1])

	case "mkdir":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile mkdir path", 1)
		}
		return ctx.Mkdir(args[0])

	case "rmdir":
		if len(args) != 1 {
			return cli.Exit("usage: opfs imgfile rmdir path", 1)
		}
		return ctx.Rmdir(args[0])

	default:
		return cli.Exit(fmt.Sprintf("unknown command %q", command), 1)
	}
}
