// Command newfs creates and initializes a fresh xv6 file-system image
// newfs imgfile size ninodes nlog.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"github.com/urfave/cli/v2"

	"github.com/xv6tools/xv6fs/image"
	"github.com/xv6tools/xv6fs/presets"
)

func main() {
	app := &cli.App{
		Name:      "newfs",
		Usage:     "create a fresh xv6 file-system image",
		ArgsUsage: "IMGFILE [SIZE NINODES NLOG]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Usage: "use a named geometry from the built-in catalog instead of SIZE NINODES NLOG"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: newfs imgfile [size ninodes nlog]", 1)
	}
	imgPath := c.Args().Get(0)

	var g image.Geometry
	if name := c.String("preset"); name != "" {
		catalog, err := presets.LoadDefaults()
		if err != nil {
			return cli.Exit(fmt.Sprintf("preset catalog: %s", err), 1)
		}
		p, ok := catalog[name]
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown preset %q", name), 1)
		}
		g = p.ToImageGeometry()
	} else {
		if c.NArg() != 4 {
			return cli.Exit("usage: newfs imgfile size ninodes nlog", 1)
		}
		size, err := parseUint(c.Args().Get(1))
		if err != nil {
			return cli.Exit(fmt.Sprintf("size: %s", err), 1)
		}
		ninodes, err := parseUint(c.Args().Get(2))
		if err != nil {
			return cli.Exit(fmt.Sprintf("ninodes: %s", err), 1)
		}
		nlog, err := parseUint(c.Args().Get(3))
		if err != nil {
			return cli.Exit(fmt.Sprintf("nlog: %s", err), 1)
		}
		g = image.Geometry{Size: size, NInodes: ninodes, NLog: nlog}
	}

	f, err := os.OpenFile(imgPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open %s: %s", imgPath, err), 1)
	}
	defer f.Close()

	if err := f.Truncate(int64(g.Size) * 512); err != nil {
		return cli.Exit(fmt.Sprintf("truncate %s: %s", imgPath, err), 1)
	}

	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return cli.Exit(fmt.Sprintf("mmap %s: %s", imgPath, err), 1)
	}
	defer func() {
		if err := data.Unmap(); err != nil {
			log.Printf("unmap %s: %s", imgPath, err)
		}
	}()

	if err := image.Setup([]byte(data), g); err != nil {
		return cli.Exit(fmt.Sprintf("newfs: %s", err), 1)
	}

	if err := data.Flush(); err != nil {
		return cli.Exit(fmt.Sprintf("flush %s: %s", imgPath, err), 1)
	}
	return nil
}

func parseUint(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
