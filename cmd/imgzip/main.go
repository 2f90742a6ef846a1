// Command imgzip compresses and decompresses xv6 image fixtures with the
// same RLE8 pipeline the test suite's fixtures use, so a fixture can be
// refreshed or inspected without writing a throwaway Go program.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/xv6tools/xv6fs/utilities/compression"
)

func main() {
	app := &cli.App{
		Name:  "imgzip",
		Usage: "compress or decompress an xv6 image fixture",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				ArgsUsage: "INPUT OUTPUT",
				Action:    func(c *cli.Context) error { return runC9n(c, compression.CompressImage) },
			},
			{
				Name:      "decompress",
				ArgsUsage: "INPUT OUTPUT",
				Action:    func(c *cli.Context) error { return runC9n(c, compression.DecompressImage) },
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runC9n(c *cli.Context, fn func(io.Reader, io.Writer) (int64, error)) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: imgzip (compress|decompress) input output", 1)
	}

	in, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer in.Close()

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer out.Close()

	n, err := fn(in, out)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("wrote %d bytes\n", n)
	return nil
}
