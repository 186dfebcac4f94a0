package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	ferrors "github.com/csc360-labs/fat12lab/errors"
	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "diskget",
		Usage:     "Extract a root-level file from a FAT12 disk image",
		ArgsUsage: "IMAGE FILENAME",
		Action:    runDiskget,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("diskget: %s", err.Error())
	}
}

func runDiskget(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("expected two arguments: IMAGE FILENAME", 1)
	}

	image, err := fat12.OpenImage(ctx.Args().Get(0), true)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer image.Close()

	bs, err := fat12.ReadBootSector(image)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	table, err := fat12.ReadFAT(image, bs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	name := strings.ToUpper(ctx.Args().Get(1))
	extractor := fat12.NewExtractor(image, bs, table)

	if err := extractor.Extract(name, name); err != nil {
		if errors.Is(err, ferrors.ErrNotFound) {
			fmt.Println("File not found.")
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return cli.Exit("", 1)
	}
	return nil
}
