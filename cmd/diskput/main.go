package main

import (
	"log"
	"os"
	"path"
	"strings"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "diskput",
		Usage:     "Copy a host file into a FAT12 disk image",
		ArgsUsage: "IMAGE PATH-OR-FILENAME",
		Action:    runDiskput,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("diskput: %s", err.Error())
	}
}

func runDiskput(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("expected two arguments: IMAGE PATH-OR-FILENAME", 1)
	}

	imagePath := ctx.Args().Get(0)
	target := ctx.Args().Get(1)

	// If target contains '/', the leading components name an existing
	// subdirectory on the image; only the trailing component is the source
	// filename, which must exist in the current working directory.
	destDir, sourceName := "", target
	if strings.Contains(target, "/") {
		destDir = strings.ToUpper(path.Dir(target))
		sourceName = path.Base(target)
	}

	image, err := fat12.OpenImage(imagePath, false)
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

	inserter := fat12.NewInserter(image, bs, table)
	destName := strings.ToUpper(sourceName)
	if err := inserter.Insert(sourceName, destDir, destName); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := table.WriteBoth(image, bs); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
