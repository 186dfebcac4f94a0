package main

import (
	"fmt"
	"log"
	"os"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "disklist",
		Usage:     "List every file and subdirectory on a FAT12 disk image",
		ArgsUsage: "IMAGE",
		Action:    runDisklist,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("disklist: %s", err.Error())
	}
}

func runDisklist(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("expected exactly one argument: IMAGE", 1)
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

	walker := fat12.NewWalker(image, bs, table)
	sections, err := walker.Walk()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	for i, section := range sections {
		if section.Header != "" {
			fmt.Println()
			fmt.Println(section.Header)
			fmt.Println("----------------------------------------")
		} else if i > 0 {
			fmt.Println()
		}

		for _, e := range section.Entries {
			kind := "F"
			if e.IsDir {
				kind = "D"
			}
			modified := e.Entry.LastModifiedAt()
			fmt.Printf("%s %8d %-12s %s\n", kind, e.Entry.FileSize, e.Name, modified.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
