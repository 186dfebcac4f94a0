package main

import (
	"fmt"
	"log"
	"os"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "diskinfo",
		Usage:     "Print summary information about a FAT12 disk image",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "csv", Usage: "emit the report as a single CSV row"},
		},
		Action: runDiskinfo,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("diskinfo: %s", err.Error())
	}
}

func runDiskinfo(ctx *cli.Context) error {
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
	report, err := fat12.BuildReport(bs, table, walker)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if ctx.Bool("csv") {
		row, err := gocsv.MarshalString([]fat12.Report{report})
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Print(row)
		if geom, ok := bs.Geometry(); ok {
			fmt.Printf("matched geometry: %s\n", geom.Name)
		}
		return nil
	}

	fmt.Printf("OS Name: %s\n", report.OSName)
	fmt.Printf("Volume Label: %s\n", report.VolumeLabel)
	fmt.Printf("Total bytes: %d\n", int64(report.TotalSectors)*int64(report.BytesPerSector))
	fmt.Printf("Free bytes: %d\n", report.FreeBytes)
	fmt.Printf("File count: %d\n", report.FileCount)
	fmt.Printf("FAT copies: %d\n", bs.FATCopies)
	fmt.Printf("Sectors per FAT: %d\n", report.SectorsPerFAT)
	return nil
}
