package main

import (
	"fmt"
	"log"
	"os"

	"github.com/csc360-labs/fat12lab/checkin"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "acs",
		Usage:     "Run the airport check-in simulation over a customer file",
		ArgsUsage: "CUSTOMERS-FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "clerks", Value: 2, Usage: "number of clerks serving both queues"},
		},
		Action: runACS,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("acs: %s", err.Error())
	}
}

func runACS(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("expected exactly one argument: CUSTOMERS-FILE", 1)
	}

	f, err := os.Open(ctx.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer f.Close()

	customers, err := checkin.ParseCustomerFile(f)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	scheduler := checkin.NewScheduler(customers, len(customers))
	stats, logs := scheduler.Run(ctx.Int("clerks"))

	for _, entry := range logs {
		fmt.Printf(
			"customer %d (%s): arrived %.1fs, served %.1fs-%.1fs\n",
			entry.CustomerID, entry.Class, entry.ArrivedAt, entry.ServiceStartAt, entry.ServiceEndAt,
		)
	}

	fmt.Printf("\naverage wait, economy:  %.2fs\n", stats.AverageWaitSeconds(checkin.Economy))
	fmt.Printf("average wait, business: %.2fs\n", stats.AverageWaitSeconds(checkin.Business))
	fmt.Printf("average wait, overall:  %.2fs\n", stats.OverallAverageWaitSeconds())
	return nil
}
