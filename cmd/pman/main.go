package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/csc360-labs/fat12lab/pman"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:   "pman",
		Usage:  "Interactive background-process manager shell",
		Action: runShell,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("pman: %s", err.Error())
	}
}

func runShell(*cli.Context) error {
	manager := pman.NewManager()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Pman: > ")
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "bg":
			runBG(manager, fields[1:])
		case "bglist":
			runBGList(manager)
		case "bgkill":
			runWithPID(fields, "bgkill", manager.Kill)
		case "bgstop":
			runWithPID(fields, "bgstop", manager.Stop)
		case "bgstart":
			runWithPID(fields, "bgstart", manager.Resume)
		case "pstat":
			runPstat(fields)
		case "q":
			fmt.Println("Bye Bye")
			return nil
		default:
			fmt.Printf("%s: command not found\n", fields[0])
		}
	}
	return scanner.Err()
}

func runBG(manager *pman.Manager, args []string) {
	if len(args) == 0 {
		fmt.Println("Invalid input for executable")
		return
	}
	proc, err := manager.Start(args[0], args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}
	fmt.Printf("Process with PID %d started in background\n", proc.PID)
}

func runBGList(manager *pman.Manager) {
	processes := manager.List()
	if len(processes) == 0 {
		fmt.Println("No background jobs")
		return
	}
	for _, p := range processes {
		fmt.Printf("%d: %s\n", p.PID, p.Path)
	}
	fmt.Printf("Total background jobs: %d\n", len(processes))
}

func runWithPID(fields []string, command string, action func(int) error) {
	if len(fields) != 2 {
		fmt.Printf("%s expects exactly one PID argument\n", command)
		return
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil || pid <= 0 {
		fmt.Printf("PID %s is not valid\n", fields[1])
		return
	}
	if err := action(pid); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("PID %d: %s succeeded\n", pid, command)
}

func runPstat(fields []string) {
	if len(fields) != 2 {
		fmt.Println("pstat expects exactly one PID argument")
		return
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil || pid <= 0 {
		fmt.Printf("PID %s is not valid\n", fields[1])
		return
	}

	stat, err := pman.ReadProcStat(pid)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("<<--- Process %d Stats --->>\n", pid)
	fmt.Printf("     %-30s: {%s}\n", "comm", stat.Comm)
	fmt.Printf("     %-30s: %c\n", "state", stat.State)
	fmt.Printf("     %-30s: %.2f s\n", "utime", stat.UtimeSeconds())
	fmt.Printf("     %-30s: %.2f s\n", "stime", stat.StimeSeconds())
	fmt.Printf("     %-30s: %d pages\n", "rss", stat.RSSPages)
	fmt.Printf("     %-30s: %d\n", "voluntary context switches", stat.VoluntaryCtxtSwitches)
	fmt.Printf("     %-30s: %d\n", "nonvoluntary context switches", stat.NonvoluntaryCtxtSwitches)
}
