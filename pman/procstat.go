// Package pman implements a peripheral process-status reader and
// background-process manager: parsing /proc/<pid>/stat and
// /proc/<pid>/status, and the bg/bglist/bgkill/bgstop/bgstart/pstat
// shell commands built on top of them.
package pman

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	ferrors "github.com/csc360-labs/fat12lab/errors"
	"golang.org/x/sys/unix"
)

// ProcStat is the decoded subset of /proc/<pid>/stat and /proc/<pid>/status
// that the `pstat` command reports.
type ProcStat struct {
	PID                      int
	Comm                     string
	State                    byte
	UtimeTicks               uint64
	StimeTicks               uint64
	RSSPages                 int64
	VoluntaryCtxtSwitches    uint64
	NonvoluntaryCtxtSwitches uint64
}

// clockTicksPerSecond is read once via sysconf(_SC_CLK_TCK), the kernel value
// needed to convert raw tick counts into seconds.
var clockTicksPerSecond = sysconfClockTicks()

func sysconfClockTicks() int64 {
	ticks, err := unix.Sysconf(unix.SC_CLK_TCK)
	if err != nil || ticks <= 0 {
		return 100 // the near-universal Linux default when sysconf is unavailable
	}
	return ticks
}

// UtimeSeconds converts accumulated user-mode CPU ticks to seconds.
func (p *ProcStat) UtimeSeconds() float64 {
	return float64(p.UtimeTicks) / float64(clockTicksPerSecond)
}

// StimeSeconds converts accumulated kernel-mode CPU ticks to seconds.
func (p *ProcStat) StimeSeconds() float64 {
	return float64(p.StimeTicks) / float64(clockTicksPerSecond)
}

// ReadProcStat reads and tokenizes /proc/<pid>/stat and /proc/<pid>/status:
// token[1]=comm, token[2]=state, token[13]=utime ticks, token[14]=stime
// ticks, token[23]=rss pages (0-indexed into the whitespace-split field
// list).
func ReadProcStat(pid int) (*ProcStat, error) {
	statTokens, err := readStatTokens(pid)
	if err != nil {
		return nil, err
	}
	if len(statTokens) <= 23 {
		return nil, ferrors.ErrFormatInvalid.WithMessage(
			fmt.Sprintf("/proc/%d/stat has fewer fields than expected", pid))
	}

	utime, err := strconv.ParseUint(statTokens[13], 10, 64)
	if err != nil {
		return nil, ferrors.ErrFormatInvalid.WrapError(err)
	}
	stime, err := strconv.ParseUint(statTokens[14], 10, 64)
	if err != nil {
		return nil, ferrors.ErrFormatInvalid.WrapError(err)
	}
	rss, err := strconv.ParseInt(statTokens[23], 10, 64)
	if err != nil {
		return nil, ferrors.ErrFormatInvalid.WrapError(err)
	}

	voluntary, nonvoluntary, err := readStatusContextSwitches(pid)
	if err != nil {
		return nil, err
	}

	return &ProcStat{
		PID:                      pid,
		Comm:                     statTokens[1],
		State:                    statTokens[2][0],
		UtimeTicks:               utime,
		StimeTicks:               stime,
		RSSPages:                 rss,
		VoluntaryCtxtSwitches:    voluntary,
		NonvoluntaryCtxtSwitches: nonvoluntary,
	}, nil
}

// ReadProcState is the narrow lookup bgstop/bgstart use to decide whether a
// process is already stopped, without paying for the full stat/status parse.
func ReadProcState(pid int) (byte, error) {
	tokens, err := readStatTokens(pid)
	if err != nil {
		return 0, err
	}
	if len(tokens) <= 2 {
		return 0, ferrors.ErrFormatInvalid.WithMessage(
			fmt.Sprintf("/proc/%d/stat has fewer fields than expected", pid))
	}
	return tokens[2][0], nil
}

func readStatTokens(pid int) ([]string, error) {
	path := fmt.Sprintf("/proc/%d/stat", pid)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}
	return strings.Fields(string(data)), nil
}

func readStatusContextSwitches(pid int) (voluntary, nonvoluntary uint64, err error) {
	path := fmt.Sprintf("/proc/%d/status", pid)
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, ferrors.ErrIOFailed.WrapError(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		switch fields[0] {
		case "voluntary_ctxt_switches:":
			voluntary, _ = strconv.ParseUint(fields[1], 10, 64)
		case "nonvoluntary_ctxt_switches:":
			nonvoluntary, _ = strconv.ParseUint(fields[1], 10, 64)
		}
	}
	return voluntary, nonvoluntary, scanner.Err()
}
