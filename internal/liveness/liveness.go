// Package liveness answers "is the gateway process alive" the way the
// rest of the SaaS expects it answered: by looking at the process table,
// not by probing the socket. A true result means the process exists, not
// that it is accepting connections.
package liveness

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Check scans the process table for a command line containing Pattern.
type Check struct {
	// Pattern is matched against each process command line.
	Pattern string

	// ProcRoot is the procfs mount point. Defaults to /proc.
	ProcRoot string

	// SkipPID is excluded from the scan, so a process can ask about
	// siblings without counting itself. Zero skips nothing.
	SkipPID int
}

// New returns a Check for pattern that ignores the calling process.
func New(pattern string) Check {
	return Check{Pattern: pattern, ProcRoot: "/proc", SkipPID: os.Getpid()}
}

// Alive reports whether any process other than SkipPID has a command line
// matching the pattern.
func (c Check) Alive() (bool, error) {
	root := c.ProcRoot
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == c.SkipPID {
			continue
		}
		cmdline, err := os.ReadFile(filepath.Join(root, entry.Name(), "cmdline"))
		if err != nil {
			// The process exited mid-scan; not our problem.
			continue
		}
		command := string(bytes.ReplaceAll(cmdline, []byte{0}, []byte{' '}))
		if strings.Contains(command, c.Pattern) {
			return true, nil
		}
	}
	return false, nil
}
