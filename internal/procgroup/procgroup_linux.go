//go:build linux

// Package procgroup configures child processes so the whole process tree
// can be signalled at once, and so children do not outlive the shell.
package procgroup

import (
	"os/exec"
	"syscall"
)

// Setup places the child in its own process group. On Linux, Pdeathsig
// additionally delivers SIGTERM to the child if the shell itself dies.
func Setup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
