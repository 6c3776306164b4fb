//go:build !linux

// Package procgroup configures child processes so the whole process tree
// can be signalled at once, and so children do not outlive the shell.
package procgroup

import (
	"os/exec"
	"syscall"
)

// Setup places the child in its own process group. Pdeathsig is
// Linux-only; on other platforms group signalling alone has to do.
func Setup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
