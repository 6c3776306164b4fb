package procgroup

import (
	"os"
	"syscall"
)

// Terminate sends SIGTERM to the process group of p. The negative PID
// makes the kernel deliver the signal to every process in the group, so
// helpers spawned by the CLI go down with it.
func Terminate(p *os.Process) error {
	return signalGroup(p, syscall.SIGTERM)
}

// Kill sends SIGKILL to the process group of p.
func Kill(p *os.Process) error {
	return signalGroup(p, syscall.SIGKILL)
}

func signalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}
