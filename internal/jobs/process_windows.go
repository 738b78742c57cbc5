//go:build windows

package jobs

import (
	"os"
	"syscall"
)

// getSysProcAttr starts a spawned worker in its own process group so it
// outlives a short-lived CLI invocation.
func getSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

func signalProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	// Windows only supports os.Kill/os.Interrupt via os.Process.Signal;
	// there is no SIGTERM equivalent, so cancellation is a hard kill.
	if err := proc.Kill(); err != nil {
		if err == os.ErrProcessDone {
			return nil
		}
		return err
	}
	return nil
}

func terminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
