//go:build !windows

package process

import "syscall"

func killGroup(pid int) {
	// Best effort, launcher.Kill already signalled the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
