//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

func killGroup(pid int) {
	// /T walks the child tree, /F skips the graceful close request.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
