// Package process terminates a browser together with its renderer and
// GPU helpers, which survive a plain kill of the parent on some systems.
package process

// KillGroup force-kills pid and everything it spawned. Non-positive pids
// are ignored: on Unix they would address the caller's own group.
func KillGroup(pid int) {
	if pid <= 0 {
		return
	}
	killGroup(pid)
}
