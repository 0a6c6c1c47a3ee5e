//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// killGroup runs the shell in its own process group so a timeout kills the
// shell together with everything it spawned.
func killGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
