//go:build unix

package submit

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the JVM as the leader of a new process group and
// makes cancellation kill the whole group, so compilers it launched die
// with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
