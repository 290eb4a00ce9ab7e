// Package daemon detaches the process from its terminal and keeps a single
// instance running.
package daemon

import (
	"os"
	"os/exec"
	"syscall"

	"codeberg.org/mutker/sstat/internal/errors"
)

// childEnv marks a process started by Daemonize.
const childEnv = "SSTAT_DAEMONIZED"

// IsChild reports whether this process is the detached copy.
func IsChild() bool {
	return os.Getenv(childEnv) == "1"
}

// Daemonize starts a detached copy of the running executable in a new
// session with the same arguments and returns its PID. The caller should
// exit afterwards. Standard streams of the copy go to /dev/null, so the
// stdout sink is of no use in daemon mode.
func Daemonize() (int, error) {
	errFactory := errors.New()

	exe, err := os.Executable()
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrDaemonize, err)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrDaemonize, err)
	}
	defer devNull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), childEnv+"=1")
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errFactory.Wrap(errors.ErrDaemonize, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return 0, errFactory.Wrap(errors.ErrDaemonize, err)
	}

	return pid, nil
}
