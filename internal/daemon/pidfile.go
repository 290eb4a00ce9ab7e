package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/sstat/internal/errors"
)

const pidFileName = "sstat.pid"

// DefaultPIDFile returns the PID file location used when none is configured.
func DefaultPIDFile() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, pidFileName)
	}

	return filepath.Join(os.TempDir(), pidFileName)
}

// PIDFile guards against a second instance running for the same user.
type PIDFile struct {
	path string
}

func NewPIDFile(path string) *PIDFile {
	if path == "" {
		path = DefaultPIDFile()
	}

	return &PIDFile{path: path}
}

func (p *PIDFile) Path() string {
	return p.path
}

// Write records the current process ID. It fails with ErrAlreadyRunning if
// the file names a live process; a stale file is replaced.
func (p *PIDFile) Write() error {
	errFactory := errors.New()

	if running, err := p.running(); err != nil {
		return err
	} else if running {
		return errFactory.WithData(errors.ErrAlreadyRunning, p.path)
	}

	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.WrapWithData(errors.ErrInternal, err, p.path)
	}

	return nil
}

// Remove deletes the PID file if it exists.
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return errors.New().WrapWithData(errors.ErrInternal, err, p.path)
	}

	return nil
}

func (p *PIDFile) running() (bool, error) {
	bytes, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.New().WrapWithData(errors.ErrInternal, err, p.path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		// Unparseable content is treated as stale.
		return false, nil
	}
	if pid == os.Getpid() {
		return false, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, nil
	}

	return process.Signal(syscall.Signal(0)) == nil, nil
}
