// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const (
	daemonDirPattern = "emulaunch-passt-*"
	daemonSocketName = "passt.socket"
	pollInterval     = 10 * time.Millisecond
)

// DaemonArgs returns the arguments the networking daemon is started with.
func DaemonArgs(socketPath string) []string {
	return []string{"--foreground", "--socket", socketPath}
}

// PlaceholderSocketPath is the socket path rendered in launch plans. The real
// path is only known once the daemon has been started.
var PlaceholderSocketPath = filepath.Join(os.TempDir(), daemonDirPattern, daemonSocketName)

func (m *Manager) acquireDaemon(
	ctx context.Context,
	spec Spec,
	logger *slog.Logger,
) (Resource, error) {
	binary, err := exec.LookPath(spec.DaemonBinary)
	if err != nil {
		return nil, &SetupError{
			Mode:   ModePasst,
			Object: spec.DaemonBinary,
			Hint:   "install passt or set DAEMON_BINARY",
			Err:    err,
		}
	}

	dir, err := os.MkdirTemp(m.TempDir, daemonDirPattern)
	if err != nil {
		return nil, &SetupError{Mode: ModePasst, Object: "socket directory", Err: err}
	}

	socket := filepath.Join(dir, daemonSocketName)
	logger = logger.With(slog.String("daemon", binary), slog.String("socket", socket))

	res, err := startDaemon(binary, dir, socket, m.stopTimeout(), logger)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, &SetupError{Mode: ModePasst, Object: binary, Err: err}
	}

	err = waitForSocket(ctx, socket, res.done, m.readyTimeout())
	if err != nil {
		rollbackErr := res.Release()

		return nil, &SetupError{
			Mode:   ModePasst,
			Object: binary,
			Hint:   "check the daemon output",
			Err:    errors.Join(err, rollbackErr),
		}
	}

	logger.Info("Networking daemon ready")

	return res, nil
}

func startDaemon(
	binary, dir, socket string,
	stopTimeout time.Duration,
	logger *slog.Logger,
) (*daemonResource, error) {
	cmd := exec.Command(binary, DaemonArgs(socket)...)
	// Own process group, so terminal signals do not reach the daemon before
	// the emulator is gone.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	output, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	cmd.Stdout = cmd.Stderr

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	logger.Debug("Networking daemon started", slog.Int("pid", cmd.Process.Pid))

	res := &daemonResource{
		cmd:         cmd,
		dir:         dir,
		socket:      socket,
		stopTimeout: stopTimeout,
		output:      output,
		done:        make(chan struct{}),
		logger:      logger,
	}

	res.group.Go(func() error {
		defer close(res.done)

		scanErr := logLines(output, logger)
		// Wait must only be called after all output has been read.
		waitErr := cmd.Wait()
		logger.Debug("Networking daemon exited", slog.Any("status", waitErr))

		return scanErr
	})

	return res, nil
}

func logLines(r io.Reader, logger *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		logger.Debug(scanner.Text())
	}

	err := scanner.Err()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err
}

func waitForSocket(
	ctx context.Context,
	socket string,
	done <-chan struct{},
	timeout time.Duration,
) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = pollInterval
	policy.MaxInterval = 20 * pollInterval
	policy.MaxElapsedTime = timeout

	operation := func() error {
		select {
		case <-done:
			return backoff.Permanent(ErrDaemonExited)
		default:
		}

		info, err := os.Stat(socket)
		if err != nil {
			return ErrSocketNotReady
		}

		if info.Mode()&os.ModeSocket == 0 {
			return backoff.Permanent(ErrNotSocket)
		}

		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

type daemonResource struct {
	cmd         *exec.Cmd
	dir         string
	socket      string
	stopTimeout time.Duration
	output      io.Closer
	done        chan struct{}
	group       errgroup.Group
	logger      *slog.Logger

	once sync.Once
	err  error
}

func (*daemonResource) Mode() Mode {
	return ModePasst
}

func (r *daemonResource) Endpoint() string {
	return r.socket
}

// Release terminates the daemon and removes its socket directory.
func (r *daemonResource) Release() error {
	r.once.Do(func() {
		r.err = r.release()
	})

	return r.err
}

func (r *daemonResource) release() error {
	var errs []error

	stuck := false

	select {
	case <-r.done:
	default:
		errs = append(errs, r.signal(unix.SIGTERM)...)

		if r.wait() {
			break
		}

		r.logger.Warn("Networking daemon did not terminate, killing it")
		errs = append(errs, r.signal(unix.SIGKILL)...)

		if r.wait() {
			break
		}

		// A process outside of the group still holds the output pipe.
		r.logger.Warn("Daemon output still open, closing it")
		_ = r.output.Close()

		if !r.wait() {
			stuck = true
			errs = append(errs, ErrDaemonStuck)
		}
	}

	if !stuck {
		err := r.group.Wait()
		if err != nil {
			r.logger.Debug("Reading daemon output failed", slog.Any("error", err))
		}
	}

	err := os.RemoveAll(r.dir)
	if err != nil {
		errs = append(errs, fmt.Errorf("remove socket directory: %w", err))
	}

	if len(errs) > 0 {
		return &ReleaseError{Mode: ModePasst, Object: r.cmd.Path, Err: errors.Join(errs...)}
	}

	return nil
}

// signal sends sig to the process group of the daemon, so processes it
// started are terminated as well.
func (r *daemonResource) signal(sig unix.Signal) []error {
	err := unix.Kill(-r.cmd.Process.Pid, sig)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return []error{fmt.Errorf("signal %s: %w", unix.SignalName(sig), err)}
	}

	return nil
}

// wait reports whether the daemon is gone and its output is drained within
// the stop timeout.
func (r *daemonResource) wait() bool {
	select {
	case <-r.done:
		return true
	case <-time.After(r.stopTimeout):
		return false
	}
}
