package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"node-manager/internal/pkg/logger"
)

const (
	defaultShell     = "/bin/sh"
	defaultWaitDelay = 5 * time.Second
)

type Config struct {
	Shell   string
	Dir     string
	Env     []string
	Timeout time.Duration
}

type Runner struct {
	config Config
	logger *logger.Logger
}

type Result struct {
	ExitCode       int
	Stdout         string
	StderrObserved bool
}

func New(config Config, log *logger.Logger) *Runner {
	if config.Shell == "" {
		config.Shell = defaultShell
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		config: config,
		logger: log,
	}
}

// Run executes command through the configured shell and blocks until the
// process exits. Output is consumed while the process runs. A non-nil
// Result is returned whenever the process was started.
func (r *Runner) Run(ctx context.Context, command string) (*Result, error) {
	return r.RunWithTimeout(ctx, command, r.config.Timeout)
}

// RunWithTimeout is Run with a per-call timeout; zero disables it.
func (r *Runner) RunWithTimeout(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	// Spawned commands outlive the caller's cancellation; only the timeout stops them.
	ctx = context.WithoutCancel(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	outWriter := newLineWriter(&stdout, func(line string) {
		r.logger.CommandOutput("stdout", line)
	})
	errWriter := newLineWriter(nil, func(line string) {
		r.logger.CommandOutput("stderr", line)
	})

	cmd := exec.CommandContext(ctx, r.config.Shell, "-c", command)
	cmd.Dir = r.config.Dir
	if len(r.config.Env) > 0 {
		cmd.Env = append(os.Environ(), r.config.Env...)
	}
	cmd.Stdout = outWriter
	cmd.Stderr = errWriter
	cmd.WaitDelay = defaultWaitDelay
	killGroup(cmd)

	r.logger.CommandStarted(command)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		cerr := &CommandError{Kind: KindSpawnFailed, Code: -1, Err: err}
		r.logger.CommandFailed(command, cerr)
		return nil, cerr
	}

	waitErr := cmd.Wait()
	outWriter.Flush()
	errWriter.Flush()

	result := &Result{
		ExitCode:       cmd.ProcessState.ExitCode(),
		Stdout:         stdout.String(),
		StderrObserved: errWriter.Written(),
	}
	r.logger.CommandFinished(command, result.ExitCode, time.Since(start))

	if err := classify(ctx, result, waitErr, timeout); err != nil {
		r.logger.CommandFailed(command, err)
		return result, err
	}
	return result, nil
}

func classify(ctx context.Context, result *Result, waitErr error, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &CommandError{Kind: KindTimedOut, Code: result.ExitCode, Err: fmt.Errorf("timed out after %s", timeout)}
	}
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &CommandError{Kind: KindNonZeroExit, Code: exitErr.ExitCode(), Err: waitErr}
	}
	// ErrWaitDelay and I/O faults after a clean start.
	if result.ExitCode == 0 {
		return nil
	}
	return &CommandError{Kind: KindNonZeroExit, Code: result.ExitCode, Err: waitErr}
}
