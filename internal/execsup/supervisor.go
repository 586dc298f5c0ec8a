// Package execsup implements the Execution Supervisor from spec.md §4.6:
// pre-flight validation, child-process spawn under a per-shell timeout, and
// translation of spawn/timeout failures into apperr.GatewayError.
package execsup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shellgate/shellgate/internal/apperr"
	"github.com/shellgate/shellgate/internal/validate"
)

// Request is the executeCommand input, spec.md §4.6.
type Request struct {
	Shell      string
	Command    string
	WorkingDir string
}

// Result is the executeCommand output, spec.md §4.6.
type Result struct {
	Stdout           string
	Stderr           string
	ExitCode         int
	WorkingDirectory string
	ExecutionID      string
}

// Supervisor spawns and supervises shell children on behalf of
// executeCommand requests. One Supervisor instance is shared by all
// requests; it holds no per-request mutable state.
type Supervisor struct {
	contexts map[string]*validate.Context
	logger   *slog.Logger
}

// New builds a Supervisor over the given validation contexts (one per
// enabled shell, spec.md §2.4).
func New(contexts map[string]*validate.Context, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{contexts: contexts, logger: logger}
}

// Execute runs the executeCommand contract from spec.md §4.6.
func (s *Supervisor) Execute(ctx context.Context, req Request) (*Result, error) {
	execID := uuid.NewString()
	log := s.logger.With("executionId", execID, "shell", req.Shell)

	vctx, ok := s.contexts[req.Shell]
	if !ok {
		return nil, apperr.InvalidRequest(req.Shell, fmt.Sprintf("unknown or disabled shell: %s", req.Shell))
	}

	resolvedDir, err := validate.ValidateCommand(vctx, req.Command, req.WorkingDir)
	if err != nil {
		return nil, err
	}
	if vctx.Config.Security.RestrictWorkingDirectory {
		if err := validate.ValidateWorkingDirectory(resolvedDir, vctx); err != nil {
			return nil, err
		}
	}

	args := append(append([]string{}, vctx.Config.Executable.Args...), req.Command)
	log.Debug("exec.spawn", "command", vctx.Config.Executable.Command, "args", args, "cwd", resolvedDir)

	timeout := vctx.Config.Security.CommandTimeout
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, vctx.Config.Executable.Command, args...)
	cmd.Dir = resolvedDir

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperr.InternalExecError(req.Shell, fmt.Sprintf("Shell process error: %v", err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, apperr.InternalExecError(req.Shell, fmt.Sprintf("Shell process error: %v", err))
	}

	if err := cmd.Start(); err != nil {
		return nil, apperr.InternalExecError(req.Shell, fmt.Sprintf("Shell process error: %v", err)).
			WithContext("executionId", execID)
	}

	var stdout, stderr bytes.Buffer
	var drain errgroup.Group
	drain.Go(func() error {
		_, err := stdout.ReadFrom(stdoutPipe)
		return err
	})
	drain.Go(func() error {
		_, err := stderr.ReadFrom(stderrPipe)
		return err
	})
	_ = drain.Wait()

	waitErr := cmd.Wait()

	if runCtx.Err() == context.DeadlineExceeded {
		log.Warn("exec.timeout", "timeoutSeconds", timeout.Seconds())
		return nil, apperr.InternalExecError(req.Shell,
			fmt.Sprintf("Command timed out after %g seconds (%s)", timeout.Seconds(), req.Shell)).
			WithContext("executionId", execID)
	}

	exitCode := 0
	if waitErr != nil {
		exitErr, isExitErr := waitErr.(*exec.ExitError)
		if !isExitErr {
			return nil, apperr.InternalExecError(req.Shell, fmt.Sprintf("Shell process error: %v", waitErr)).
				WithContext("executionId", execID)
		}
		exitCode = exitErr.ExitCode()
	}

	log.Debug("command completed", "exitCode", exitCode)
	return &Result{
		Stdout:           stdout.String(),
		Stderr:           stderr.String(),
		ExitCode:         exitCode,
		WorkingDirectory: resolvedDir,
		ExecutionID:      execID,
	}, nil
}
