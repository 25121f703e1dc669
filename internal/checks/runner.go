package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// DefaultTool is the lint executable invoked when none is configured.
const DefaultTool = "lint"

// DefaultCheck is the lint issue id passed to --check.
const DefaultCheck = "UnusedResources"

// ErrTimeout is returned when the tool outlives CheckConfig.Timeout.
var ErrTimeout = errors.New("lint tool timed out")

// ErrKilled is returned when the tool dies on a signal we did not send.
var ErrKilled = errors.New("lint tool was killed")

// DefaultWaitDelay bounds how long ExecRunner waits for the tool's output
// pipes to close after the tool has been killed.
const DefaultWaitDelay = 2 * time.Second

// Result holds the structured output of a check run.
type Result struct {
	CheckName    string   `json:"check_name"`
	Target       string   `json:"target"`
	Command      []string `json:"command"`
	Passed       bool     `json:"passed"`
	ToolExitCode int      `json:"tool_exit_code"`
	DurationMs   int      `json:"duration_ms"`
	Summary      string   `json:"summary"`
	Matches      []string `json:"matches"`
	Stdout       string   `json:"-"`
	Stderr       string   `json:"-"`
}

// Report returns the matched lines joined by newlines.
func (r *Result) Report() string {
	return strings.Join(r.Matches, "\n")
}

// CheckConfig describes how to invoke the lint tool and read its output.
type CheckConfig struct {
	Name    string
	Tool    string
	Check   string
	Marker  string
	Parser  string
	Timeout time.Duration // zero waits for the tool indefinitely
}

func (c CheckConfig) withDefaults() CheckConfig {
	if c.Tool == "" {
		c.Tool = DefaultTool
	}
	if c.Check == "" {
		c.Check = DefaultCheck
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if c.Name == "" {
		c.Name = c.Check
	}
	return c
}

// Args builds the full argv for checking target. target is passed through
// untouched; the tool reports invalid paths itself.
func Args(cfg CheckConfig, target string) []string {
	cfg = cfg.withDefaults()
	return []string{cfg.Tool, "--check", cfg.Check, target}
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout []byte, stderr []byte, exitCode int, err error)
}

// ExecRunner implements CommandRunner with os/exec. A tool that starts and
// exits non-zero is reported through exitCode, not err. On cancellation the
// tool's whole process group is killed, so wrapper scripts do not outlive it.
type ExecRunner struct {
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

func (e *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = DefaultWaitDelay
	if e.WaitDelay > 0 {
		cmd.WaitDelay = e.WaitDelay
	}
	killProcessGroup(cmd)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.Bytes(), stderrBuf.Bytes(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}

// Runner executes the lint tool and filters its output.
type Runner struct {
	cmd    CommandRunner
	logger *slog.Logger
}

// NewRunner creates a Runner with the given command runner.
func NewRunner(cmd CommandRunner, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{cmd: cmd, logger: logger}
}

// Run invokes the tool once against target from dir and parses its stdout.
// It returns an error only when the tool could not be run to completion.
func (r *Runner) Run(ctx context.Context, dir string, target string, cfg CheckConfig) (*Result, error) {
	cfg = cfg.withDefaults()

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	argv := Args(cfg, target)
	r.logger.Debug("running lint", "command", argv, "dir", dir)

	start := time.Now()
	rawStdout, rawStderr, exitCode, err := r.cmd.Run(ctx, dir, argv[0], argv[1:]...)
	durationMs := int(time.Since(start).Milliseconds())

	// A child killed on cancellation surfaces as a plain exit, so the
	// context decides first. Partial output is never judged.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("run %s after %s: %w", cfg.Tool, cfg.Timeout, ErrTimeout)
		}
		return nil, fmt.Errorf("run %s: %w", cfg.Tool, context.Cause(ctx))
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", cfg.Tool, err)
	}
	if exitCode < 0 {
		return nil, fmt.Errorf("run %s: %w", cfg.Tool, ErrKilled)
	}

	stdout := decodeUTF8(rawStdout)
	stderr := decodeUTF8(rawStderr)
	r.logger.Debug("lint finished",
		"exit_code", exitCode,
		"duration_ms", durationMs,
		"stdout_bytes", len(rawStdout),
		"stderr_bytes", len(rawStderr),
	)

	parsed := parserFor(cfg).Parse(stdout, stderr, exitCode)
	matches := parsed.Findings
	if matches == nil {
		matches = []string{}
	}

	return &Result{
		CheckName:    cfg.Name,
		Target:       target,
		Command:      argv,
		Passed:       parsed.Passed,
		ToolExitCode: exitCode,
		DurationMs:   durationMs,
		Summary:      parsed.Summary,
		Matches:      matches,
		Stdout:       stdout,
		Stderr:       stderr,
	}, nil
}

// parserFor picks the output parser named by cfg, defaulting to the marker filter.
func parserFor(cfg CheckConfig) Parser {
	switch cfg.Parser {
	case "generic":
		return &GenericParser{}
	default:
		return &MarkerParser{Marker: cfg.Marker}
	}
}

// decodeUTF8 decodes tool output as UTF-8, replacing invalid sequences with U+FFFD.
func decodeUTF8(b []byte) string {
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
