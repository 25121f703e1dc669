package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"
)

// TestHelperProcess stands in for the lint executable. It prints
// HELPER_STDOUT and HELPER_STDERR, optionally starts a child that shares its
// output pipes (HELPER_SPAWN), sleeps for HELPER_SLEEP and exits HELPER_EXIT.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv("HELPER_STDOUT"))
	fmt.Fprint(os.Stderr, os.Getenv("HELPER_STDERR"))
	if os.Getenv("HELPER_SPAWN") == "1" {
		child := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$")
		child.Env = append(os.Environ(), "HELPER_SPAWN=0", "HELPER_STDOUT=", "HELPER_STDERR=")
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		if err := child.Start(); err != nil {
			os.Exit(99)
		}
	}
	if d, err := time.ParseDuration(os.Getenv("HELPER_SLEEP")); err == nil {
		time.Sleep(d)
	}
	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT"))
	os.Exit(code)
}

func TestExecRunner_CapturesStreams(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_STDOUT", "a.xml: [UnusedResources] x\n")
	t.Setenv("HELPER_STDERR", "warn\n")
	t.Setenv("HELPER_EXIT", "3")

	r := &ExecRunner{}
	stdout, stderr, code, err := r.Run(context.Background(), "", os.Args[0], "-test.run=^TestHelperProcess$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "a.xml: [UnusedResources] x\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if string(stderr) != "warn\n" {
		t.Errorf("stderr = %q", stderr)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	r := &ExecRunner{}
	_, _, code, err := r.Run(context.Background(), "", "checkresources-no-such-tool-xyz")
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
	if code != -1 {
		t.Errorf("exit code = %d, want -1", code)
	}
}

// helperLint runs the test binary as the lint tool; the real argv goes after "--".
type helperLint struct {
	ExecRunner
}

func (h *helperLint) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, int, error) {
	argv := append([]string{"-test.run=^TestHelperProcess$", "--", name}, args...)
	return h.ExecRunner.Run(ctx, dir, os.Args[0], argv...)
}

func TestRunner_Run_TimeoutStopsWrapperChildren(t *testing.T) {
	// Like the SDK's lint wrapper script: the tool starts a child that
	// inherits its stdout and outlives it unless the whole group is killed.
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_SPAWN", "1")
	t.Setenv("HELPER_SLEEP", "30s")
	t.Setenv("HELPER_STDOUT", "")
	t.Setenv("HELPER_STDERR", "")

	runner := NewRunner(&helperLint{ExecRunner{WaitDelay: 500 * time.Millisecond}}, nil)
	start := time.Now()
	_, err := runner.Run(context.Background(), "", "src/", CheckConfig{Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("run took %s, the timeout did not bound it", elapsed)
	}
}

func TestRunner_Run_CancelStopsTool(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_SLEEP", "30s")
	t.Setenv("HELPER_STDOUT", "a.xml: [UnusedResources] late\n")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	runner := NewRunner(&helperLint{}, nil)
	start := time.Now()
	result, err := runner.Run(ctx, "", "src/", CheckConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got err=%v result=%+v", err, result)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("run took %s after cancellation", elapsed)
	}
}
