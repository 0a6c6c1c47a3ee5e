package runner

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesStdout(t *testing.T) {
	r := New(Config{}, nil)

	res, err := r.Run(context.Background(), "printf 'line one\\nline two\\n'")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if res.Stdout != "line one\nline two\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	if res.StderrObserved {
		t.Fatal("stderr reported but nothing was written")
	}
}

func TestRunStderrDoesNotLeakIntoStdout(t *testing.T) {
	r := New(Config{}, nil)

	res, err := r.Run(context.Background(), "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "out\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	if !res.StderrObserved {
		t.Fatal("stderr not observed")
	}
}

func TestRunLargeOutputOnBothStreams(t *testing.T) {
	const n = 200000
	r := New(Config{}, nil)

	// Both streams exceed a pipe buffer; stderr is written first so an
	// undrained stderr would block the command before stdout is produced.
	cmd := "head -c 200000 /dev/zero | tr '\\0' b 1>&2; head -c 200000 /dev/zero | tr '\\0' a"
	res, err := r.RunWithTimeout(context.Background(), cmd, 20*time.Second)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Stdout) != n {
		t.Fatalf("stdout length = %d, want %d", len(res.Stdout), n)
	}
	if strings.Trim(res.Stdout, "a") != "" {
		t.Fatal("stdout contains bytes from stderr")
	}
	if !res.StderrObserved {
		t.Fatal("stderr output not observed")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := New(Config{}, nil)

	res, err := r.Run(context.Background(), "echo partial; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNonZeroExit) {
		t.Fatalf("error = %v, want ErrNonZeroExit", err)
	}
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Code != 3 {
		t.Fatalf("code = %+v", cerr)
	}
	if res == nil || res.Stdout != "partial\n" {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	r := New(Config{Shell: "/nonexistent/shell"}, nil)

	res, err := r.Run(context.Background(), "true")
	if !errors.Is(err, ErrSpawnFailed) {
		t.Fatalf("error = %v, want ErrSpawnFailed", err)
	}
	if res != nil {
		t.Fatalf("result = %+v, want nil", res)
	}
}

func TestRunTimeout(t *testing.T) {
	r := New(Config{Timeout: 100 * time.Millisecond}, nil)

	start := time.Now()
	_, err := r.Run(context.Background(), "sleep 5")
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("error = %v, want ErrTimedOut", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestRunIgnoresCallerCancellation(t *testing.T) {
	r := New(Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, "echo done")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stdout != "done\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestRunEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	r := New(Config{Dir: dir, Env: []string{"NODE_MANAGER_TEST=yes"}}, nil)

	res, err := r.Run(context.Background(), "echo $NODE_MANAGER_TEST; pwd")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	if len(lines) != 2 || lines[0] != "yes" || !strings.HasSuffix(lines[1], filepath.Base(dir)) {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestLineWriterSplitsAcrossWrites(t *testing.T) {
	var lines []string
	w := newLineWriter(nil, func(l string) { lines = append(lines, l) })

	w.Write([]byte("he"))
	w.Write([]byte("llo\r\nwor"))
	w.Write([]byte("ld\ntail"))
	w.Flush()

	want := []string{"hello", "world", "tail"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	if !w.Written() {
		t.Fatal("Written() = false")
	}
}

func TestCommandErrorKinds(t *testing.T) {
	err := &CommandError{Kind: KindTimedOut, Code: -1, Err: errors.New("timed out after 1s")}
	if errors.Is(err, ErrNonZeroExit) || errors.Is(err, ErrSpawnFailed) {
		t.Fatal("timed out error matched another kind")
	}
	if !errors.Is(err, ErrTimedOut) {
		t.Fatal("timed out error did not match ErrTimedOut")
	}
	if KindSpawnFailed.String() != "spawn failed" {
		t.Fatalf("Kind.String() = %q", KindSpawnFailed.String())
	}
}
