package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExitError reports a command that ran but exited non-zero
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	stderrStr := strings.TrimSpace(e.Stderr)
	if stderrStr != "" {
		return fmt.Sprintf("command '%s' failed: %v\nstderr: %s", e.Name, e.Err, stderrStr)
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Name, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Run runs cmd, feeding Stdin and capturing stdout and stderr separately
func (e *implExecutor) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res := &Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitErr.ExitCode(),
		}
		return res, &ExitError{Name: c.Name, Code: res.ExitCode, Stderr: res.Stderr, Err: err}
	}

	// Process never started (not found, permission denied) or ctx ended first
	return nil, fmt.Errorf("command '%s' failed: %w", c.Name, err)
}

// Resolve finds an executable on PATH, falling back to dirs in order.
// A match in dirs is returned as an absolute path.
func Resolve(name string, dirs ...string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty executable name")
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return exec.LookPath(name)
	}

	path, lookErr := exec.LookPath(name)
	if lookErr == nil {
		return path, nil
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode()&0111 == 0 {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", candidate, err)
		}
		return abs, nil
	}

	return "", fmt.Errorf("resolve %s: %w", name, lookErr)
}

// SearchPathEnv returns a PATH entry for a child process: the current PATH
// followed by the absolute form of dirs. Helpers the child spawns itself,
// such as ffmpeg under whisper, are then found in dirs too.
func SearchPathEnv(dirs ...string) []string {
	if len(dirs) == 0 {
		return nil
	}
	parts := []string{}
	if cur := os.Getenv("PATH"); cur != "" {
		parts = append(parts, cur)
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		parts = append(parts, abs)
	}
	return []string{"PATH=" + strings.Join(parts, string(os.PathListSeparator))}
}
