package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Run executes cmd and returns both captured streams and the exit code.
	// The Result is non-nil whenever the process was started, including
	// when it exits non-zero.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Command describes one external process invocation
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // appended to the current environment
	Stdin string
}

// Result holds what a finished process produced
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
