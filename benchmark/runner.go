// Package benchmark runs external processes for the sweep drivers and
// summarizes how long they took.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command describes a single external process invocation
type Command struct {
	Args   []string          // Executable followed by its arguments
	Env    map[string]string // Overlaid on the parent environment
	Dir    string            // Working directory (empty: current)
	Stdin  io.Reader
	Stdout io.Writer // Defaults to os.Stdout
	Stderr io.Writer // Defaults to os.Stderr
}

// RunResult holds the result of a single invocation
type RunResult struct {
	Args     []string
	Duration time.Duration
	ExitCode int
	Success  bool
	Error    string
}

// Runner executes commands synchronously.
//
// A non-zero exit status is reported in the RunResult, not as an error.
// The error is reserved for processes that could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (RunResult, error)
}

// ExecRunner runs commands as child processes of this one.
type ExecRunner struct {
	Logger *zap.Logger
}

// Run executes cmd and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, c Command) (RunResult, error) {
	result := RunResult{Args: slices.Clone(c.Args)}
	if len(c.Args) == 0 {
		return result, errors.New("empty command line")
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Env = MergeEnv(os.Environ(), c.Env)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	logger.Debug("Starting process",
		zap.Strings("args", c.Args),
		zap.Any("env", c.Env),
		zap.String("dir", c.Dir))

	startTime := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(startTime)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("failed to run %s: %w", c.Args[0], err)
		}
		result.ExitCode = exitErr.ExitCode()
		result.Error = err.Error()
		logger.Debug("Process exited with failure",
			zap.String("command", c.Args[0]),
			zap.Int("exit_code", result.ExitCode),
			zap.Duration("duration", result.Duration))
		return result, nil
	}

	result.Success = true
	logger.Debug("Process completed",
		zap.String("command", c.Args[0]),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// MergeEnv returns base with overlay applied. Entries of base whose key is
// overridden are dropped; overlay entries are appended in key order.
func MergeEnv(base []string, overlay map[string]string) []string {
	env := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overlay[key]; ok {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		env = append(env, k+"="+overlay[k])
	}
	return env
}
