package matrix

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"time"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Invocation is one fully composed experiment launch
type Invocation struct {
	Experiment      string
	Args            []string // Launcher tokens followed by experiment tokens
	RoutingProtocol string
	BufferSizeKB    string
}

// Env returns the environment overlay for the launch.
func (inv Invocation) Env() map[string]string {
	return map[string]string{
		RoutingEnv:    inv.RoutingProtocol,
		BufferSizeEnv: inv.BufferSizeKB,
	}
}

// InvocationResult pairs an invocation with how its process ended
type InvocationResult struct {
	Invocation
	Result benchmark.RunResult
}

// Result holds every launch of a sweep
type Result struct {
	Launcher         string
	RoutingProtocols []string
	BufferSizes      []string
	Invocations      []InvocationResult
	StartTime        time.Time
	EndTime          time.Time
}

// Plan yields every invocation of the sweep in execution order: experiment,
// launcher command, experiment command, routing protocol, buffer size.
func Plan(config Config) iter.Seq[Invocation] {
	routings := RoutingProtocolsOrDefault(config.RoutingProtocols)
	buffers := BufferSizesOrDefault(config.BufferSizes)

	return func(yield func(Invocation) bool) {
		for _, exp := range config.Registry {
			for launch := range config.Launcher.All() {
				for cmd := range exp.Generator.All() {
					for _, routing := range routings {
						for _, buffer := range buffers {
							inv := Invocation{
								Experiment:      exp.Name,
								Args:            slices.Concat(launch, cmd),
								RoutingProtocol: routing,
								BufferSizeKB:    buffer,
							}
							if !yield(inv) {
								return
							}
						}
					}
				}
			}
		}
	}
}

// PlanLen reports how many invocations Plan yields.
func PlanLen(config Config) int {
	perCommand := config.Launcher.Len() *
		len(RoutingProtocolsOrDefault(config.RoutingProtocols)) *
		len(BufferSizesOrDefault(config.BufferSizes))

	n := 0
	for _, exp := range config.Registry {
		n += exp.Generator.Len() * perCommand
	}
	return n
}

// Run launches every planned invocation sequentially, pausing config.Delay
// before each one. A process that exits non-zero is recorded and the sweep
// continues; a process that cannot be started at all ends the sweep.
func Run(ctx context.Context, config Config, runner benchmark.Runner) (*Result, error) {
	logger := config.logger()
	result := &Result{
		Launcher:         config.Launcher.String(),
		RoutingProtocols: RoutingProtocolsOrDefault(config.RoutingProtocols),
		BufferSizes:      BufferSizesOrDefault(config.BufferSizes),
		StartTime:        time.Now(),
	}
	defer func() { result.EndTime = time.Now() }()

	total := PlanLen(config)
	logger.Info("Starting sweep",
		zap.Int("experiments", len(config.Registry)),
		zap.Int("invocations", total),
		zap.Stringer("launcher", config.Launcher))
	for _, exp := range config.Registry {
		logger.Debug("Registered experiment",
			zap.String("experiment", exp.Name),
			zap.Stringer("generator", exp.Generator),
			zap.Int("commands", exp.Generator.Len()))
	}

	i := 0
	for inv := range Plan(config) {
		i++
		if err := sleep(ctx, config.Delay); err != nil {
			return result, err
		}

		logger.Info("Launching",
			zap.Int("n", i),
			zap.Int("of", total),
			zap.String("experiment", inv.Experiment),
			zap.String("routing", inv.RoutingProtocol),
			zap.String("buffer", bufferSize(inv.BufferSizeKB)),
			zap.Strings("args", inv.Args))

		res, err := runner.Run(ctx, benchmark.Command{
			Args:   inv.Args,
			Env:    inv.Env(),
			Stdout: config.Stdout,
		})
		result.Invocations = append(result.Invocations, InvocationResult{Invocation: inv, Result: res})
		if err != nil {
			return result, fmt.Errorf("error launching %s: %w", inv.Experiment, err)
		}
		if !res.Success {
			logger.Warn("Launch exited with failure",
				zap.String("experiment", inv.Experiment),
				zap.Int("exit_code", res.ExitCode))
		}
	}

	return result, nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// bufferSize renders a size in KB for logs, falling back to the raw value
// when it is not a number.
func bufferSize(kb string) string {
	n, err := strconv.ParseUint(kb, 10, 64)
	if err != nil {
		return kb
	}
	return humanize.IBytes(n * 1024)
}
