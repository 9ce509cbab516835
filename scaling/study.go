package scaling

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/attunehq/ygmbench/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission records one batch script handed to the scheduler
type Submission struct {
	Campaign    string
	Scheduler   scheduler.Kind
	Point       ScalePoint
	OutputFile  string
	Script      string
	WorkDir     string
	ExitCode    int
	SubmittedAt time.Time
}

// Result holds every submission of a study
type Result struct {
	Campaign    string
	WorkDir     string
	Submissions []Submission
}

// Run renders and submits one batch script per node count of the study.
//
// When config.TmpDir is set the scripts and executables are staged once
// under it before the first submission and every job is submitted from the
// staged scripts directory. The exit status of the submit command is
// recorded but not acted on; failing to stage or to start the submit
// command ends the study.
func Run(ctx context.Context, config Config, runner benchmark.Runner) (*Result, error) {
	if config.MinNodes < 1 {
		return nil, fmt.Errorf("min nodes must be at least 1, got %d", config.MinNodes)
	}
	config = config.withDefaults()
	logger := config.Logger

	result := &Result{
		Campaign: uuid.NewString(),
		WorkDir:  config.WorkDir,
	}
	logger.Info("Starting scaling study",
		zap.String("campaign", result.Campaign),
		zap.String("scheduler", string(config.Scheduler)),
		zap.Int("min_nodes", config.MinNodes),
		zap.Int("max_nodes", config.MaxNodes),
		zap.Bool("dry_run", config.DryRun))

	if config.TmpDir != "" && !config.DryRun {
		dir, err := Stage(config.TmpDir, config.SourceRoot)
		if err != nil {
			return result, fmt.Errorf("failed to stage: %w", err)
		}
		result.WorkDir = dir
		logger.Info("Staged sources", zap.String("dir", dir))
	}

	for nodes := range NodeCounts(config.MinNodes, config.MaxNodes) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		point := config.ScalesFor(nodes)
		script := RenderScript(config, point)
		fmt.Fprint(config.Stdout, script)

		if config.DryRun {
			continue
		}

		sub := Submission{
			Campaign:    result.Campaign,
			Scheduler:   config.Scheduler,
			Point:       point,
			OutputFile:  OutputFilename(config.OutputDir, nodes),
			Script:      script,
			WorkDir:     result.WorkDir,
			SubmittedAt: time.Now(),
		}

		var env map[string]string
		if config.Scheduler == scheduler.LSF {
			env = map[string]string{"SLURM_JOB_NUM_NODES": strconv.Itoa(nodes)}
		}

		logger.Info("Submitting",
			zap.Int("nodes", nodes),
			zap.Int("table_scale", point.TableScale),
			zap.Int("cc_rmat_scale", point.CCRMATScale),
			zap.Int("cc_linked_list_scale", point.CCLinkedListScale),
			zap.Int("krowkee_vertex_scale", point.KrowkeeVertexScale),
			zap.String("output", sub.OutputFile))

		res, err := runner.Run(ctx, benchmark.Command{
			Args:   []string{config.Scheduler.SubmitCommand()},
			Env:    env,
			Dir:    result.WorkDir,
			Stdin:  strings.NewReader(script),
			Stdout: config.Stdout,
		})
		if err != nil {
			return result, fmt.Errorf("error submitting %d-node job: %w", nodes, err)
		}
		sub.ExitCode = res.ExitCode
		if !res.Success {
			logger.Warn("Submit command exited with failure",
				zap.Int("nodes", nodes),
				zap.Int("exit_code", res.ExitCode))
		}

		result.Submissions = append(result.Submissions, sub)
		if config.Ledger != nil {
			if err := config.Ledger.Record(ctx, sub); err != nil {
				return result, err
			}
		}
	}

	logger.Info("Scaling study finished",
		zap.String("campaign", result.Campaign),
		zap.Int("submissions", len(result.Submissions)))
	return result, nil
}
