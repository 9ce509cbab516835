package matrix

import (
	"github.com/attunehq/ygmbench/scheduler"
	"github.com/attunehq/ygmbench/sweep"
)

// BuildLauncher returns the generator for the job launcher that wraps every
// experiment command.
func BuildLauncher(opts Options) *sweep.Generator {
	kind := opts.Scheduler
	launcher := sweep.New(kind.Launcher())
	if kind != scheduler.LSF {
		launcher.AddRequiredFlag("--exclusive")
	}

	// An explicitly empty list is attached and leaves no launcher commands.
	if opts.NTasksPerNode != nil {
		launcher.AddArg(kind.TasksPerNodeFlag(), opts.NTasksPerNode...)
	}

	if opts.Account != "" {
		if kind == scheduler.LSF {
			launcher.AddArg("-G", opts.Account)
		} else {
			launcher.AddRequiredArg("-A", opts.Account)
		}
	}

	if opts.Nodes != "" {
		launcher.AddRequiredArg("-N", opts.Nodes)
	}

	return launcher
}
