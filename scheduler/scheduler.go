// Package scheduler holds the naming conventions of the supported cluster
// schedulers.
package scheduler

// Kind selects a scheduler backend.
type Kind string

const (
	Slurm Kind = "slurm"
	LSF   Kind = "lsf"
)

// FromLSF maps the --use-lsf toggle to a Kind.
func FromLSF(useLSF bool) Kind {
	if useLSF {
		return LSF
	}
	return Slurm
}

// Launcher is the parallel job launcher used inside an allocation.
func (k Kind) Launcher() string {
	if k == LSF {
		return "lrun"
	}
	return "srun"
}

// TasksPerNodeFlag is the launcher flag for ranks per node.
func (k Kind) TasksPerNodeFlag() string {
	if k == LSF {
		return "-T"
	}
	return "--ntasks-per-node"
}

// SubmitCommand reads a batch script on stdin and queues it.
func (k Kind) SubmitCommand() string {
	if k == LSF {
		return "bsub"
	}
	return "sbatch"
}

// DirectivePrefix starts every directive line in a batch script.
func (k Kind) DirectivePrefix() string {
	if k == LSF {
		return "#BSUB"
	}
	return "#SBATCH"
}

// AccountDirective is the batch directive flag for the charged account.
func (k Kind) AccountDirective() string {
	if k == LSF {
		return "-G"
	}
	return "-A"
}

// TimeDirective is the batch directive flag for the wall-time limit.
func (k Kind) TimeDirective() string {
	if k == LSF {
		return "-W"
	}
	return "-t"
}

// NodesDirective is the batch directive flag for the node count.
func (k Kind) NodesDirective() string {
	if k == LSF {
		return "-nnodes"
	}
	return "-N"
}

// DefaultTimeLimit is the wall-time limit used when none is given.
// LSF takes minutes, Slurm takes H:MM:SS.
func (k Kind) DefaultTimeLimit() string {
	if k == LSF {
		return "360"
	}
	return "1:00:00"
}
