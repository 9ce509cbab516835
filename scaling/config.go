// Package scaling drives node-scaling studies: for every power-of-two node
// count in a range it derives problem sizes that grow with the machine,
// renders a batch script and hands it to the cluster scheduler.
package scaling

import (
	"io"
	"os"

	"github.com/attunehq/ygmbench/scheduler"
	"go.uber.org/zap"
)

const (
	DefaultScalePerNode = 20
	DefaultJobName      = "ygm-bench"
	DefaultSourceRoot   = ".."
	OutputPrefix        = "ygm_bench_N"
)

// DefaultRunCommand is the sweep entry point invoked by every batch script,
// relative to the submission working directory.
var DefaultRunCommand = []string{"./ygmbench", "run"}

// Config holds the scaling study configuration
type Config struct {
	MinNodes int
	MaxNodes int

	// Per-node bases; each derived scale is base + floor(log2(nodes)).
	TableScalePerNode             int
	CCGraphScalePerNode           int
	CCRMATGraphScalePerNode       *int // Overrides CCGraphScalePerNode for cc_rmat
	CCLinkedListGraphScalePerNode *int // Overrides CCGraphScalePerNode for cc_linked_list
	KrowkeeVertexScalePerNode     int

	Scheduler   scheduler.Kind
	Account     string
	TimeLimit   string   // Default depends on the scheduler
	JobName     string   // Default DefaultJobName
	OutputDir   string   // Directory for scheduler output files
	RunCommand  []string // Default DefaultRunCommand
	Passthrough []string // Appended verbatim to every run line

	TmpDir     string // Stage a private copy under this directory when set
	SourceRoot string // Holds scripts/ and build/src; default DefaultSourceRoot
	WorkDir    string // Submission directory when not staging (empty: current)

	DryRun bool      // Render scripts without staging or submitting
	Ledger *Ledger   // Records every submission when set
	Stdout io.Writer // Script records and scheduler output (nil: os.Stdout)
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Scheduler == "" {
		c.Scheduler = scheduler.Slurm
	}
	if c.TimeLimit == "" {
		c.TimeLimit = c.Scheduler.DefaultTimeLimit()
	}
	if c.JobName == "" {
		c.JobName = DefaultJobName
	}
	if len(c.RunCommand) == 0 {
		c.RunCommand = DefaultRunCommand
	}
	if c.SourceRoot == "" {
		c.SourceRoot = DefaultSourceRoot
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
