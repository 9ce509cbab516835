package matrix

import (
	"io"
	"time"

	"github.com/attunehq/ygmbench/scheduler"
	"github.com/attunehq/ygmbench/sweep"
	"go.uber.org/zap"
)

// Experiment registry names
const (
	ATWYGM                 = "atw_ygm"
	ATWMPI                 = "atw_mpi"
	HistoUniform           = "histo_uniform"
	HistoRMAT              = "histo_rmat"
	HistoRMATReducingAdapt = "histo_rmat_ra"
	AGUPS                  = "agups"
	CCRMAT                 = "cc_rmat"
	CCLinkedList           = "cc_linked_list"
	EmbedYGM               = "embed_ygm"
)

// Environment variables read by the benchmarked executables
const (
	RoutingEnv    = "YGM_COMM_ROUTING"
	BufferSizeEnv = "YGM_COMM_BUFFER_SIZE_KB"
)

const (
	DefaultBuildDir        = "../build/src"
	DefaultRoutingProtocol = "NONE"
	DefaultBufferSizeKB    = "16384"
	DefaultDelay           = time.Second
)

// Options holds the user-supplied sweep options.
//
// A nil list means the option was not given and the executable falls back
// to its built-in default. A non-nil empty list was given with no values;
// it still gets attached and suppresses every command of the experiments
// that use it.
type Options struct {
	BuildDir string // Directory holding the experiment executables

	// Experiment toggles
	NoATWYGM                   bool
	NoATWMPI                   bool
	NoHistoRMAT                bool
	NoHistoRMATReducingAdapter bool
	NoHistoUniform             bool
	NoAGUPS                    bool
	NoCCRMAT                   bool
	NoCCLinkedList             bool
	NoEmbedYGM                 bool

	// Experiment sweeps
	NumTrips               []string
	NoWaitUntil            bool
	TableScale             []string
	HistoInsertsPerRank    []string
	AGUPSUpdatersPerRank   []string
	AGUPSUpdaterLifetime   []string
	CCGraphScale           []string // Overridden per experiment by the two below
	CCRMATGraphScale       []string
	CCLinkedListGraphScale []string
	CCEdgefactor           []string
	EmbeddingDimension     []string
	KrowkeeLogVertexCount  []string
	KrowkeeEdgesPerRank    []string
	KrowkeeSeed            []string

	// Shared by every experiment
	NumTrials   string
	PrettyPrint bool

	// Job launcher
	Scheduler     scheduler.Kind
	Nodes         string
	NTasksPerNode []string
	Account       string
}

// Experiment is a named registry entry. Several entries may run the same
// executable with different required flags.
type Experiment struct {
	Name      string
	Generator *sweep.Generator
}

// Config holds the execution driver configuration
type Config struct {
	Registry         []Experiment
	Launcher         *sweep.Generator
	RoutingProtocols []string      // YGM_COMM_ROUTING values
	BufferSizes      []string      // YGM_COMM_BUFFER_SIZE_KB values
	Delay            time.Duration // Pause before every launch
	Stdout           io.Writer     // Experiment output (nil: os.Stdout)
	Logger           *zap.Logger
}

// RoutingProtocolsOrDefault returns protocols, or the single default
// protocol when none were given.
func RoutingProtocolsOrDefault(protocols []string) []string {
	if len(protocols) == 0 {
		return []string{DefaultRoutingProtocol}
	}
	return protocols
}

// BufferSizesOrDefault returns sizes, or the single default buffer size
// when none were given.
func BufferSizesOrDefault(sizes []string) []string {
	if len(sizes) == 0 {
		return []string{DefaultBufferSizeKB}
	}
	return sizes
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
