package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/attunehq/ygmbench/matrix"
	"github.com/attunehq/ygmbench/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch every experiment over every parameter combination",
	Long: `Launch each enabled experiment over the cartesian product of the given
parameter values and the power set of its optional flags, wrapped in srun
(or lrun with --use-lsf), once per YGM_COMM_ROUTING and
YGM_COMM_BUFFER_SIZE_KB value.

List options take repeated or comma-separated values. An option given with
an empty value (--table-scale=) produces no launches for the experiments
that use it; an option left out falls back to the executable's default.`,
	Example: `  ygmbench run -N 2 --ntasks-per-node 8,16 -t 3 \
    --no-atw-mpi --no-embed-ygm \
    -s 20,22 -g 18 --ygm-comm-buffer-size-kb 1024,16384`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	addRunFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

// addRunFlags registers the sweep flags on fs.
func addRunFlags(fs *pflag.FlagSet) {
	fs.String("build-dir", matrix.DefaultBuildDir, "Directory holding the experiment executables")
	fs.Bool("dry-run", false, "Print the planned launches without running them")
	fs.String("summary-dir", "", "Write JSON, CSV and Markdown summaries to this directory")

	// Job launcher
	fs.StringP("nodes", "N", "", "Number of nodes")
	fs.StringSlice("ntasks-per-node", nil, "Tasks per node values to sweep")
	fs.StringP("account", "A", "", "Bank to charge")
	fs.StringSlice("ygm-comm-routing", nil, "YGM_COMM_ROUTING values to sweep (default NONE)")
	fs.StringSlice("ygm-comm-buffer-size-kb", nil, "YGM_COMM_BUFFER_SIZE_KB values to sweep (default 16384)")
	fs.Bool("use-lsf", false, "Use LSF (lrun) instead of Slurm (srun)")

	// Shared by every experiment
	fs.BoolP("pretty-print", "p", false, "Pretty-print all JSON output")
	fs.StringP("num-trials", "t", "", "Number of trials to run of each experiment")
	fs.StringP("output", "o", "", "Append experiment output to this file (default stdout)")

	// Experiment toggles
	fs.Bool("no-atw-ygm", false, "Skip around-the-world YGM experiment")
	fs.Bool("no-atw-mpi", false, "Skip around-the-world MPI experiment")
	fs.Bool("no-histo-rmat", false, "Skip histogram experiment with RMAT inputs")
	fs.Bool("no-histo-rmat-reducing-adapter", false, "Skip histogram experiment with RMAT inputs using the reducing adapter")
	fs.Bool("no-histo-uniform", false, "Skip histogram experiment with uniform inputs")
	fs.Bool("no-agups", false, "Skip AGUPS experiment")
	fs.Bool("no-cc-rmat", false, "Skip connected components RMAT experiment")
	fs.Bool("no-cc-linked-list", false, "Skip connected components linked-list experiment")
	fs.Bool("no-embed-ygm", false, "Skip krowkee graph embedding experiment")

	// Experiment sweeps
	fs.StringSliceP("num-trips", "n", nil, "Trips around the world in around-the-world experiments")
	fs.Bool("no-wait-until", false, "Do not test ygm::comm::wait_until() in around-the-world")
	fs.StringSliceP("table-scale", "s", nil, "log2 of table size in histogram and AGUPS experiments")
	fs.StringSliceP("histo-inserts-per-rank", "i", nil, "Insertions spawned by each rank in histogram experiments")
	fs.StringSliceP("agups-updaters-per-rank", "u", nil, "Updaters spawned by each rank in AGUPS experiments")
	fs.StringSliceP("agups-updater-lifetime", "l", nil, "Jumps made by each updater in AGUPS experiments")
	fs.StringSliceP("cc-graph-scale", "g", nil, "log2 graph scale for connected components experiments")
	fs.StringSlice("cc-rmat-graph-scale", nil, "log2 graph scale for connected components RMAT (overrides --cc-graph-scale)")
	fs.StringSlice("cc-linked-list-graph-scale", nil, "log2 graph scale for connected components linked list (overrides --cc-graph-scale)")
	fs.StringSlice("cc-edgefactor", nil, "Edge factor for connected components RMAT")
	fs.StringSliceP("embedding-dimension", "d", nil, "Embedding dimensions for krowkee experiments")
	fs.StringSliceP("krowkee-log-vertex-count", "v", nil, "log2 of vertex count for krowkee experiments")
	fs.StringSlice("krowkee-edges-per-rank", nil, "Edges generated per rank for krowkee experiments")
	fs.StringSlice("krowkee-seed", nil, "Seed for krowkee experiments")
}

// sliceFlag returns nil when the flag was not given and a non-nil slice,
// possibly empty, when it was.
func sliceFlag(fs *pflag.FlagSet, name string) []string {
	if !fs.Changed(name) {
		return nil
	}
	values, _ := fs.GetStringSlice(name)
	if values == nil {
		values = []string{}
	}
	return values
}

func boolFlag(fs *pflag.FlagSet, name string) bool {
	v, _ := fs.GetBool(name)
	return v
}

func stringFlag(fs *pflag.FlagSet, name string) string {
	v, _ := fs.GetString(name)
	return v
}

// runOptions maps the parsed sweep flags onto matrix.Options.
func runOptions(fs *pflag.FlagSet) matrix.Options {
	return matrix.Options{
		BuildDir: stringFlag(fs, "build-dir"),

		NoATWYGM:                   boolFlag(fs, "no-atw-ygm"),
		NoATWMPI:                   boolFlag(fs, "no-atw-mpi"),
		NoHistoRMAT:                boolFlag(fs, "no-histo-rmat"),
		NoHistoRMATReducingAdapter: boolFlag(fs, "no-histo-rmat-reducing-adapter"),
		NoHistoUniform:             boolFlag(fs, "no-histo-uniform"),
		NoAGUPS:                    boolFlag(fs, "no-agups"),
		NoCCRMAT:                   boolFlag(fs, "no-cc-rmat"),
		NoCCLinkedList:             boolFlag(fs, "no-cc-linked-list"),
		NoEmbedYGM:                 boolFlag(fs, "no-embed-ygm"),

		NumTrips:               sliceFlag(fs, "num-trips"),
		NoWaitUntil:            boolFlag(fs, "no-wait-until"),
		TableScale:             sliceFlag(fs, "table-scale"),
		HistoInsertsPerRank:    sliceFlag(fs, "histo-inserts-per-rank"),
		AGUPSUpdatersPerRank:   sliceFlag(fs, "agups-updaters-per-rank"),
		AGUPSUpdaterLifetime:   sliceFlag(fs, "agups-updater-lifetime"),
		CCGraphScale:           sliceFlag(fs, "cc-graph-scale"),
		CCRMATGraphScale:       sliceFlag(fs, "cc-rmat-graph-scale"),
		CCLinkedListGraphScale: sliceFlag(fs, "cc-linked-list-graph-scale"),
		CCEdgefactor:           sliceFlag(fs, "cc-edgefactor"),
		EmbeddingDimension:     sliceFlag(fs, "embedding-dimension"),
		KrowkeeLogVertexCount:  sliceFlag(fs, "krowkee-log-vertex-count"),
		KrowkeeEdgesPerRank:    sliceFlag(fs, "krowkee-edges-per-rank"),
		KrowkeeSeed:            sliceFlag(fs, "krowkee-seed"),

		NumTrials:   stringFlag(fs, "num-trials"),
		PrettyPrint: boolFlag(fs, "pretty-print"),

		Scheduler:     scheduler.FromLSF(boolFlag(fs, "use-lsf")),
		Nodes:         stringFlag(fs, "nodes"),
		NTasksPerNode: sliceFlag(fs, "ntasks-per-node"),
		Account:       stringFlag(fs, "account"),
	}
}

// runConfig assembles the execution driver configuration from the flags.
func runConfig(fs *pflag.FlagSet) matrix.Config {
	opts := runOptions(fs)
	return matrix.Config{
		Registry:         matrix.BuildRegistry(opts),
		Launcher:         matrix.BuildLauncher(opts),
		RoutingProtocols: sliceFlag(fs, "ygm-comm-routing"),
		BufferSizes:      sliceFlag(fs, "ygm-comm-buffer-size-kb"),
		Delay:            matrix.DefaultDelay,
		Logger:           logger,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	return executeSweep(cmd.Context(), cmd.Flags(), cmd.OutOrStdout())
}

// executeSweep runs, or with --dry-run only plans, the sweep described by fs.
// Plans and summaries go to out.
func executeSweep(ctx context.Context, fs *pflag.FlagSet, out io.Writer) error {
	config := runConfig(fs)

	if boolFlag(fs, "dry-run") {
		matrix.PrintPlan(out, config)
		return nil
	}

	config.Stdout = out
	if output := stringFlag(fs, "output"); output != "" {
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error opening output file: %w", err)
		}
		defer file.Close()
		config.Stdout = file
	}

	result, err := matrix.Run(ctx, config, &benchmark.ExecRunner{Logger: logger})
	if result != nil && len(result.Invocations) > 0 {
		matrix.PrintSummaryTable(out, result)
		matrix.PrintLaunchTimeGraph(out, result)
	}
	if err != nil {
		return fmt.Errorf("error running sweep: %w", err)
	}

	if dir := stringFlag(fs, "summary-dir"); dir != "" {
		if err := saveSummaries(out, result, dir); err != nil {
			return err
		}
	}

	return nil
}

// saveSummaries writes the JSON, CSV and Markdown summaries of result.
// A failed write is reported as a warning.
func saveSummaries(out io.Writer, result *matrix.Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating summary directory: %w", err)
	}
	name := fmt.Sprintf("sweep_%s", result.StartTime.Format("20060102_150405"))

	writers := []struct {
		kind string
		ext  string
		save func(*matrix.Result, string) error
	}{
		{"JSON summary", "json", matrix.SaveSummaryJSON},
		{"CSV summary", "csv", matrix.SaveSummaryCSV},
		{"Markdown report", "md", matrix.SaveSummaryMarkdown},
	}
	for _, w := range writers {
		path := filepath.Join(dir, name+"."+w.ext)
		if err := w.save(result, path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to save %s: %v\n", w.kind, err)
			continue
		}
		fmt.Fprintf(out, "%s saved to: %s\n", w.kind, path)
	}
	return nil
}
