package cmd

import (
	"fmt"
	"strings"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/attunehq/ygmbench/scaling"
	"github.com/attunehq/ygmbench/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [flags] [run flags...]",
	Short: "Submit one sweep job per power-of-two node count",
	Long: `Submit a batch job running "ygmbench run" for min-nodes, 2*min-nodes,
4*min-nodes, ... up to max-nodes. Problem sizes grow by one (one doubling)
with each doubling of the node count so that the work per node stays fixed.

Arguments scale does not recognize, and everything after "--", are
appended verbatim to every "ygmbench run" invocation.`,
	Example: `  ygmbench scale --min-nodes 1 --max-nodes 32 -A mybank \
    --tmp-dir /p/lustre/me/tmp -o /p/lustre/me/results --no-atw-mpi -t 5`,
	Args: cobra.ArbitraryArgs,
	// Unknown flags belong to "ygmbench run"; splitScaleArgs sorts them out.
	DisableFlagParsing: true,
	RunE:               runScale,
}

func init() {
	addScaleFlags(scaleCmd.Flags())
	scaleCmd.MarkFlagRequired("min-nodes")
	scaleCmd.MarkFlagRequired("max-nodes")
	rootCmd.AddCommand(scaleCmd)
}

// addScaleFlags registers the scaling study flags on fs.
func addScaleFlags(fs *pflag.FlagSet) {
	fs.Int("min-nodes", 0, "Minimum number of nodes (required)")
	fs.Int("max-nodes", 0, "Maximum number of nodes (required)")
	fs.String("tmp-dir", "", "Stage scripts and executables under this directory and submit from there")
	fs.StringP("output-dir", "o", "", "Directory for job output files")
	fs.StringP("account", "A", "", "Bank to charge")
	fs.Bool("use-lsf", false, "Use LSF (bsub) instead of Slurm (sbatch)")
	fs.String("time-limit", "", "Wall-time limit (default 1:00:00 for Slurm, 360 for LSF)")
	fs.String("job-name", scaling.DefaultJobName, "Job name")
	fs.String("source-root", scaling.DefaultSourceRoot, "Directory holding scripts/ and build/src")
	fs.String("ledger", "", "Record submissions in this SQLite database")
	fs.Bool("dry-run", false, "Print the batch scripts without staging or submitting")

	fs.IntP("table-scale-per-node", "s", scaling.DefaultScalePerNode, "log2 of table size per node in histogram and AGUPS experiments")
	fs.IntP("cc-graph-scale-per-node", "g", scaling.DefaultScalePerNode, "log2 graph scale per node for connected components experiments")
	fs.Int("cc-rmat-graph-scale-per-node", 0, "log2 graph scale per node for connected components RMAT (overrides --cc-graph-scale-per-node)")
	fs.Int("cc-linked-list-graph-scale-per-node", 0, "log2 graph scale per node for connected components linked list (overrides --cc-graph-scale-per-node)")
	fs.IntP("krowkee-vertex-scale-per-node", "v", scaling.DefaultScalePerNode, "log2 of vertex count per node for krowkee experiments")
}

func intFlag(fs *pflag.FlagSet, name string) int {
	v, _ := fs.GetInt(name)
	return v
}

// intOverride returns nil unless the flag was given.
func intOverride(fs *pflag.FlagSet, name string) *int {
	if !fs.Changed(name) {
		return nil
	}
	v := intFlag(fs, name)
	return &v
}

// scaleConfig maps the parsed flags and passthrough arguments onto a
// scaling.Config.
func scaleConfig(fs *pflag.FlagSet, passthrough []string) (scaling.Config, error) {
	config := scaling.Config{
		MinNodes:                      intFlag(fs, "min-nodes"),
		MaxNodes:                      intFlag(fs, "max-nodes"),
		TableScalePerNode:             intFlag(fs, "table-scale-per-node"),
		CCGraphScalePerNode:           intFlag(fs, "cc-graph-scale-per-node"),
		CCRMATGraphScalePerNode:       intOverride(fs, "cc-rmat-graph-scale-per-node"),
		CCLinkedListGraphScalePerNode: intOverride(fs, "cc-linked-list-graph-scale-per-node"),
		KrowkeeVertexScalePerNode:     intFlag(fs, "krowkee-vertex-scale-per-node"),
		Scheduler:                     scheduler.FromLSF(boolFlag(fs, "use-lsf")),
		Account:                       stringFlag(fs, "account"),
		TimeLimit:                     stringFlag(fs, "time-limit"),
		JobName:                       stringFlag(fs, "job-name"),
		OutputDir:                     stringFlag(fs, "output-dir"),
		Passthrough:                   passthrough,
		TmpDir:                        stringFlag(fs, "tmp-dir"),
		SourceRoot:                    stringFlag(fs, "source-root"),
		DryRun:                        boolFlag(fs, "dry-run"),
		Logger:                        logger,
	}
	if config.MinNodes < 1 {
		return config, fmt.Errorf("--min-nodes must be at least 1, got %d", config.MinNodes)
	}
	return config, nil
}

// splitScaleArgs sets the flags of fs found in args and returns every other
// token, in order, for forwarding to "ygmbench run". An unknown flag written
// without "=" takes the following token as its value unless that token looks
// like a flag. Everything after "--" is forwarded untouched.
func splitScaleArgs(fs *pflag.FlagSet, args []string) ([]string, error) {
	var passthrough []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(passthrough, args[i+1:]...), nil
		}
		if len(arg) < 2 || arg[0] != '-' {
			passthrough = append(passthrough, arg)
			continue
		}

		var (
			flag     *pflag.Flag
			value    string
			hasValue bool
		)
		if strings.HasPrefix(arg, "--") {
			var name string
			name, value, hasValue = strings.Cut(arg[2:], "=")
			flag = fs.Lookup(name)
		} else {
			flag = fs.ShorthandLookup(arg[1:2])
			if len(arg) > 2 {
				value, hasValue = strings.TrimPrefix(arg[2:], "="), true
			}
		}

		if flag == nil {
			passthrough = append(passthrough, arg)
			if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				passthrough = append(passthrough, args[i])
			}
			continue
		}

		if !hasValue {
			if flag.NoOptDefVal != "" {
				value = flag.NoOptDefVal
			} else {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag needs an argument: %s", arg)
				}
				i++
				value = args[i]
			}
		}
		if err := fs.Set(flag.Name, value); err != nil {
			return nil, fmt.Errorf("invalid argument %q for %s: %w", value, arg, err)
		}
	}
	return passthrough, nil
}

func runScale(cmd *cobra.Command, args []string) error {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	addScaleFlags(fs)
	fs.AddFlagSet(cmd.InheritedFlags())
	fs.BoolP("help", "h", false, "help for "+cmd.Name())

	passthrough, err := splitScaleArgs(fs, args)
	if err != nil {
		return err
	}
	if boolFlag(fs, "help") {
		return cmd.Help()
	}
	for _, name := range []string{"min-nodes", "max-nodes"} {
		if !fs.Changed(name) {
			return fmt.Errorf("required flag \"%s\" not set", name)
		}
	}
	if fs.Changed("debug") {
		l, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		logger = l
	}

	config, err := scaleConfig(fs, passthrough)
	if err != nil {
		return err
	}
	config.Stdout = cmd.OutOrStdout()

	if path := stringFlag(fs, "ledger"); path != "" && !config.DryRun {
		ledger, err := scaling.OpenLedger(path)
		if err != nil {
			return err
		}
		defer ledger.Close()
		config.Ledger = ledger
	}

	result, err := scaling.Run(cmd.Context(), config, &benchmark.ExecRunner{Logger: logger})
	if err != nil {
		return fmt.Errorf("error running scaling study: %w", err)
	}

	if !config.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSubmitted %d jobs (campaign %s)\n", len(result.Submissions), result.Campaign)
	}
	return nil
}
