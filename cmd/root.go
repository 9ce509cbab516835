package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version is set at build time
	Version = "dev"

	debug  bool
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ygmbench",
	Short: "Parameter sweeps and scaling studies for YGM benchmarks",
	Long: `ygmbench launches the YGM benchmark executables over every combination
of the given parameters, wrapped in the cluster job launcher.

Run a sweep inside an allocation:
  ygmbench run -N 4 --ntasks-per-node 16,32 -s 20,21 --ygm-comm-routing NONE,NR

Submit one batch job per power-of-two node count:
  ygmbench scale --min-nodes 1 --max-nodes 64 -A mybank --tmp-dir /p/lustre/me/tmp`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// SetVersion sets the version string (called from main)
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// newLogger builds the console logger used by every command. Logs go to
// stderr so stdout carries only experiment output, plans and scripts.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableCaller = true
	}
	return cfg.Build()
}
