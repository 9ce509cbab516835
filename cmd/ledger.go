package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/attunehq/ygmbench/scaling"
	"github.com/spf13/cobra"
)

var (
	ledgerPath     string
	ledgerCampaign string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List batch submissions recorded by scale --ledger",
	Args:  cobra.NoArgs,
	RunE:  runLedger,
}

func init() {
	ledgerCmd.Flags().StringVar(&ledgerPath, "ledger", "", "SQLite database written by scale --ledger (required)")
	ledgerCmd.Flags().StringVar(&ledgerCampaign, "campaign", "", "Only list submissions of this campaign")
	ledgerCmd.MarkFlagRequired("ledger")
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	ledger, err := scaling.OpenLedger(ledgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	subs, err := ledger.Submissions(cmd.Context(), ledgerCampaign)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Submitted\tCampaign\tScheduler\tNodes\tTable\tCC RMAT\tCC List\tKrowkee\tExit\tOutput\n")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.SubmittedAt.Local().Format(time.DateTime),
			s.Campaign,
			s.Scheduler,
			s.Point.Nodes,
			s.Point.TableScale,
			s.Point.CCRMATScale,
			s.Point.CCLinkedListScale,
			s.Point.KrowkeeVertexScale,
			s.ExitCode,
			s.OutputFile,
		)
	}
	return tw.Flush()
}
