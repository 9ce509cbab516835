package matrix

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/attunehq/ygmbench/benchmark"
)

// ExperimentSummary aggregates the launches of one registry entry
type ExperimentSummary struct {
	Experiment  string
	Invocations int
	Failed      int // Launches that exited non-zero
	Stats       benchmark.Statistics
}

// Summarize groups the invocations of result by experiment, in the order
// the experiments were first launched.
func Summarize(result *Result) []ExperimentSummary {
	var order []string
	durations := make(map[string][]time.Duration)
	failed := make(map[string]int)

	for _, inv := range result.Invocations {
		if _, ok := durations[inv.Experiment]; !ok {
			order = append(order, inv.Experiment)
		}
		durations[inv.Experiment] = append(durations[inv.Experiment], inv.Result.Duration)
		if !inv.Result.Success {
			failed[inv.Experiment]++
		}
	}

	summaries := make([]ExperimentSummary, 0, len(order))
	for _, name := range order {
		summaries = append(summaries, ExperimentSummary{
			Experiment:  name,
			Invocations: len(durations[name]),
			Failed:      failed[name],
			Stats:       benchmark.CalculateStatistics(durations[name]),
		})
	}
	return summaries
}

// PrintPlan writes the planned invocations as an aligned table
func PrintPlan(w io.Writer, config Config) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tExperiment\tRouting\tBuffer (KB)\tCommand\n")
	fmt.Fprintf(tw, "-\t----------\t-------\t-----------\t-------\n")

	i := 0
	for inv := range Plan(config) {
		i++
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i,
			inv.Experiment,
			inv.RoutingProtocol,
			inv.BufferSizeKB,
			strings.Join(inv.Args, " "),
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d invocations across %d experiments\n", i, len(config.Registry))
}

// PrintSummaryTable writes a per-experiment summary of the sweep
func PrintSummaryTable(w io.Writer, result *Result) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "Sweep Summary\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	fmt.Fprintf(w, "Launcher:    %s\n", result.Launcher)
	fmt.Fprintf(w, "Routing:     %s\n", strings.Join(result.RoutingProtocols, ", "))
	fmt.Fprintf(w, "Buffer (KB): %s\n", strings.Join(result.BufferSizes, ", "))
	fmt.Fprintf(w, "Launches:    %d in %s\n\n", len(result.Invocations), formatDuration(result.EndTime.Sub(result.StartTime)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Experiment\tLaunches\tNon-zero exit\tMean\tMedian\tMin\tMax\n")
	fmt.Fprintf(tw, "----------\t--------\t-------------\t----\t------\t---\t---\n")
	for _, s := range Summarize(result) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			s.Experiment,
			s.Invocations,
			s.Failed,
			formatDuration(s.Stats.Mean),
			formatDuration(s.Stats.Median),
			formatDuration(s.Stats.Min),
			formatDuration(s.Stats.Max),
		)
	}
	tw.Flush()

	var failed []InvocationResult
	for _, inv := range result.Invocations {
		if !inv.Result.Success {
			failed = append(failed, inv)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "\nNon-zero exits:\n")
		for _, inv := range failed {
			fmt.Fprintf(w, "  - [%d] %s (routing %s, buffer %s KB)\n",
				inv.Result.ExitCode, strings.Join(inv.Args, " "), inv.RoutingProtocol, inv.BufferSizeKB)
		}
	}

	fmt.Fprintf(w, "\n")
}

// PrintLaunchTimeGraph writes an ASCII bar chart of mean launch time per
// experiment
func PrintLaunchTimeGraph(w io.Writer, result *Result) {
	summaries := Summarize(result)
	if len(summaries) == 0 {
		return
	}

	fmt.Fprintf(w, "Mean Launch Time per Experiment\n")
	fmt.Fprintf(w, "===============================\n\n")

	maxMean := time.Duration(0)
	labelWidth := 0
	for _, s := range summaries {
		maxMean = max(maxMean, s.Stats.Mean)
		labelWidth = max(labelWidth, len(s.Experiment))
	}

	graphWidth := 50
	for _, s := range summaries {
		barWidth := 1
		if maxMean > 0 {
			barWidth = max(1, int(float64(s.Stats.Mean)/float64(maxMean)*float64(graphWidth)))
		}
		fmt.Fprintf(w, "%*s │%s %s\n",
			labelWidth, s.Experiment, strings.Repeat("█", barWidth), formatDuration(s.Stats.Mean))
	}
	fmt.Fprintf(w, "%s └%s\n\n", strings.Repeat(" ", labelWidth), strings.Repeat("─", graphWidth+10))
}

// SaveSummaryJSON saves the sweep results as JSON
func SaveSummaryJSON(result *Result, filename string) error {
	experiments := make([]map[string]interface{}, 0)
	for _, s := range Summarize(result) {
		experiments = append(experiments, map[string]interface{}{
			"experiment":  s.Experiment,
			"invocations": s.Invocations,
			"failed":      s.Failed,
			"statistics": map[string]interface{}{
				"total":  s.Stats.Total.Seconds(),
				"mean":   s.Stats.Mean.Seconds(),
				"median": s.Stats.Median.Seconds(),
				"stdDev": s.Stats.StdDev.Seconds(),
				"min":    s.Stats.Min.Seconds(),
				"max":    s.Stats.Max.Seconds(),
			},
		})
	}

	invocations := make([]map[string]interface{}, 0, len(result.Invocations))
	for _, inv := range result.Invocations {
		invocations = append(invocations, map[string]interface{}{
			"experiment": inv.Experiment,
			"args":       inv.Args,
			"env":        inv.Env(),
			"duration":   inv.Result.Duration.Seconds(),
			"exitCode":   inv.Result.ExitCode,
			"success":    inv.Result.Success,
			"error":      inv.Result.Error,
		})
	}

	output := map[string]interface{}{
		"config": map[string]interface{}{
			"launcher":         result.Launcher,
			"routingProtocols": result.RoutingProtocols,
			"bufferSizes":      result.BufferSizes,
		},
		"summary": map[string]interface{}{
			"launches":      len(result.Invocations),
			"startTime":     result.StartTime.Format(time.RFC3339),
			"endTime":       result.EndTime.Format(time.RFC3339),
			"totalDuration": result.EndTime.Sub(result.StartTime).Seconds(),
		},
		"experiments": experiments,
		"invocations": invocations,
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// SaveSummaryCSV saves one row per launch as CSV
func SaveSummaryCSV(result *Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Experiment", RoutingEnv, BufferSizeEnv,
		"Duration (s)", "Exit Code", "Success", "Command",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, inv := range result.Invocations {
		record := []string{
			inv.Experiment,
			inv.RoutingProtocol,
			inv.BufferSizeKB,
			fmt.Sprintf("%.3f", inv.Result.Duration.Seconds()),
			fmt.Sprintf("%d", inv.Result.ExitCode),
			fmt.Sprintf("%t", inv.Result.Success),
			strings.Join(inv.Args, " "),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveSummaryMarkdown saves the sweep results as a Markdown report
func SaveSummaryMarkdown(result *Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var md strings.Builder

	md.WriteString("# Sweep Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", result.EndTime.Format(time.RFC1123)))

	md.WriteString("## Configuration\n\n")
	md.WriteString(fmt.Sprintf("- **Launcher:** `%s`\n", result.Launcher))
	md.WriteString(fmt.Sprintf("- **%s:** %s\n", RoutingEnv, strings.Join(result.RoutingProtocols, ", ")))
	md.WriteString(fmt.Sprintf("- **%s:** %s\n", BufferSizeEnv, strings.Join(result.BufferSizes, ", ")))
	md.WriteString(fmt.Sprintf("- **Start Time:** %s\n", result.StartTime.Format(time.RFC1123)))
	md.WriteString(fmt.Sprintf("- **Total Duration:** %s\n\n", formatDuration(result.EndTime.Sub(result.StartTime))))

	md.WriteString("## Experiments\n\n")
	md.WriteString("| Experiment | Launches | Non-zero exit | Mean | Median | Min | Max |\n")
	md.WriteString("|------------|----------|---------------|------|--------|-----|-----|\n")
	for _, s := range Summarize(result) {
		md.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s | %s | %s |\n",
			s.Experiment,
			s.Invocations,
			s.Failed,
			formatDuration(s.Stats.Mean),
			formatDuration(s.Stats.Median),
			formatDuration(s.Stats.Min),
			formatDuration(s.Stats.Max),
		))
	}
	md.WriteString("\n")

	md.WriteString("## Launches\n\n")
	md.WriteString("| # | Status | Duration | Routing | Buffer (KB) | Command |\n")
	md.WriteString("|---|--------|----------|---------|-------------|---------|\n")
	for i, inv := range result.Invocations {
		status := "✓"
		if !inv.Result.Success {
			status = fmt.Sprintf("✗ (%d)", inv.Result.ExitCode)
		}
		md.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | `%s` |\n",
			i+1,
			status,
			formatDuration(inv.Result.Duration),
			inv.RoutingProtocol,
			inv.BufferSizeKB,
			strings.Join(inv.Args, " "),
		))
	}

	_, err = file.WriteString(md.String())
	return err
}

// formatDuration formats a duration to a short human-readable string
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d >= time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, secs)
	}

	if d >= time.Minute {
		minutes := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, secs)
	}

	if d >= time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%dms", d.Milliseconds())
}
