package matrix_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/attunehq/ygmbench/matrix"
	"github.com/attunehq/ygmbench/sweep"
	"github.com/stretchr/testify/require"
)

func sampleResult() *matrix.Result {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inv := func(exp string, args []string, d time.Duration, exit int) matrix.InvocationResult {
		return matrix.InvocationResult{
			Invocation: matrix.Invocation{
				Experiment:      exp,
				Args:            args,
				RoutingProtocol: "NONE",
				BufferSizeKB:    "16384",
			},
			Result: benchmark.RunResult{Args: args, Duration: d, ExitCode: exit, Success: exit == 0},
		}
	}
	return &matrix.Result{
		Launcher:         "srun --exclusive",
		RoutingProtocols: []string{"NONE"},
		BufferSizes:      []string{"16384"},
		StartTime:        start,
		EndTime:          start.Add(10 * time.Second),
		Invocations: []matrix.InvocationResult{
			inv("cc_rmat", []string{"srun", "./cc_ygm", "-g", "20"}, 2*time.Second, 0),
			inv("agups", []string{"srun", "./agups_ygm"}, time.Second, 0),
			inv("cc_rmat", []string{"srun", "./cc_ygm", "-g", "21"}, 4*time.Second, 2),
		},
	}
}

func TestSummarize(t *testing.T) {
	summaries := matrix.Summarize(sampleResult())
	require.Len(t, summaries, 2)
	require.Equal(t, "cc_rmat", summaries[0].Experiment)
	require.Equal(t, 2, summaries[0].Invocations)
	require.Equal(t, 1, summaries[0].Failed)
	require.Equal(t, 3*time.Second, summaries[0].Stats.Mean)
	require.Equal(t, "agups", summaries[1].Experiment)
	require.Equal(t, 0, summaries[1].Failed)
}

func TestPrintPlan(t *testing.T) {
	g := sweep.New("./atw")
	g.AddArg("-n", "1", "2")
	config := matrix.Config{
		Registry:         []matrix.Experiment{{Name: "atw_ygm", Generator: g}},
		Launcher:         sweep.New("lrun"),
		RoutingProtocols: []string{"NR"},
	}

	var out bytes.Buffer
	matrix.PrintPlan(&out, config)
	text := out.String()
	require.Contains(t, text, "lrun ./atw -n 1")
	require.Contains(t, text, "lrun ./atw -n 2")
	require.Contains(t, text, "2 invocations across 1 experiments")
}

func TestPrintSummaryTableAndGraph(t *testing.T) {
	var out bytes.Buffer
	result := sampleResult()
	matrix.PrintSummaryTable(&out, result)
	matrix.PrintLaunchTimeGraph(&out, result)

	text := out.String()
	require.Contains(t, text, "Sweep Summary")
	require.Contains(t, text, "cc_rmat")
	require.Contains(t, text, "[2] srun ./cc_ygm -g 21")
	require.Contains(t, text, "Mean Launch Time per Experiment")
}

func TestPrintLaunchTimeGraphEmpty(t *testing.T) {
	var out bytes.Buffer
	matrix.PrintLaunchTimeGraph(&out, &matrix.Result{})
	require.Empty(t, out.String())
}

func TestSaveSummaries(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	jsonPath := filepath.Join(dir, "sweep.json")
	require.NoError(t, matrix.SaveSummaryJSON(result, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded struct {
		Summary struct {
			Launches int `json:"launches"`
		} `json:"summary"`
		Experiments []struct {
			Experiment string `json:"experiment"`
			Failed     int    `json:"failed"`
		} `json:"experiments"`
		Invocations []struct {
			Env      map[string]string `json:"env"`
			ExitCode int               `json:"exitCode"`
		} `json:"invocations"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 3, decoded.Summary.Launches)
	require.Len(t, decoded.Experiments, 2)
	require.Equal(t, 1, decoded.Experiments[0].Failed)
	require.Equal(t, "16384", decoded.Invocations[0].Env[matrix.BufferSizeEnv])
	require.Equal(t, 2, decoded.Invocations[2].ExitCode)

	csvPath := filepath.Join(dir, "sweep.csv")
	require.NoError(t, matrix.SaveSummaryCSV(result, csvPath))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, "srun ./cc_ygm -g 21", records[3][6])

	mdPath := filepath.Join(dir, "sweep.md")
	require.NoError(t, matrix.SaveSummaryMarkdown(result, mdPath))
	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(md), "# Sweep Report"))
	require.Contains(t, string(md), "✗ (2)")
}
