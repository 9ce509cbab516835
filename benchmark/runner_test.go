package benchmark_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/attunehq/ygmbench/benchmark"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin", "YGM_COMM_ROUTING=NLNR", "HOME=/root"}
	got := benchmark.MergeEnv(base, map[string]string{
		"YGM_COMM_ROUTING":        "NONE",
		"YGM_COMM_BUFFER_SIZE_KB": "16384",
	})
	require.Equal(t, []string{
		"PATH=/bin",
		"HOME=/root",
		"YGM_COMM_BUFFER_SIZE_KB=16384",
		"YGM_COMM_ROUTING=NONE",
	}, got)
}

func TestMergeEnvNoOverlay(t *testing.T) {
	base := []string{"A=1", "B=2"}
	require.Equal(t, base, benchmark.MergeEnv(base, nil))
}

func TestExecRunnerOverlaysEnvironment(t *testing.T) {
	r := &benchmark.ExecRunner{Logger: zaptest.NewLogger(t)}
	var out bytes.Buffer
	res, err := r.Run(context.Background(), benchmark.Command{
		Args:   []string{"sh", "-c", `echo "$YGM_COMM_ROUTING $YGM_COMM_BUFFER_SIZE_KB"`},
		Env:    map[string]string{"YGM_COMM_ROUTING": "NR", "YGM_COMM_BUFFER_SIZE_KB": "256"},
		Stdout: &out,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "NR 256\n", out.String())
}

func TestExecRunnerReportsExitCode(t *testing.T) {
	r := &benchmark.ExecRunner{}
	res, err := r.Run(context.Background(), benchmark.Command{
		Args: []string{"sh", "-c", "exit 3"},
	})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, 3, res.ExitCode)
	require.NotEmpty(t, res.Error)
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	r := &benchmark.ExecRunner{}
	_, err := r.Run(context.Background(), benchmark.Command{
		Args: []string{"./definitely-not-a-benchmark"},
		Dir:  t.TempDir(),
	})
	require.Error(t, err)
}

func TestExecRunnerEmptyCommand(t *testing.T) {
	r := &benchmark.ExecRunner{}
	_, err := r.Run(context.Background(), benchmark.Command{})
	require.Error(t, err)
}

func TestExecRunnerStdinAndDir(t *testing.T) {
	dir := t.TempDir()
	r := &benchmark.ExecRunner{}
	var out bytes.Buffer
	res, err := r.Run(context.Background(), benchmark.Command{
		Args:   []string{"sh", "-c", "cat; pwd -P"},
		Dir:    dir,
		Stdin:  strings.NewReader("#!/usr/bin/env bash\n"),
		Stdout: &out,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, "#!/usr/bin/env bash", lines[0])
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, resolved, lines[1])
}
