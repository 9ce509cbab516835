package scaling_test

import (
	"testing"

	"github.com/attunehq/ygmbench/scaling"
	"github.com/attunehq/ygmbench/scheduler"
	"github.com/stretchr/testify/require"
)

var point = scaling.ScalePoint{
	Nodes:              4,
	TableScale:         22,
	CCRMATScale:        23,
	CCLinkedListScale:  24,
	KrowkeeVertexScale: 25,
}

func TestOutputFilename(t *testing.T) {
	require.Equal(t, "ygm_bench_N4", scaling.OutputFilename("", 4))
	require.Equal(t, "out/ygm_bench_N16", scaling.OutputFilename("out", 16))
}

func TestRenderScriptSlurm(t *testing.T) {
	config := scaling.Config{
		Scheduler:   scheduler.Slurm,
		OutputDir:   "results",
		Passthrough: []string{"--no-atw-mpi", "-t", "3"},
	}
	want := "#!/usr/bin/env bash\n" +
		"#SBATCH -t 1:00:00\n" +
		"#SBATCH -o results/ygm_bench_N4\n" +
		"#SBATCH -N 4\n" +
		"#SBATCH -J ygm-bench\n" +
		"./ygmbench run --table-scale 22 --cc-rmat-graph-scale 23 --cc-linked-list-graph-scale 24 --krowkee-log-vertex-count 25 --no-atw-mpi -t 3\n"
	require.Equal(t, want, scaling.RenderScript(config, point))
}

func TestRenderScriptLSF(t *testing.T) {
	config := scaling.Config{
		Scheduler: scheduler.LSF,
		Account:   "guests",
	}
	want := "#!/usr/bin/env bash\n" +
		"#BSUB -G guests\n" +
		"#BSUB -W 360\n" +
		"#BSUB -o ygm_bench_N4\n" +
		"#BSUB -nnodes 4\n" +
		"#BSUB -J ygm-bench\n" +
		"./ygmbench run --use-lsf --table-scale 22 --cc-rmat-graph-scale 23 --cc-linked-list-graph-scale 24 --krowkee-log-vertex-count 25\n"
	require.Equal(t, want, scaling.RenderScript(config, point))
}

func TestRenderScriptOverrides(t *testing.T) {
	config := scaling.Config{
		Account:    "bench",
		TimeLimit:  "0:30:00",
		JobName:    "nightly",
		RunCommand: []string{"/opt/ygmbench", "run"},
	}
	want := "#!/usr/bin/env bash\n" +
		"#SBATCH -A bench\n" +
		"#SBATCH -t 0:30:00\n" +
		"#SBATCH -o ygm_bench_N4\n" +
		"#SBATCH -N 4\n" +
		"#SBATCH -J nightly\n" +
		"/opt/ygmbench run --table-scale 22 --cc-rmat-graph-scale 23 --cc-linked-list-graph-scale 24 --krowkee-log-vertex-count 25\n"
	require.Equal(t, want, scaling.RenderScript(config, point))
}
