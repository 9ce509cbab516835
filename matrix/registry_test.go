package matrix_test

import (
	"testing"

	"github.com/attunehq/ygmbench/matrix"
	"github.com/stretchr/testify/require"
)

func registryByName(reg []matrix.Experiment) map[string]matrix.Experiment {
	m := make(map[string]matrix.Experiment, len(reg))
	for _, e := range reg {
		m[e.Name] = e
	}
	return m
}

func registryNames(reg []matrix.Experiment) []string {
	names := make([]string, len(reg))
	for i, e := range reg {
		names[i] = e.Name
	}
	return names
}

func TestBuildRegistryDefaults(t *testing.T) {
	reg := matrix.BuildRegistry(matrix.Options{})
	require.Equal(t, []string{
		matrix.ATWYGM,
		matrix.ATWMPI,
		matrix.HistoUniform,
		matrix.HistoRMAT,
		matrix.HistoRMATReducingAdapt,
		matrix.AGUPS,
		matrix.CCRMAT,
		matrix.CCLinkedList,
		matrix.EmbedYGM,
	}, registryNames(reg))

	byName := registryByName(reg)
	require.Equal(t, [][]string{
		{"../build/src/around_the_world_ygm"},
		{"../build/src/around_the_world_ygm", "-w"},
	}, byName[matrix.ATWYGM].Generator.Commands())
	require.Equal(t, [][]string{{"../build/src/histo_ygm", "-r", "-a"}},
		byName[matrix.HistoRMATReducingAdapt].Generator.Commands())
	require.Equal(t, [][]string{{"../build/src/cc_ygm", "-l"}},
		byName[matrix.CCLinkedList].Generator.Commands())
	require.Equal(t, [][]string{
		{"../build/src/embed_ygm", "-b"},
		{"../build/src/embed_ygm", "-b", "-m"},
		{"../build/src/embed_ygm", "-b", "-r"},
		{"../build/src/embed_ygm", "-b", "-m", "-r"},
	}, byName[matrix.EmbedYGM].Generator.Commands())
}

func TestBuildRegistryDisableToggles(t *testing.T) {
	reg := matrix.BuildRegistry(matrix.Options{
		NoATWYGM:                   true,
		NoATWMPI:                   true,
		NoHistoUniform:             true,
		NoHistoRMAT:                true,
		NoHistoRMATReducingAdapter: true,
		NoAGUPS:                    true,
		NoEmbedYGM:                 true,
	})
	require.Equal(t, []string{matrix.CCRMAT, matrix.CCLinkedList}, registryNames(reg))

	require.Empty(t, matrix.BuildRegistry(matrix.Options{
		NoATWYGM:                   true,
		NoATWMPI:                   true,
		NoHistoUniform:             true,
		NoHistoRMAT:                true,
		NoHistoRMATReducingAdapter: true,
		NoAGUPS:                    true,
		NoCCRMAT:                   true,
		NoCCLinkedList:             true,
		NoEmbedYGM:                 true,
	}))
}

func TestBuildRegistryTableScaleIsShared(t *testing.T) {
	byName := registryByName(matrix.BuildRegistry(matrix.Options{
		BuildDir:             "/opt/ygm",
		TableScale:           []string{"20", "21"},
		HistoInsertsPerRank:  []string{"1000"},
		AGUPSUpdatersPerRank: []string{"8"},
		AGUPSUpdaterLifetime: []string{"4", "16"},
	}))

	require.Equal(t, [][]string{
		{"/opt/ygm/histo_ygm", "-r", "-s", "20", "-i", "1000"},
		{"/opt/ygm/histo_ygm", "-r", "-s", "21", "-i", "1000"},
	}, byName[matrix.HistoRMAT].Generator.Commands())
	require.Equal(t, 2, byName[matrix.HistoUniform].Generator.Len())
	require.Equal(t, 2, byName[matrix.HistoRMATReducingAdapt].Generator.Len())
	require.Equal(t, [][]string{
		{"/opt/ygm/agups_ygm", "-s", "20", "-u", "8", "-l", "4"},
		{"/opt/ygm/agups_ygm", "-s", "20", "-u", "8", "-l", "16"},
		{"/opt/ygm/agups_ygm", "-s", "21", "-u", "8", "-l", "4"},
		{"/opt/ygm/agups_ygm", "-s", "21", "-u", "8", "-l", "16"},
	}, byName[matrix.AGUPS].Generator.Commands())
}

func TestBuildRegistryGraphScaleOverrides(t *testing.T) {
	byName := registryByName(matrix.BuildRegistry(matrix.Options{
		CCGraphScale:     []string{"20"},
		CCRMATGraphScale: []string{"22"},
		CCEdgefactor:     []string{"16"},
	}))
	require.Equal(t, [][]string{{"../build/src/cc_ygm", "-g", "22", "-e", "16"}},
		byName[matrix.CCRMAT].Generator.Commands())
	require.Equal(t, [][]string{{"../build/src/cc_ygm", "-l", "-g", "20"}},
		byName[matrix.CCLinkedList].Generator.Commands())

	byName = registryByName(matrix.BuildRegistry(matrix.Options{
		CCGraphScale:           []string{"20"},
		CCLinkedListGraphScale: []string{"25"},
	}))
	require.Equal(t, [][]string{{"../build/src/cc_ygm", "-g", "20"}},
		byName[matrix.CCRMAT].Generator.Commands())
	require.Equal(t, [][]string{{"../build/src/cc_ygm", "-l", "-g", "25"}},
		byName[matrix.CCLinkedList].Generator.Commands())
}

func TestBuildRegistryNumTripsAndWaitUntil(t *testing.T) {
	byName := registryByName(matrix.BuildRegistry(matrix.Options{
		NumTrips:    []string{"10", "100"},
		NoWaitUntil: true,
	}))
	require.Equal(t, [][]string{
		{"../build/src/around_the_world_ygm", "-n", "10"},
		{"../build/src/around_the_world_ygm", "-n", "100"},
	}, byName[matrix.ATWYGM].Generator.Commands())
	require.Equal(t, [][]string{
		{"../build/src/around_the_world_mpi", "-n", "10"},
		{"../build/src/around_the_world_mpi", "-n", "100"},
	}, byName[matrix.ATWMPI].Generator.Commands())
}

func TestBuildRegistryEmbedArgs(t *testing.T) {
	byName := registryByName(matrix.BuildRegistry(matrix.Options{
		EmbeddingDimension:    []string{"64"},
		KrowkeeLogVertexCount: []string{"18"},
		KrowkeeEdgesPerRank:   []string{"1024"},
		KrowkeeSeed:           []string{"7"},
	}))
	cmds := byName[matrix.EmbedYGM].Generator.Commands()
	require.Len(t, cmds, 4)
	require.Equal(t, []string{
		"../build/src/embed_ygm", "-b",
		"-d", "64", "-v", "18", "-e", "1024", "-s", "7",
	}, cmds[0])
}

func TestBuildRegistrySharedOptions(t *testing.T) {
	reg := matrix.BuildRegistry(matrix.Options{NumTrials: "5", PrettyPrint: true})
	for _, e := range reg {
		req := e.Generator.Required()
		require.GreaterOrEqual(t, len(req), 3, e.Name)
		require.Equal(t, []string{"-t", "5", "-p"}, req[len(req)-3:], e.Name)
	}
}

func TestBuildRegistryEmptyListSuppressesExperiments(t *testing.T) {
	byName := registryByName(matrix.BuildRegistry(matrix.Options{TableScale: []string{}}))
	for _, name := range []string{matrix.HistoUniform, matrix.HistoRMAT, matrix.HistoRMATReducingAdapt, matrix.AGUPS} {
		require.Equal(t, 0, byName[name].Generator.Len(), name)
	}
	require.Equal(t, 2, byName[matrix.ATWYGM].Generator.Len())
	require.Equal(t, 1, byName[matrix.CCRMAT].Generator.Len())
}
