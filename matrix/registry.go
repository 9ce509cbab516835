package matrix

import (
	"path/filepath"

	"github.com/attunehq/ygmbench/sweep"
)

// BuildRegistry constructs one generator per enabled experiment, in a fixed
// order, then injects the options shared by every experiment.
func BuildRegistry(opts Options) []Experiment {
	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = DefaultBuildDir
	}

	var registry []Experiment
	add := func(name, executable string) *sweep.Generator {
		g := sweep.New(filepath.Join(buildDir, executable))
		registry = append(registry, Experiment{Name: name, Generator: g})
		return g
	}

	if !opts.NoATWYGM {
		g := add(ATWYGM, "around_the_world_ygm")
		addArgIfSet(g, "-n", opts.NumTrips)
		if !opts.NoWaitUntil {
			g.AddFlag("-w")
		}
	}

	if !opts.NoATWMPI {
		g := add(ATWMPI, "around_the_world_mpi")
		addArgIfSet(g, "-n", opts.NumTrips)
	}

	if !opts.NoHistoUniform {
		g := add(HistoUniform, "histo_ygm")
		addArgIfSet(g, "-s", opts.TableScale)
		addArgIfSet(g, "-i", opts.HistoInsertsPerRank)
	}

	if !opts.NoHistoRMAT {
		g := add(HistoRMAT, "histo_ygm")
		g.AddRequiredFlag("-r")
		addArgIfSet(g, "-s", opts.TableScale)
		addArgIfSet(g, "-i", opts.HistoInsertsPerRank)
	}

	// Same executable as histo_rmat, aggregating through the reducing adapter.
	if !opts.NoHistoRMATReducingAdapter {
		g := add(HistoRMATReducingAdapt, "histo_ygm")
		g.AddRequiredFlag("-r")
		g.AddRequiredFlag("-a")
		addArgIfSet(g, "-s", opts.TableScale)
		addArgIfSet(g, "-i", opts.HistoInsertsPerRank)
	}

	if !opts.NoAGUPS {
		g := add(AGUPS, "agups_ygm")
		addArgIfSet(g, "-s", opts.TableScale)
		addArgIfSet(g, "-u", opts.AGUPSUpdatersPerRank)
		addArgIfSet(g, "-l", opts.AGUPSUpdaterLifetime)
	}

	if !opts.NoCCRMAT {
		g := add(CCRMAT, "cc_ygm")
		addArgIfSet(g, "-g", firstSet(opts.CCRMATGraphScale, opts.CCGraphScale))
		addArgIfSet(g, "-e", opts.CCEdgefactor)
	}

	if !opts.NoCCLinkedList {
		g := add(CCLinkedList, "cc_ygm")
		g.AddRequiredFlag("-l")
		addArgIfSet(g, "-g", firstSet(opts.CCLinkedListGraphScale, opts.CCGraphScale))
	}

	if !opts.NoEmbedYGM {
		g := add(EmbedYGM, "embed_ygm")
		g.AddRequiredFlag("-b")
		g.AddFlag("-m")
		g.AddFlag("-r")
		addArgIfSet(g, "-d", opts.EmbeddingDimension)
		addArgIfSet(g, "-v", opts.KrowkeeLogVertexCount)
		addArgIfSet(g, "-e", opts.KrowkeeEdgesPerRank)
		addArgIfSet(g, "-s", opts.KrowkeeSeed)
	}

	if opts.NumTrials != "" {
		for _, e := range registry {
			e.Generator.AddRequiredArg("-t", opts.NumTrials)
		}
	}
	if opts.PrettyPrint {
		for _, e := range registry {
			e.Generator.AddRequiredFlag("-p")
		}
	}

	return registry
}

// addArgIfSet attaches values unless the option was never given.
func addArgIfSet(g *sweep.Generator, flag string, values []string) {
	if values == nil {
		return
	}
	g.AddArg(flag, values...)
}

// firstSet returns the first list that was given.
func firstSet(lists ...[]string) []string {
	for _, l := range lists {
		if l != nil {
			return l
		}
	}
	return nil
}
