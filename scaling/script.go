package scaling

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/attunehq/ygmbench/scheduler"
)

// OutputFilename is where the scheduler writes the job output for nodes.
func OutputFilename(outputDir string, nodes int) string {
	name := OutputPrefix + strconv.Itoa(nodes)
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}

// ScaleFlags are the sweep flags carrying the derived scales of p.
func ScaleFlags(p ScalePoint) []string {
	return []string{
		"--table-scale", strconv.Itoa(p.TableScale),
		"--cc-rmat-graph-scale", strconv.Itoa(p.CCRMATScale),
		"--cc-linked-list-graph-scale", strconv.Itoa(p.CCLinkedListScale),
		"--krowkee-log-vertex-count", strconv.Itoa(p.KrowkeeVertexScale),
	}
}

// RenderScript renders the batch script submitted for p: the scheduler
// directives followed by a single invocation of the sweep entry point.
func RenderScript(config Config, p ScalePoint) string {
	config = config.withDefaults()
	kind := config.Scheduler
	prefix := kind.DirectivePrefix()

	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	if config.Account != "" {
		fmt.Fprintf(&b, "%s %s %s\n", prefix, kind.AccountDirective(), config.Account)
	}
	fmt.Fprintf(&b, "%s %s %s\n", prefix, kind.TimeDirective(), config.TimeLimit)
	fmt.Fprintf(&b, "%s -o %s\n", prefix, OutputFilename(config.OutputDir, p.Nodes))
	fmt.Fprintf(&b, "%s %s %d\n", prefix, kind.NodesDirective(), p.Nodes)
	fmt.Fprintf(&b, "%s -J %s\n", prefix, config.JobName)

	run := append([]string(nil), config.RunCommand...)
	if kind == scheduler.LSF {
		run = append(run, "--use-lsf")
	}
	run = append(run, ScaleFlags(p)...)
	run = append(run, config.Passthrough...)
	b.WriteString(strings.Join(run, " "))
	b.WriteString("\n")

	return b.String()
}
