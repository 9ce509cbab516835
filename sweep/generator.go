// Package sweep expands a description of which flags and argument values to
// try into the full list of command lines covering every combination.
//
// A Generator holds three kinds of arguments:
//
//   - required arguments, present in every command in insertion order;
//   - iterated arguments, a flag swept over a list of candidate values;
//   - iterated flags, bare flags that are either present or absent.
//
// Commands enumerates the powerset of the iterated flags in the outer loop
// and the cartesian product of the iterated argument values in the inner
// loop, so a generator with n flags and value lists of lengths l1..lk yields
// 2^n * l1 * ... * lk commands.
package sweep

import (
	"iter"
	"strings"
)

// Generator builds the command lines for one executable.
// It is mutated only while being configured and is safe to enumerate
// repeatedly afterwards.
type Generator struct {
	// Name is the executable path or launcher command.
	Name string

	required []string
	args     argList
	flags    []string
}

// New returns an empty generator for the named executable.
func New(name string) *Generator {
	return &Generator{Name: name}
}

// AddRequiredArg appends a flag and its value to every generated command.
func (g *Generator) AddRequiredArg(flag, value string) {
	g.required = append(g.required, flag, value)
}

// AddRequiredFlag appends a bare flag to every generated command.
func (g *Generator) AddRequiredFlag(flag string) {
	g.required = append(g.required, flag)
}

// AddArg registers candidate values for flag. Adding the same flag again
// extends its value list. Registering no values is allowed and makes the
// generator produce no commands at all.
func (g *Generator) AddArg(flag string, values ...string) {
	g.args.add(flag, values)
}

// AddFlag registers a bare flag that is swept over present and absent.
func (g *Generator) AddFlag(flag string) {
	g.flags = append(g.flags, flag)
}

// Required returns a copy of the tokens present in every command.
func (g *Generator) Required() []string {
	return append([]string(nil), g.required...)
}

// Args returns a copy of the iterated arguments in first-insertion order.
func (g *Generator) Args() []Arg {
	return g.args.clone()
}

// Flags returns a copy of the iterated flags.
func (g *Generator) Flags() []string {
	return append([]string(nil), g.flags...)
}

// Len reports how many commands All yields, without enumerating them.
func (g *Generator) Len() int {
	n := 1 << len(g.flags)
	for _, a := range g.args.args {
		n *= len(a.Values)
	}
	return n
}

// All lazily yields every command. Each command is
// Name, required..., selected flags..., then a flag/value pair per
// iterated argument.
func (g *Generator) All() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		groups := g.args.valueGroups()
		for flags := range Subsets(g.flags) {
			for values := range Product(groups) {
				cmd := make([]string, 0, 1+len(g.required)+len(flags)+2*len(values))
				cmd = append(cmd, g.Name)
				cmd = append(cmd, g.required...)
				cmd = append(cmd, flags...)
				for i, v := range values {
					cmd = append(cmd, g.args.args[i].Flag, v)
				}
				if !yield(cmd) {
					return
				}
			}
		}
	}
}

// Commands returns every command All yields.
func (g *Generator) Commands() [][]string {
	cmds := make([][]string, 0, g.Len())
	for cmd := range g.All() {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// String renders the generator configuration for logs.
func (g *Generator) String() string {
	var b strings.Builder
	b.WriteString(g.Name)
	for _, tok := range g.required {
		b.WriteString(" ")
		b.WriteString(tok)
	}
	for _, f := range g.flags {
		b.WriteString(" [")
		b.WriteString(f)
		b.WriteString("]")
	}
	for _, a := range g.args.args {
		b.WriteString(" ")
		b.WriteString(a.Flag)
		b.WriteString(" {")
		b.WriteString(strings.Join(a.Values, ","))
		b.WriteString("}")
	}
	return b.String()
}
