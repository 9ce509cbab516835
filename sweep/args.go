package sweep

// Arg is one iterated argument: a flag and the candidate values it is
// swept over.
type Arg struct {
	Flag   string
	Values []string
}

// argList keeps iterated arguments in first-insertion order. Enumeration
// order is observable in the generated commands, so a plain map won't do.
type argList struct {
	args  []Arg
	index map[string]int
}

// add registers values for flag, appending to any values already
// registered under the same flag.
func (l *argList) add(flag string, values []string) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[flag]; ok {
		l.args[i].Values = append(l.args[i].Values, values...)
		return
	}
	l.index[flag] = len(l.args)
	l.args = append(l.args, Arg{
		Flag:   flag,
		Values: append(make([]string, 0, len(values)), values...),
	})
}

func (l *argList) valueGroups() [][]string {
	groups := make([][]string, len(l.args))
	for i, a := range l.args {
		groups[i] = a.Values
	}
	return groups
}

func (l *argList) clone() []Arg {
	out := make([]Arg, len(l.args))
	for i, a := range l.args {
		out[i] = Arg{Flag: a.Flag, Values: append([]string(nil), a.Values...)}
	}
	return out
}
