// Package flagdef adds required options on top of pflag parsing.
//
// Flags are declared as plain definitions and registered on a pflag.FlagSet.
// After parsing, Check walks the definitions in order and reports the first
// required flag the user did not supply.
package flagdef

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

type Flag struct {
	Name      string
	Shorthand string
	Dest      string
	Usage     string
	Default   string

	TakesValue bool
	Required   bool
}

func (f Flag) dest() string {
	if f.Dest == "" {
		return f.Name
	}
	return f.Dest
}

// String renders the flag the way usage errors name it, e.g. "-d/--destination".
func (f Flag) String() string {
	if f.Shorthand == "" {
		return "--" + f.Name
	}
	return "-" + f.Shorthand + "/--" + f.Name
}

type Set struct {
	name  string
	flags []Flag
}

// New validates the definitions and returns a Set ready to bind or parse.
func New(name string, flags ...Flag) (s *Set, err error) {
	names := make(map[string]bool)
	shorts := make(map[string]bool)
	dests := make(map[string]bool)

	for _, f := range flags {
		switch {
		case f.Name == "":
			return nil, &DefinitionError{Flag: f, Err: ErrNoName}
		case f.Required && !f.TakesValue:
			return nil, &DefinitionError{Flag: f, Err: ErrRequiredSwitch}
		case len(f.Shorthand) > 1:
			return nil, &DefinitionError{Flag: f, Err: ErrLongShorthand}
		case names[f.Name], f.Shorthand != "" && shorts[f.Shorthand], dests[f.dest()]:
			return nil, &DefinitionError{Flag: f, Err: ErrDuplicate}
		}
		names[f.Name] = true
		dests[f.dest()] = true
		if f.Shorthand != "" {
			shorts[f.Shorthand] = true
		}
	}

	return &Set{name: name, flags: append([]Flag(nil), flags...)}, nil
}

func (s *Set) Flags() []Flag {
	return append([]Flag(nil), s.flags...)
}

// Bind registers every definition on fs in definition order.
func (s *Set) Bind(fs *pflag.FlagSet) {
	fs.SortFlags = false
	for _, f := range s.flags {
		if f.TakesValue {
			fs.StringP(f.Name, f.Shorthand, f.Default, f.Usage)
		} else {
			fs.BoolP(f.Name, f.Shorthand, false, f.Usage)
		}
	}
}

// Parse tokenizes args on a fresh flag set, checks required flags and
// returns the collected values.
func (s *Set) Parse(args []string) (r *Result, err error) {
	fs := pflag.NewFlagSet(s.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	s.Bind(fs)

	err = fs.Parse(args)
	switch {
	case err == pflag.ErrHelp:
		return nil, err
	case err != nil:
		return nil, &UsageError{Err: err}
	}

	if err = s.Check(fs); err != nil {
		return nil, err
	}

	return s.Collect(fs, fs.Args())
}

// Check returns a *MissingError for the first required flag, in definition
// order, that was not supplied on fs.
func (s *Set) Check(fs *pflag.FlagSet) error {
	missing := s.MissingErrors(fs)
	if len(missing) > 0 {
		return missing[0]
	}
	return nil
}

func (s *Set) MissingErrors(fs *pflag.FlagSet) (missing []*MissingError) {
	for _, f := range s.flags {
		if f.Required && !fs.Changed(f.Name) {
			missing = append(missing, &MissingError{Flag: f})
		}
	}
	return
}

// Collect reads the values of every definition from an already parsed fs.
func (s *Set) Collect(fs *pflag.FlagSet, args []string) (r *Result, err error) {
	r = &Result{
		values: make(map[string]string),
		bools:  make(map[string]bool),
		seen:   make(map[string]bool),
		args:   append([]string(nil), args...),
	}

	for _, f := range s.flags {
		if f.TakesValue {
			v, e := fs.GetString(f.Name)
			if e != nil {
				return nil, fmt.Errorf("read flag %s: %w", f, e)
			}
			if fs.Changed(f.Name) || f.Default != "" {
				r.values[f.dest()] = v
			}
		} else {
			v, e := fs.GetBool(f.Name)
			if e != nil {
				return nil, fmt.Errorf("read flag %s: %w", f, e)
			}
			r.bools[f.dest()] = v
		}
		if fs.Changed(f.Name) {
			r.seen[f.dest()] = true
		}
	}

	return
}

type Result struct {
	values map[string]string
	bools  map[string]bool
	seen   map[string]bool
	args   []string
}

// String returns the value stored under dest, or "" when absent.
func (r *Result) String(dest string) string {
	return r.values[dest]
}

func (r *Result) Bool(dest string) bool {
	return r.bools[dest]
}

// Has reports whether dest was supplied on the command line.
func (r *Result) Has(dest string) bool {
	return r.seen[dest]
}

// Args returns the positional arguments left after flag parsing.
func (r *Result) Args() []string {
	return r.args
}
