package flag

import (
	"github.com/posener/complete"
	flag "github.com/spf13/pflag"
)

// Value is the interface all flag values implement. It is the pflag value
// interface, which also satisfies the std lib flag.Value.
type Value = flag.Value

// FlagExample is an interface which declares an example value.
type FlagExample interface {
	Example() string
}

// FlagVisibility is an interface which declares whether a flag should be
// hidden from help and completions. This is usually used for deprecations
// on flags.
type FlagVisibility interface {
	Hidden() bool
}

// -- VarFlag
type VarFlag struct {
	Name       string
	Aliases    []string
	Usage      string
	Default    string
	EnvVar     string
	Value      Value
	Completion complete.Predictor
}

type VarFlagP struct {
	*VarFlag
	Shorthand string
}

func (f *Set) VarFlag(i *VarFlag) {
	f.VarFlagP(&VarFlagP{
		VarFlag:   i,
		Shorthand: "",
	})
}

func (f *Set) VarFlagP(i *VarFlagP) {
	// If the flag is marked as hidden, just add it to the set and return to
	// avoid unnecessary computations here. We do not want to add completions,
	// and cannot add aliases for this flag.
	if v, ok := i.Value.(FlagVisibility); ok && v.Hidden() {
		f.VarP(i.Value, i.Name, i.Shorthand, i.Usage)
		return
	}

	// Track the vars for the grouped help output.
	f.vars = append(f.vars, i)

	f.VarP(i.Value, i.Name, i.Shorthand, i.Usage)
	for _, a := range i.Aliases {
		f.VarP(i.Value, a, "", i.Usage)
	}

	if i.Completion != nil {
		f.completions["-"+i.Name] = i.Completion
		f.completions["--"+i.Name] = i.Completion
	}
}

// Var registers a value against the set, its union set and the std lib
// fallback set.
func (f *Set) Var(value Value, name, usage string) {
	f.VarP(value, name, "", usage)
}

func (f *Set) VarP(value Value, name, shorthand, usage string) {
	f.flagSet.VarP(value, name, shorthand, usage)
	f.unionSet.VarP(value, name, shorthand, usage)
	f.goflagSet.Var(value, name, usage)
}
