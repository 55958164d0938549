package flag

import (
	"os"
	"strings"

	"github.com/posener/complete"
)

// -- StringSliceVar and stringSliceValue
type StringSliceVar struct {
	Name       string
	Aliases    []string
	Usage      string
	Default    []string
	Hidden     bool
	EnvVar     string
	Target     *[]string
	Completion complete.Predictor
	SetHook    func(val []string)
}

type StringSliceVarP struct {
	*StringSliceVar
	Shorthand string
}

func (f *Set) StringSliceVar(i *StringSliceVar) {
	f.StringSliceVarP(&StringSliceVarP{
		StringSliceVar: i,
		Shorthand:      "",
	})
}

func (f *Set) StringSliceVarP(i *StringSliceVarP) {
	initial := i.Default
	if v, exist := os.LookupEnv(i.EnvVar); exist {
		initial = parts(v)
	}

	f.VarFlagP(&VarFlagP{
		VarFlag: &VarFlag{
			Name:       i.Name,
			Aliases:    i.Aliases,
			Usage:      i.Usage,
			Default:    strings.Join(i.Default, ","),
			EnvVar:     i.EnvVar,
			Value:      newStringSliceValue(i, initial, i.Target, i.Hidden),
			Completion: i.Completion,
		},
		Shorthand: i.Shorthand,
	})
}

type stringSliceValue struct {
	v      *StringSliceVarP
	hidden bool
	target *[]string
}

func newStringSliceValue(v *StringSliceVarP, def []string, target *[]string, hidden bool) *stringSliceValue {
	*target = def
	return &stringSliceValue{
		v:      v,
		hidden: hidden,
		target: target,
	}
}

// Set appends onto the target, so a repeated flag accumulates values in the
// order they were given. A single value may also carry several entries
// separated by commas.
func (s *stringSliceValue) Set(val string) error {
	*s.target = append(*s.target, parts(val)...)

	if s.v.SetHook != nil {
		s.v.SetHook(*s.target)
	}

	return nil
}

func parts(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *stringSliceValue) Get() interface{} { return *s.target }
func (s *stringSliceValue) String() string   { return strings.Join(*s.target, ",") }
func (s *stringSliceValue) Example() string  { return "string" }
func (s *stringSliceValue) Hidden() bool     { return s.hidden }
func (s *stringSliceValue) Type() string     { return "stringSlice" }
