package flag

import (
	"os"
	"strconv"

	"github.com/posener/complete"
)

// -- IntVar and intValue
type IntVar struct {
	Name       string
	Aliases    []string
	Usage      string
	Default    int
	Hidden     bool
	EnvVar     string
	Target     *int
	Completion complete.Predictor
	SetHook    func(val int)
}

type IntVarP struct {
	*IntVar
	Shorthand string
}

func (f *Set) IntVar(i *IntVar) {
	f.IntVarP(&IntVarP{
		IntVar:    i,
		Shorthand: "",
	})
}

func (f *Set) IntVarP(i *IntVarP) {
	initial := i.Default
	if v, exist := os.LookupEnv(i.EnvVar); exist {
		if n, err := strconv.Atoi(v); err == nil {
			initial = n
		}
	}

	f.VarFlagP(&VarFlagP{
		VarFlag: &VarFlag{
			Name:       i.Name,
			Aliases:    i.Aliases,
			Usage:      i.Usage,
			Default:    strconv.Itoa(i.Default),
			EnvVar:     i.EnvVar,
			Value:      newIntValue(i, initial, i.Target, i.Hidden),
			Completion: i.Completion,
		},
		Shorthand: i.Shorthand,
	})
}

type intValue struct {
	v      *IntVarP
	hidden bool
	target *int
}

func newIntValue(v *IntVarP, def int, target *int, hidden bool) *intValue {
	*target = def
	return &intValue{
		v:      v,
		hidden: hidden,
		target: target,
	}
}

func (i *intValue) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return err
	}

	*i.target = int(v)

	if i.v.SetHook != nil {
		i.v.SetHook(int(v))
	}

	return nil
}

func (i *intValue) Get() interface{} { return *i.target }
func (i *intValue) String() string   { return strconv.Itoa(*i.target) }
func (i *intValue) Example() string  { return "int" }
func (i *intValue) Hidden() bool     { return i.hidden }
func (i *intValue) Type() string     { return "int" }
