package renderer

import (
	"fmt"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"
)

// funcMap instantiates our default template function map with populated
// functions for use within text.Template.
func funcMap(fs afero.Afero) template.FuncMap {

	// Sprig defines our base map.
	f := sprig.TxtFuncMap()

	// Add debugging functions. These are useful when debugging templates and
	// the settings visible to them.
	f["spewDump"] = spew.Sdump
	f["spewPrintf"] = spew.Sprintf
	f["customSpew"] = spew.NewDefaultConfig
	f["withIndent"] = withIndent
	f["withMaxDepth"] = withMaxDepth
	f["withSortKeys"] = withSortKeys

	// Add additional custom functions.
	f["fileContents"] = fileContents(fs)
	f["toStringList"] = toStringList

	return f
}

// fileContents reads the passed path and returns the content as a string.
func fileContents(fs afero.Afero) func(string) (string, error) {
	return func(file string) (string, error) {
		content, err := fs.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %v", file, err)
		}
		return string(content), nil
	}
}

// toStringList takes a list of values and returns a quoted flow-style list,
// useful when templating a YAML sequence from a computed set.
func toStringList(l []any) (string, error) {
	var out string
	for i := range l {
		if i > 0 && i < len(l) {
			out += ", "
		}
		out += fmt.Sprintf("%q", fmt.Sprint(l[i]))
	}
	return "[" + out + "]", nil
}

// Spew helper funcs
func withIndent(in string, v any) (any, error) {
	act := "withIndent"
	spew, err := parseSpewParam(act, v)
	if err != nil {
		return nil, err
	}
	spew.Indent = in
	return spew, nil
}

func withMaxDepth(in, inS any) (any, error) {
	act := "withMaxDepth"
	i, err := parseIntParam(act, in)
	if err != nil {
		return nil, err
	}

	s, err := parseSpewParam(act, inS)
	if err != nil {
		return nil, err
	}
	s.MaxDepth = i
	return s, nil
}

func withSortKeys(in, inS any) (any, error) {
	act := "withSortKeys"
	b, err := parseBoolParam(act, in)
	if err != nil {
		return nil, err
	}

	s, err := parseSpewParam(act, inS)
	if err != nil {
		return nil, err
	}
	s.SortKeys = b
	return s, nil
}

type ErrSpewConfig struct {
	act    string
	got    string
	expect string
}

func newErrSpewConfig(act, expect string, got any) ErrSpewConfig {
	return ErrSpewConfig{
		act:    act,
		expect: expect,
		got:    fmt.Sprintf("%T", got),
	}
}

func (e ErrSpewConfig) Error() string {
	return fmt.Sprintf("invalid parameter: expected %s, received %s", e.expect, e.got)
}

func parseBoolParam(act string, in any) (bool, error) {
	var b bool
	switch in := in.(type) {
	case bool:
		b = in
	case string:
		var err error
		b, err = strconv.ParseBool(in)
		if err != nil {
			return false, newErrSpewConfig(act, "bool or bool-like string", in)
		}
	default:
		return false, newErrSpewConfig(act, "bool or bool-like string", in)
	}
	return b, nil
}

func parseIntParam(act string, in any) (int, error) {
	var i int
	switch in := in.(type) {
	case int:
		i = in
	case string:
		pi, err := strconv.ParseInt(in, 0, 32)
		i = int(pi)
		if err != nil {
			return -1, newErrSpewConfig(act, "int or int-like string", in)
		}
	default:
		return -1, newErrSpewConfig(act, "int or int-like string", in)
	}
	return i, nil
}

func parseSpewParam(act string, in any) (*spew.ConfigState, error) {
	if spew, ok := in.(*spew.ConfigState); ok {
		return spew, nil
	}
	return nil, newErrSpewConfig(act, "*spew.ConfigState", in)
}
