package settings

import (
	"errors"
	"testing"

	"github.com/shoenig/test/must"
)

func TestNamespaceSet_OrderAndDedup(t *testing.T) {
	s := NewNamespaceSet("blue", "green", "blue", "red", "green")
	must.Eq(t, []string{"blue", "green", "red"}, s.Names())
	must.Eq(t, 3, s.Len())
	must.False(t, s.IsEmpty())
}

func TestNamespaceSet_Empty(t *testing.T) {
	s := NewNamespaceSet()
	must.True(t, s.IsEmpty())
	must.Eq(t, 0, s.Len())
	must.Eq(t, []string{}, s.Names())
}

func TestNamespaceSet_NamesIsCopy(t *testing.T) {
	s := NewNamespaceSet("a", "b")
	names := s.Names()
	names[0] = "mutated"
	must.Eq(t, []string{"a", "b"}, s.Names())
}

func TestNamespaceSet_Contains(t *testing.T) {
	s := NewNamespaceSet("production", "us-east-1")
	must.True(t, s.Contains("production"))
	must.False(t, s.Contains("staging"))
}

func TestNamespaceSet_EachRestartable(t *testing.T) {
	s := NewNamespaceSet("one", "two")

	var first, second []string
	s.Each(func(name string) { first = append(first, name) })
	s.Each(func(name string) { second = append(second, name) })

	must.Eq(t, []string{"one", "two"}, first)
	must.Eq(t, first, second)
}

func TestNamespacesFromLabeled(t *testing.T) {
	s := NamespacesFromLabeled([]Labeled{
		{Label: "environment", Value: "production"},
		{Label: "region", Value: "eu-west-1"},
		{Label: "tier", Value: "production"},
	})
	must.Eq(t, []string{"production", "eu-west-1"}, s.Names())
}

type stringerNS string

func (s stringerNS) String() string { return string(s) }

func TestCoerceNamespaces(t *testing.T) {
	testCases := []struct {
		name   string
		input  []any
		expect []string
	}{
		{name: "strings", input: []any{"a", "b"}, expect: []string{"a", "b"}},
		{name: "integers", input: []any{42, int64(7)}, expect: []string{"42", "7"}},
		{name: "floats", input: []any{1.5}, expect: []string{"1.5"}},
		{name: "bools", input: []any{true}, expect: []string{"true"}},
		{name: "stringer", input: []any{stringerNS("prod")}, expect: []string{"prod"}},
		{name: "mixed dedup", input: []any{"7", 7}, expect: []string{"7"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := CoerceNamespaces(tc.input)
			must.NoError(t, err)
			must.Eq(t, tc.expect, s.Names())
		})
	}
}

func TestCoerceNamespaces_Invalid(t *testing.T) {
	_, err := CoerceNamespaces([]any{"ok", struct{ X int }{1}})
	must.Error(t, err)

	nsErr := &InvalidNamespaceError{}
	must.True(t, errors.As(err, &nsErr))
	must.Eq(t, 1, nsErr.Index)
}
