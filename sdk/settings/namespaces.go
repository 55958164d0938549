package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidNamespaceError is returned when a raw namespace element cannot be
// coerced to a string. It is fatal at NamespaceSet construction.
type InvalidNamespaceError struct {
	Index int
	Raw   any
}

func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("namespace element %d (%T) cannot be coerced to a string", e.Index, e.Raw)
}

// Labeled pairs a namespace value with a caller-facing label. Labels are
// documentation only; they never influence resolution. This is the explicit
// replacement for passing an associative structure, whose iteration order Go
// does not preserve.
type Labeled struct {
	Label string
	Value string
}

// NamespaceSet is an ordered, duplicate-free list of namespace identifiers.
// Order is preserved from caller input and duplicates collapse to their first
// occurrence. An empty set applies no namespace filtering. The zero value is
// an empty set. Immutable once constructed.
type NamespaceSet struct {
	names []string
}

// NewNamespaceSet builds a set from the given values in order.
func NewNamespaceSet(values ...string) NamespaceSet {
	s := NamespaceSet{}
	for _, v := range values {
		s.add(v)
	}
	return s
}

// NamespacesFromLabeled builds a set from labeled entries, keeping entry
// order and ignoring labels.
func NamespacesFromLabeled(entries []Labeled) NamespaceSet {
	s := NamespaceSet{}
	for _, e := range entries {
		s.add(e.Value)
	}
	return s
}

// CoerceNamespaces builds a set from loosely typed elements, string-coercing
// each one. Strings, fmt.Stringers, integers, floats and bools coerce;
// anything else fails with an InvalidNamespaceError.
func CoerceNamespaces(raw []any) (NamespaceSet, error) {
	s := NamespaceSet{}
	for i, r := range raw {
		name, ok := coerceString(r)
		if !ok {
			return NamespaceSet{}, &InvalidNamespaceError{Index: i, Raw: r}
		}
		s.add(name)
	}
	return s, nil
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func (s *NamespaceSet) add(name string) {
	for _, existing := range s.names {
		if existing == name {
			return
		}
	}
	s.names = append(s.names, name)
}

// Names returns a copy of the namespace names in stored order.
func (s NamespaceSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of namespaces in the set.
func (s NamespaceSet) Len() int { return len(s.names) }

// IsEmpty reports whether the set holds no namespaces.
func (s NamespaceSet) IsEmpty() bool { return len(s.names) == 0 }

// Contains reports whether name is a member of the set.
func (s NamespaceSet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Each calls fn for every namespace in stored order. Iteration is restartable
// by calling Each again.
func (s NamespaceSet) Each(fn func(name string)) {
	for _, n := range s.names {
		fn(n)
	}
}

func (s NamespaceSet) String() string {
	return strings.Join(s.names, ",")
}
