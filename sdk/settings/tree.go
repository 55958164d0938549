package settings

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decrypter turns an encryption envelope back into its plaintext. It is the
// only piece of key material the settings tree ever sees.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// WarningKind classifies the recoverable conditions recorded while parsing.
type WarningKind uint8

const (
	// WarnUndecryptable flags a secure leaf whose envelope could not be
	// decrypted, either because no key material was supplied or because
	// decryption failed. The leaf keeps its encrypted textual form.
	WarnUndecryptable WarningKind = iota
)

// Warning is a recoverable per-leaf condition surfaced alongside a tree
// rather than aborting the parse.
type Warning struct {
	Kind WarningKind
	Path []string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", strings.Join(w.Path, "."), w.Err)
}

// Leaf is one flattened (key-path, value) pair. Secure means the key carried
// the secure marker; Encrypted means the at-rest form was an encryption
// envelope. A Secure leaf that is not Encrypted is still stored in plaintext
// and is a candidate for securing.
type Leaf struct {
	Path      []string
	Value     any
	Secure    bool
	Encrypted bool
}

// Name returns the dotted key-path of the leaf.
func (l Leaf) Name() string { return strings.Join(l.Path, ".") }

// node is either a mapping (ordered children) or a leaf holding a scalar or
// sequence value. Sequences are treated as whole values: they merge by
// replacement and are never traversed for secure markers.
type node struct {
	isMap     bool
	keys      []string
	children  map[string]*node
	value     any
	secure    bool
	encrypted bool
}

func newMapNode() *node {
	return &node{isMap: true, children: make(map[string]*node)}
}

func (n *node) put(key string, child *node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *node) clone() *node {
	if n == nil {
		return nil
	}
	out := &node{
		isMap:     n.isMap,
		value:     n.value,
		secure:    n.secure,
		encrypted: n.encrypted,
	}
	if n.isMap {
		out.children = make(map[string]*node, len(n.children))
		out.keys = make([]string, len(n.keys))
		copy(out.keys, n.keys)
		for k, c := range n.children {
			out.children[k] = c.clone()
		}
	}
	return out
}

// Tree is one parsed file's, or one merged configuration's, settings data.
// Read-only once exposed to callers; Merge and the view methods return new
// trees.
type Tree struct {
	root *node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: newMapNode()}
}

// ParseOptions control how a decoded document graph becomes a tree.
type ParseOptions struct {
	// SecureMarker overrides the reserved key prefix. Empty means
	// DefaultSecureMarker.
	SecureMarker string

	// Decrypter supplies decryption key material. Nil means secure values
	// stay in their encrypted textual form and are reported as warnings.
	Decrypter Decrypter
}

func (o ParseOptions) marker() string {
	if o.SecureMarker == "" {
		return DefaultSecureMarker
	}
	return o.SecureMarker
}

// Parse builds a tree from a decoded YAML document node. A nil or empty
// document yields an empty tree. Keys carrying the secure marker are
// stripped of it and their leaves flagged secure; envelope values are
// decrypted when key material allows, and otherwise kept encrypted with a
// WarnUndecryptable warning. Decryption is only attempted on values that
// have the envelope shape, so a marked-but-plaintext value parses cleanly
// and shows up in PlaintextSecure.
func Parse(doc *yaml.Node, opts ParseOptions) (*Tree, []Warning) {
	t := NewTree()
	if doc == nil {
		return t, nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return t, nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		// Top level documents that are not mappings carry no addressable
		// settings; treat them as empty.
		return t, nil
	}
	var warnings []Warning
	parseMapping(doc, t.root, nil, false, opts, &warnings)
	return t, warnings
}

func parseMapping(src *yaml.Node, dst *node, path []string, secure bool, opts ParseOptions, warnings *[]Warning) {
	marker := opts.marker()
	for i := 0; i+1 < len(src.Content); i += 2 {
		keyNode, valNode := src.Content[i], src.Content[i+1]
		key := keyNode.Value
		leafSecure := secure
		if strings.HasPrefix(key, marker) {
			key = strings.TrimPrefix(key, marker)
			leafSecure = true
		}
		childPath := append(append([]string{}, path...), key)
		dst.put(key, parseValue(valNode, childPath, leafSecure, opts, warnings))
	}
}

func parseValue(src *yaml.Node, path []string, secure bool, opts ParseOptions, warnings *[]Warning) *node {
	if src.Kind == yaml.AliasNode && src.Alias != nil {
		src = src.Alias
	}
	switch src.Kind {
	case yaml.MappingNode:
		m := newMapNode()
		parseMapping(src, m, path, secure, opts, warnings)
		return m
	case yaml.SequenceNode:
		var items []any
		if err := src.Decode(&items); err != nil {
			items = nil
		}
		return &node{value: items, secure: secure}
	default:
		return parseScalar(src, path, secure, opts, warnings)
	}
}

func parseScalar(src *yaml.Node, path []string, secure bool, opts ParseOptions, warnings *[]Warning) *node {
	if secure && IsEnvelope(src.Value) {
		leaf := &node{secure: true, encrypted: true}
		if opts.Decrypter == nil {
			leaf.value = src.Value
			*warnings = append(*warnings, Warning{
				Kind: WarnUndecryptable,
				Path: path,
				Err:  fmt.Errorf("no decryption key material available"),
			})
			return leaf
		}
		plain, err := opts.Decrypter.Decrypt(src.Value)
		if err != nil {
			leaf.value = src.Value
			*warnings = append(*warnings, Warning{Kind: WarnUndecryptable, Path: path, Err: err})
			return leaf
		}
		leaf.value = plain
		return leaf
	}

	var v any
	if err := src.Decode(&v); err != nil {
		v = src.Value
	}
	return &node{value: v, secure: secure}
}

// Merge combines t with other, other being the more specific side. Mappings
// merge recursively; any other pairing is won wholly by other, secure and
// encrypted flags included. Neither input is mutated.
func (t *Tree) Merge(other *Tree) *Tree {
	if other == nil {
		return &Tree{root: t.root.clone()}
	}
	return &Tree{root: mergeNodes(t.root, other.root)}
}

func mergeNodes(a, b *node) *node {
	if a == nil {
		return b.clone()
	}
	if b == nil {
		return a.clone()
	}
	if !a.isMap || !b.isMap {
		return b.clone()
	}
	out := newMapNode()
	for _, k := range a.keys {
		out.put(k, a.children[k].clone())
	}
	for _, k := range b.keys {
		if existing, ok := out.children[k]; ok {
			out.children[k] = mergeNodes(existing, b.children[k])
			continue
		}
		out.put(k, b.children[k].clone())
	}
	return out
}

// SecureView returns a tree holding only secure-flagged leaves. Intermediate
// keys survive wherever at least one descendant leaf does.
func (t *Tree) SecureView() *Tree {
	return &Tree{root: orEmpty(filterNode(t.root, func(n *node) bool { return n.secure }))}
}

// InsecureView returns a tree holding only leaves without the secure flag.
func (t *Tree) InsecureView() *Tree {
	return &Tree{root: orEmpty(filterNode(t.root, func(n *node) bool { return !n.secure }))}
}

func orEmpty(n *node) *node {
	if n == nil {
		return newMapNode()
	}
	return n
}

func filterNode(n *node, keep func(*node) bool) *node {
	if !n.isMap {
		if keep(n) {
			return n.clone()
		}
		return nil
	}
	out := newMapNode()
	for _, k := range n.keys {
		if c := filterNode(n.children[k], keep); c != nil {
			out.put(k, c)
		}
	}
	if len(out.keys) == 0 {
		return nil
	}
	return out
}

// Flatten returns the leaves of the tree as (key-path, value) pairs in key
// insertion order at every level. The ordering follows each source file's
// top-to-bottom key appearance, which the secure rewriter depends on.
func (t *Tree) Flatten() []Leaf {
	var out []Leaf
	flattenNode(t.root, nil, &out)
	return out
}

func flattenNode(n *node, path []string, out *[]Leaf) {
	if !n.isMap {
		*out = append(*out, Leaf{
			Path:      append([]string{}, path...),
			Value:     n.value,
			Secure:    n.secure,
			Encrypted: n.encrypted,
		})
		return
	}
	for _, k := range n.keys {
		flattenNode(n.children[k], append(path, k), out)
	}
}

// PlaintextSecure returns the leaves flagged secure whose at-rest form is
// still plaintext. These are values the caller intended to protect but which
// have not been encrypted yet.
func (t *Tree) PlaintextSecure() []Leaf {
	var out []Leaf
	for _, l := range t.Flatten() {
		if l.Secure && !l.Encrypted {
			out = append(out, l)
		}
	}
	return out
}

// Get returns the value at the given key path.
func (t *Tree) Get(path ...string) (any, bool) {
	n := t.root
	for _, key := range path {
		if n == nil || !n.isMap {
			return nil, false
		}
		n = n.children[key]
	}
	if n == nil {
		return nil, false
	}
	if n.isMap {
		return n.toMap(), true
	}
	return n.value, true
}

// GetString returns the string form of the value at the given key path.
func (t *Tree) GetString(path ...string) (string, bool) {
	v, ok := t.Get(path...)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// IsEmpty reports whether the tree holds no entries.
func (t *Tree) IsEmpty() bool { return len(t.root.keys) == 0 }

// Len returns the number of leaves in the tree.
func (t *Tree) Len() int { return len(t.Flatten()) }

// AsMap returns the tree as plain nested maps, suitable for use as template
// context data. Key order is not preserved by the result; use Flatten or the
// YAML marshalling when order matters.
func (t *Tree) AsMap() map[string]any {
	return t.root.toMap()
}

func (n *node) toMap() map[string]any {
	out := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		c := n.children[k]
		if c.isMap {
			out[k] = c.toMap()
			continue
		}
		out[k] = c.value
	}
	return out
}

// MarshalYAML implements yaml.Marshaler, emitting mappings in key insertion
// order.
func (t *Tree) MarshalYAML() (any, error) {
	return t.root.yamlNode(), nil
}

func (n *node) yamlNode() *yaml.Node {
	if !n.isMap {
		var out yaml.Node
		if err := out.Encode(n.value); err != nil {
			out = yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(n.value)}
		}
		return &out
	}
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range n.keys {
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			n.children[k].yamlNode(),
		)
	}
	return out
}
