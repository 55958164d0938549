package settings

import (
	"strings"
	"testing"

	"github.com/shoenig/test/must"
	"gopkg.in/yaml.v3"
)

func parseYAML(t *testing.T, src string, opts ParseOptions) (*Tree, []Warning) {
	t.Helper()
	var doc yaml.Node
	must.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return Parse(&doc, opts)
}

type fakeDecrypter struct {
	values map[string]string
}

func (d *fakeDecrypter) Decrypt(ciphertext string) (string, error) {
	if v, ok := d.values[ciphertext]; ok {
		return v, nil
	}
	return "", &fakeDecryptError{}
}

type fakeDecryptError struct{}

func (e *fakeDecryptError) Error() string { return "wrong key" }

func TestParse_BasicTypes(t *testing.T) {
	tree, warnings := parseYAML(t, `
host: example.com
port: 8080
debug: true
ratio: 0.25
tags:
  - a
  - b
`, ParseOptions{})
	must.Len(t, 0, warnings)

	host, ok := tree.Get("host")
	must.True(t, ok)
	must.Eq(t, "example.com", host)

	port, ok := tree.Get("port")
	must.True(t, ok)
	must.Eq(t, 8080, port)

	debug, ok := tree.Get("debug")
	must.True(t, ok)
	must.Eq(t, true, debug)

	tags, ok := tree.Get("tags")
	must.True(t, ok)
	must.Eq[any](t, []any{"a", "b"}, tags)

	_, ok = tree.Get("missing")
	must.False(t, ok)
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	tree, _ := parseYAML(t, `
zebra: 1
apple: 2
mango:
  second: b
  first: a
`, ParseOptions{})

	var names []string
	for _, l := range tree.Flatten() {
		names = append(names, l.Name())
	}
	must.Eq(t, []string{"zebra", "apple", "mango.second", "mango.first"}, names)
}

func TestParse_SecureMarker(t *testing.T) {
	tree, warnings := parseYAML(t, `
username: admin
_secure_password: hunter2
`, ParseOptions{})
	must.Len(t, 0, warnings)

	pw, ok := tree.Get("password")
	must.True(t, ok)
	must.Eq(t, "hunter2", pw)

	leaves := tree.Flatten()
	must.Len(t, 2, leaves)
	must.False(t, leaves[0].Secure)
	must.True(t, leaves[1].Secure)
	must.False(t, leaves[1].Encrypted)
}

func TestParse_SecureMarkerPropagatesDown(t *testing.T) {
	tree, _ := parseYAML(t, `
_secure_credentials:
  username: admin
  password: hunter2
`, ParseOptions{})

	for _, l := range tree.Flatten() {
		must.True(t, l.Secure, must.Sprintf("leaf %s should inherit the secure flag", l.Name()))
	}
	_, ok := tree.Get("credentials", "username")
	must.True(t, ok)
}

func TestParse_CustomMarker(t *testing.T) {
	tree, _ := parseYAML(t, `
__private__token: abc
`, ParseOptions{SecureMarker: "__private__"})

	leaves := tree.Flatten()
	must.Len(t, 1, leaves)
	must.Eq(t, "token", leaves[0].Name())
	must.True(t, leaves[0].Secure)
}

func TestParse_DecryptsEnvelopes(t *testing.T) {
	dec := &fakeDecrypter{values: map[string]string{
		"ENC[rsa-oaep,c2VjcmV0]": "s3cr3t",
	}}
	tree, warnings := parseYAML(t, `
_secure_password: ENC[rsa-oaep,c2VjcmV0]
`, ParseOptions{Decrypter: dec})
	must.Len(t, 0, warnings)

	pw, ok := tree.Get("password")
	must.True(t, ok)
	must.Eq(t, "s3cr3t", pw)

	leaves := tree.Flatten()
	must.True(t, leaves[0].Secure)
	must.True(t, leaves[0].Encrypted)
}

func TestParse_NoKeyKeepsCiphertext(t *testing.T) {
	tree, warnings := parseYAML(t, `
_secure_password: ENC[rsa-oaep,c2VjcmV0]
plain: ok
`, ParseOptions{})

	must.Len(t, 1, warnings)
	must.Eq(t, WarnUndecryptable, warnings[0].Kind)
	must.Eq(t, []string{"password"}, warnings[0].Path)

	pw, ok := tree.Get("password")
	must.True(t, ok)
	must.Eq(t, "ENC[rsa-oaep,c2VjcmV0]", pw)
}

func TestParse_WrongKeyKeepsCiphertext(t *testing.T) {
	dec := &fakeDecrypter{values: map[string]string{}}
	tree, warnings := parseYAML(t, `
_secure_password: ENC[rsa-oaep,c2VjcmV0]
`, ParseOptions{Decrypter: dec})

	must.Len(t, 1, warnings)
	must.StrContains(t, warnings[0].String(), "password")

	pw, _ := tree.Get("password")
	must.Eq(t, "ENC[rsa-oaep,c2VjcmV0]", pw)
}

func TestParse_MarkedPlaintextNotDecrypted(t *testing.T) {
	// A marked plaintext value must not be handed to the decrypter; it is a
	// securing candidate, not a decryption failure.
	dec := &fakeDecrypter{values: map[string]string{}}
	tree, warnings := parseYAML(t, `
_secure_password: hello
`, ParseOptions{Decrypter: dec})

	must.Len(t, 0, warnings)
	plain := tree.PlaintextSecure()
	must.Len(t, 1, plain)
	must.Eq(t, "password", plain[0].Name())
	must.Eq(t, "hello", plain[0].Value)
}

func TestParse_Anchors(t *testing.T) {
	tree, _ := parseYAML(t, `
default: &shared
  timeout: 30
service:
  *shared
`, ParseOptions{})

	v, ok := tree.Get("service", "timeout")
	must.True(t, ok)
	must.Eq(t, 30, v)
}

func TestParse_EmptyDocument(t *testing.T) {
	tree, warnings := Parse(nil, ParseOptions{})
	must.True(t, tree.IsEmpty())
	must.Len(t, 0, warnings)

	tree, warnings = parseYAML(t, "", ParseOptions{})
	must.True(t, tree.IsEmpty())
	must.Len(t, 0, warnings)
}

func TestMerge_RightBias(t *testing.T) {
	base, _ := parseYAML(t, `
host: base.example.com
port: 80
nested:
  keep: always
  override: old
`, ParseOptions{})
	over, _ := parseYAML(t, `
host: override.example.com
nested:
  override: new
  added: fresh
`, ParseOptions{})

	merged := base.Merge(over)

	host, _ := merged.Get("host")
	must.Eq(t, "override.example.com", host)
	port, _ := merged.Get("port")
	must.Eq(t, 80, port)
	keep, _ := merged.Get("nested", "keep")
	must.Eq(t, "always", keep)
	override, _ := merged.Get("nested", "override")
	must.Eq(t, "new", override)
	added, _ := merged.Get("nested", "added")
	must.Eq(t, "fresh", added)
}

func TestMerge_ScalarReplacesMap(t *testing.T) {
	base, _ := parseYAML(t, `
value:
  deeply:
    nested: thing
`, ParseOptions{})
	over, _ := parseYAML(t, `
value: flat
`, ParseOptions{})

	merged := base.Merge(over)
	v, _ := merged.Get("value")
	must.Eq(t, "flat", v)

	// And the other direction: a map wholly replaces a scalar.
	merged = over.Merge(base)
	v, _ = merged.Get("value", "deeply", "nested")
	must.Eq(t, "thing", v)
}

func TestMerge_SequencesReplaceWholly(t *testing.T) {
	base, _ := parseYAML(t, `
tags: [a, b, c]
`, ParseOptions{})
	over, _ := parseYAML(t, `
tags: [z]
`, ParseOptions{})

	merged := base.Merge(over)
	v, _ := merged.Get("tags")
	must.Eq[any](t, []any{"z"}, v)
}

func TestMerge_WinnerFlagsCarry(t *testing.T) {
	base, _ := parseYAML(t, `
password: plain-default
`, ParseOptions{})
	over, _ := parseYAML(t, `
_secure_password: hunter2
`, ParseOptions{})

	merged := base.Merge(over)
	leaves := merged.Flatten()
	must.Len(t, 1, leaves)
	must.True(t, leaves[0].Secure)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base, _ := parseYAML(t, `
a: 1
nested:
  b: 2
`, ParseOptions{})
	over, _ := parseYAML(t, `
nested:
  b: 3
`, ParseOptions{})

	_ = base.Merge(over)

	v, _ := base.Get("nested", "b")
	must.Eq(t, 2, v)
	v, _ = over.Get("nested", "b")
	must.Eq(t, 3, v)
}

func TestMerge_Associative(t *testing.T) {
	a, _ := parseYAML(t, "x: 1\ny: a-only", ParseOptions{})
	b, _ := parseYAML(t, "x: 2\nz: b-only", ParseOptions{})
	c, _ := parseYAML(t, "x: 3", ParseOptions{})

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))

	must.Eq(t, left.AsMap(), right.AsMap())
	x, _ := left.Get("x")
	must.Eq(t, 3, x)
}

func TestViews(t *testing.T) {
	tree, _ := parseYAML(t, `
host: example.com
credentials:
  username: admin
  _secure_password: hunter2
`, ParseOptions{})

	secure := tree.SecureView()
	must.Eq(t, 1, secure.Len())
	pw, ok := secure.Get("credentials", "password")
	must.True(t, ok)
	must.Eq(t, "hunter2", pw)
	_, ok = secure.Get("host")
	must.False(t, ok)

	insecure := tree.InsecureView()
	must.Eq(t, 2, insecure.Len())
	_, ok = insecure.Get("credentials", "password")
	must.False(t, ok)
	user, ok := insecure.Get("credentials", "username")
	must.True(t, ok)
	must.Eq(t, "admin", user)
}

func TestViews_EmptyResult(t *testing.T) {
	tree, _ := parseYAML(t, `
plain: value
`, ParseOptions{})

	must.True(t, tree.SecureView().IsEmpty())
	must.False(t, tree.InsecureView().IsEmpty())
}

func TestAsMap(t *testing.T) {
	tree, _ := parseYAML(t, `
top: value
nested:
  inner: 7
`, ParseOptions{})

	must.Eq(t, map[string]any{
		"top": "value",
		"nested": map[string]any{
			"inner": 7,
		},
	}, tree.AsMap())
}

func TestMarshalYAML_KeepsOrder(t *testing.T) {
	src := `zebra: 1
apple: 2
mango:
    second: b
    first: a
`
	tree, _ := parseYAML(t, src, ParseOptions{})
	out, err := yaml.Marshal(tree)
	must.NoError(t, err)
	must.Eq(t, src, string(out))
}

func TestGetString(t *testing.T) {
	tree, _ := parseYAML(t, `
port: 8080
`, ParseOptions{})

	s, ok := tree.GetString("port")
	must.True(t, ok)
	must.Eq(t, "8080", s)

	_, ok = tree.GetString("nope")
	must.False(t, ok)
}

func TestWarningString(t *testing.T) {
	w := Warning{Kind: WarnUndecryptable, Path: []string{"db", "password"}, Err: &fakeDecryptError{}}
	must.True(t, strings.HasPrefix(w.String(), "db.password:"))
}
