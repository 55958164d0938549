package sourcefile

import (
	"errors"
	"regexp"
	"strings"
)

// Rewrite failure modes. Both are soft: the caller records a warning for the
// leaf and leaves the file bytes alone.
var (
	errTargetNotFound  = errors.New("no textual occurrence of the entry was found")
	errTargetAmbiguous = errors.New("the entry matches more than one location")
)

// replacement is one byte-range substitution within the original content.
type replacement struct {
	start, end int
	text       string
}

// locateAndReplace finds the unique textual occurrence of the key/value entry
// in content and returns content with that occurrence rewritten to
// `<marker><key><sep><envelope>`. Every byte outside the matched entry is
// preserved, trailing inline comments included. Recognized forms are an
// inline scalar (optionally single or double quoted) and a block literal
// whose continuation lines are indented exactly two spaces.
func locateAndReplace(content, key, marker, value, envelope string) (string, error) {
	var matches []replacement
	matches = append(matches, inlineMatches(content, key, marker, value, envelope)...)
	matches = append(matches, blockMatches(content, key, marker, value, envelope)...)

	switch len(matches) {
	case 0:
		return "", errTargetNotFound
	case 1:
	default:
		return "", errTargetAmbiguous
	}

	m := matches[0]
	return content[:m.start] + m.text + content[m.end:], nil
}

// inlineMatches finds `key: value` lines, with the value optionally quoted
// and an optional trailing comment.
func inlineMatches(content, key, marker, value, envelope string) []replacement {
	re := regexp.MustCompile(
		`(?m)^([ \t]*(?:- )?)` + // 1: indentation, possibly a sequence dash
			`((?:` + regexp.QuoteMeta(marker) + `)?)` + // 2: existing marker
			regexp.QuoteMeta(key) +
			`([ \t]*:[ \t]+)` + // 3: separator
			`(["']?)` + regexp.QuoteMeta(value) + `(["']?)` + // 4, 5: quotes
			`([ \t]*(?:#.*)?)$`) // 6: trailing spaces / comment

	var out []replacement
	for _, idx := range re.FindAllStringSubmatchIndex(content, -1) {
		prefix := content[idx[2]:idx[3]]
		sep := content[idx[6]:idx[7]]
		trailer := content[idx[12]:idx[13]]
		out = append(out, replacement{
			start: idx[0],
			end:   idx[1],
			text:  prefix + marker + key + sep + envelope + trailer,
		})
	}
	return out
}

// blockMatches finds `key: |` (or `|-`) block literals whose continuation
// lines are indented exactly two spaces and whose dedented text equals value.
func blockMatches(content, key, marker, value, envelope string) []replacement {
	re := regexp.MustCompile(
		`(?m)^([ \t]*)` + // 1: indentation
			`((?:` + regexp.QuoteMeta(marker) + `)?)` + // 2: existing marker
			regexp.QuoteMeta(key) +
			`([ \t]*:[ \t]*)` + // 3: separator
			`\|(-?)[ \t]*\n` + // 4: chomping indicator
			`((?:  [^\n]*(?:\n|$))+)`) // 5: two-space indented body

	var out []replacement
	for _, idx := range re.FindAllStringSubmatchIndex(content, -1) {
		chomp := content[idx[8]:idx[9]]
		body := content[idx[10]:idx[11]]
		if dedentBlock(body, chomp == "-") != value {
			continue
		}

		prefix := content[idx[2]:idx[3]]
		sep := content[idx[6]:idx[7]]
		text := prefix + marker + key + normalizeSep(sep) + envelope
		if strings.HasSuffix(body, "\n") {
			text += "\n"
		}
		out = append(out, replacement{start: idx[0], end: idx[1], text: text})
	}
	return out
}

// dedentBlock strips the two-space indent from each body line and applies
// the literal-style newline rules: clip keeps one trailing newline, strip
// removes them all.
func dedentBlock(body string, strip bool) string {
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	joined := strings.Join(lines, "\n")
	if strip {
		return joined
	}
	return joined + "\n"
}

// normalizeSep rewrites the key/value separator for the single-line
// replacement. A bare `:` before a block indicator still needs a space
// before an inline value.
func normalizeSep(sep string) string {
	if strings.HasSuffix(sep, ":") {
		return sep + " "
	}
	return sep
}
