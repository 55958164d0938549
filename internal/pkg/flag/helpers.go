package flag

import (
	"regexp"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// maxLineLength is the maximum width of help output before wrapping.
const maxLineLength = 78

var reRemoveWhitespace = regexp.MustCompile(`[\s]+`)

// wrapAtLengthWithPadding wraps the given text at the maxLineLength, taking
// into account any provided left padding.
func wrapAtLengthWithPadding(s string, pad int) string {
	wrapped := wordwrap.WrapString(s, uint(maxLineLength-pad))
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
