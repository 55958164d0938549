package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/afero"
)

// Renderer provides template rendering functionality using the text/template
// package. Settings files are run through it before YAML decoding so they
// can compute values and reference settings resolved by earlier files.
type Renderer struct {

	// Strict determines the template rendering missingkey option setting. If
	// set to true error will be used, otherwise zero is used.
	Strict bool

	// Fs backs the fileContents template function. The zero value falls back
	// to the host filesystem.
	Fs afero.Afero
}

const (
	leftTemplateDelim  = "[["
	rightTemplateDelim = "]]"
)

// contextKey is the name under which the running merged settings are exposed
// to templates, so a later file can write [[ .chamber.db.host ]].
const contextKey = "chamber"

// Render expands one settings file's content with the passed template data.
// The name attributes template errors to the file being rendered.
func (r *Renderer) Render(name, content string, data map[string]any) (string, error) {
	fs := r.Fs
	if fs.Fs == nil {
		fs = afero.Afero{Fs: afero.NewOsFs()}
	}

	// Set up our new template, add the function mapping, and set the
	// delimiters.
	tpl := template.New(name).Funcs(funcMap(fs)).Delims(leftTemplateDelim, rightTemplateDelim)

	// Control the behaviour of rendering when it encounters an element
	// referenced which doesn't exist within the variable mapping.
	if r.Strict {
		tpl.Option("missingkey=error")
	} else {
		tpl.Option("missingkey=zero")
	}

	if _, err := tpl.Parse(content); err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %v", name, err)
	}

	// Even when using "missingkey=zero", missing values will be rendered
	// as "<no value>" rather than an empty string. This modifies that
	// behaviour.
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// TemplateData builds the data map handed to Render, exposing the running
// merged settings under the context key.
func TemplateData(resolved map[string]any) map[string]any {
	if resolved == nil {
		resolved = map[string]any{}
	}
	return map[string]any{contextKey: resolved}
}
