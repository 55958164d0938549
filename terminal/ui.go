package terminal

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mitchellh/go-glint"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNonInteractive is returned when Input is called on a non-Interactive UI.
var ErrNonInteractive = errors.New("noninteractive UI doesn't support this operation")

// Passed to UI.NamedValues to provide a nicely formatted key: value output
type NamedValue struct {
	Name  string
	Value interface{}
}

// Input is the configuration for an input prompt.
type Input struct {
	// Prompt is a single-line prompt to display to the user.
	Prompt string

	// Style is the style to apply to the prompt.
	Style string

	// Secret, if true, means the input should be hidden while typed, such
	// as a key passphrase.
	Secret bool
}

// UI is the primary interface for interacting with a user via the CLI.
type UI interface {
	// Input asks the user for input. This will immediately return an error
	// if the UI doesn't support interaction. You can test for interaction
	// ahead of time with Interactive().
	Input(*Input) (string, error)

	// Interactive returns true if this prompt supports user interaction.
	// If this is false, Input will always error.
	Interactive() bool

	// Output outputs a message directly to the terminal. The remaining
	// arguments should be interpolations for the format string. After the
	// interpolations you may add Options.
	Output(string, ...interface{})

	// AppendToRow appends a message to a row of output. Used for applying multiple
	// styles to a single row of text.
	AppendToRow(string, ...interface{})

	// NamedValues outputs data as a table of data. Each entry is a row which will be output
	// with the columns lined up nicely.
	NamedValues([]NamedValue, ...Option)

	// OutputWriters returns stdout and stderr writers. These are usually
	// but not always TTYs. This is useful for subprocesses, network requests,
	// etc. Note that writing to these is not thread-safe by default so
	// you must take care that there is only ever one writer.
	OutputWriters() (stdout, stderr io.Writer, err error)

	// Table outputs the information formatted into a Table structure.
	Table(*Table, ...Option)

	// Debug formats output with the DebugStyle
	Debug(string)

	// Error formats Output with the ErrorStyle
	Error(string)

	// ErrorWithContext formats an error output including additional context so
	// users can easily identify issues.
	ErrorWithContext(err error, sub string, ctx ...string)

	// Header formats Output with the HeaderStyle
	Header(string)

	// Info formats Output with the InfoStyle
	Info(string)

	// Success formats Output with the SuccessStyle
	Success(string)

	// Trace formats Output with the TraceStyle
	Trace(string)

	// Warning formats Output with the WarningStyle
	Warning(string)

	// WarningBold formats Output with the WarningBoldStyle
	WarningBold(string)
}

// Interpret decomposes the msg and arguments into the message, style, and writer
func Interpret(msg string, raw ...interface{}) (string, string, io.Writer) {
	// Build our args and options
	var args []interface{}
	var opts []Option
	for _, r := range raw {
		if opt, ok := r.(Option); ok {
			opts = append(opts, opt)
		} else {
			args = append(args, r)
		}
	}

	// Build our message
	msg = fmt.Sprintf(msg, args...)

	// Build our config and set our options
	cfg := &config{Writer: color.Output}
	for _, opt := range opts {
		opt(cfg)
	}

	return msg, cfg.Style, cfg.Writer
}

const (
	HeaderStyle      = "header"
	DebugStyle       = "debug"
	ErrorStyle       = "error"
	ErrorBoldStyle   = "error-bold"
	TraceStyle       = "trace"
	WarningStyle     = "warning"
	WarningBoldStyle = "warning-bold"
	InfoStyle        = "info"
	SuccessStyle     = "success"
	SuccessBoldStyle = "success-bold"
	BoldStyle        = "bold"

	BlueStyle        = "blue"
	CyanStyle        = "cyan"
	GreenStyle       = "green"
	RedStyle         = "red"
	YellowStyle      = "yellow"
	LightYellowStyle = "light-yellow"

	DefaultStyle = "default"
)

type config struct {
	// Writer is where the message will be written to.
	Writer io.Writer

	// The style the output should take on
	Style string
}

var titleFmt = cases.Title(language.AmericanEnglish)

// ErrorWithContext renders a rich error block to a fresh glint document.
func ErrorWithContext(err error, sub string, ctx ...string) {

	// Create a new glint document.
	d := glint.New()

	// Title the error output in red with the subject.
	d.Append(glint.Layout(
		glint.Style(
			glint.Text(fmt.Sprintf("! %s\n", titleFmt.String(sub))),
			glint.Color("red"),
		),
	).Row())

	// Add the error string as well as the error type to the output.
	d.Append(glint.Layout(
		glint.Style(glint.Text("\tError:   "), glint.Bold()),
		glint.Text(err.Error()),
	).Row())

	d.Append(glint.Layout(
		glint.Style(glint.Text("\tType:    "), glint.Bold()),
		glint.Text(fmt.Sprintf("%T", err)),
	).Row())

	// We only want this section once per error output, so we cannot perform
	// this within the ctx loop.
	if len(ctx) > 0 {
		d.Append(glint.Layout(
			glint.Style(glint.Text("\tContext: "), glint.Bold()),
		).Row())
	}

	// Iterate the addition context items and append these to the output.
	for _, additionCTX := range ctx {
		d.Append(glint.Layout(
			glint.Style(glint.Text(fmt.Sprintf("\t         - %s", additionCTX))),
		).Row())
	}

	d.RenderFrame()
}
