package cli

import (
	"github.com/fr2019/chamber/internal/pkg/flag"
	"github.com/fr2019/chamber/terminal"
)

// Option is used to configure Init on baseCommand.
type Option func(c *baseConfig)

// WithArgs sets the arguments to the command that are used for parsing.
// Remaining arguments can be accessed using your flag set and asking for Args.
// Example: c.Flags().Args().
func WithArgs(args []string) Option {
	return func(c *baseConfig) { c.Args = args }
}

// The same as WithArgs, but also assigns the validation function NoArgs
// which returns an error if any args are provided. Only the function is
// assigned; actual validation happens after the flags have been parsed.
func WithNoArgs(args []string) Option {
	return func(c *baseConfig) {
		c.Args = args
		c.Validation = NoArgs
	}
}

// The same as WithArgs, but also assigns the validation function MinimumNArgs
// which returns an error if fewer than N args are provided. Only the function
// is assigned; actual validation happens after the flags have been parsed.
func WithMinimumNArgs(n int, args []string) Option {
	return func(c *baseConfig) {
		c.Args = args
		c.Validation = MinimumNArgs(n)
	}
}

// The same as WithArgs, but also assigns the validation function MaximumNArgs
// which returns an error if more than N args are provided. Only the function
// is assigned; actual validation happens after the flags have been parsed.
func WithMaximumNArgs(n int, args []string) Option {
	return func(c *baseConfig) {
		c.Args = args
		c.Validation = MaximumNArgs(n)
	}
}

// The same as WithArgs, but also assigns the validation function ExactArgs
// which returns an error if exactly N args aren't provided. Only the function
// is assigned; actual validation happens after the flags have been parsed.
func WithExactArgs(n int, args []string) Option {
	return func(c *baseConfig) {
		c.Args = args
		c.Validation = ExactArgs(n)
	}
}

// The same as WithArgs, but also assigns a custom validation function
// which will return an error if the custom validation criteria are not met.
// Only the function is assigned; actual validation happens after the flags
// have been parsed.
func WithCustomArgs(args []string, customValidation ValidationFn) Option {
	return func(c *baseConfig) {
		c.Args = args
		c.Validation = customValidation
	}
}

// WithFlags sets the flags that are supported by this command. This MUST
// be set otherwise a panic will happen. This is usually set by just calling
// the Flags function on your command implementation.
func WithFlags(f *flag.Sets) Option {
	return func(c *baseConfig) { c.Flags = f }
}

// WithUI sets the UI to use for the command, overriding the one picked for
// the current terminal. Mostly useful for tests.
func WithUI(ui terminal.UI) Option {
	return func(c *baseConfig) { c.UI = ui }
}
