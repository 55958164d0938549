package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/posener/complete"
	"github.com/spf13/afero"

	"github.com/fr2019/chamber/internal/config"
	"github.com/fr2019/chamber/internal/pkg/flag"
	"github.com/fr2019/chamber/terminal"
)

// baseCommand is embedded in all commands to provide common logic and data.
//
// The unexported values are not available until after Init is called. Some
// values are only available in certain circumstances, read the documentation
// for the field to determine if that is the case.
type baseCommand struct {
	// Ctx is the base context for the command. It is up to commands to
	// utilize this context so that cancellation works in a timely manner.
	Ctx context.Context

	// Log is the logger to use.
	Log hclog.Logger

	// Example usage
	Example string

	//---------------------------------------------------------------
	// The fields below are only available after calling Init.

	// UI is used to write to the CLI.
	ui terminal.UI

	//---------------------------------------------------------------
	// Internal fields that should not be accessed directly

	// cmdKey names the command for usage messages.
	cmdKey string

	// fs is the filesystem every resolution runs against. Left nil, Init
	// fills in the OS filesystem; tests inject a memory one.
	fs afero.Afero

	// flagPlain is whether the output should be in plain mode.
	flagPlain bool

	// cfg is the resolution request assembled from the shared flags.
	cfg config.ResolutionConfig

	// args that were present after parsing flags
	args []string

	// options passed in at the global level
	globalOptions []Option
}

// Close cleans up any resources that the command created. This should be
// defered by any CLI command that embeds baseCommand in the Run command.
func (c *baseCommand) Close() error {
	// Close our UI if it implements it. The glint-based UI does for example
	// to finish up all the CLI output.
	if closer, ok := c.ui.(io.Closer); ok && closer != nil {
		closer.Close()
	}

	return nil
}

func (c *baseCommand) GetExample() string {
	if len(c.Example) > 0 {
		return "Examples:" + c.Example + "\n"
	}
	return ""
}

// baseConfig is the configuration Init assembles from its options.
type baseConfig struct {
	Args       []string
	Flags      *flag.Sets
	UI         terminal.UI
	Validation ValidationFn
}

// Init initializes the command by parsing flags and applying environment
// defaults to the resolution request. You can control what is done by using
// the options.
//
// Init should be called FIRST within the Run function implementation. Many
// options will affect behavior of other functions that can be called later.
func (c *baseCommand) Init(opts ...Option) error {
	baseCfg := baseConfig{}

	for _, opt := range c.globalOptions {
		opt(&baseCfg)
	}

	for _, opt := range opts {
		opt(&baseCfg)
	}

	// Init our UI first so we can write output to the user immediately.
	ui := baseCfg.UI
	if ui == nil {
		ui = terminal.ConsoleUI(c.Ctx)
	}

	c.ui = ui

	if c.fs.Fs == nil {
		c.fs = afero.Afero{Fs: afero.NewOsFs()}
	}

	// Parse flags
	err := baseCfg.Flags.Parse(baseCfg.Args)
	if err != nil {
		return err
	}
	c.args = baseCfg.Flags.Args()

	// Do any validation after parsing
	if baseCfg.Validation != nil {
		err := baseCfg.Validation(c, c.args)
		if err != nil {
			return err
		}
	}

	// Reset the UI to plain if that was set
	if c.flagPlain {
		c.ui = terminal.NonInteractiveUI(c.Ctx)
	}

	c.cfg.Init()

	return nil
}

// flagSet creates the flags for this command. The callback should be used
// to configure the set with your own custom options.
func (c *baseCommand) flagSet(bit flagSetBit, f func(*flag.Sets)) *flag.Sets {
	set := flag.NewSets()

	{
		f := set.NewSet("Global Options")
		f.BoolVar(&flag.BoolVar{
			Name:    "plain",
			Target:  &c.flagPlain,
			Default: false,
			EnvVar:  EnvPlain,
			Usage:   `Plain output: no colors, no animation.`,
		})
	}

	if bit&flagSetResolution != 0 {
		f := set.NewSet("Resolution Options")
		f.StringSliceVarP(&flag.StringSliceVarP{
			StringSliceVar: &flag.StringSliceVar{
				Name:    "file",
				Target:  &c.cfg.FilePatterns,
				Default: make([]string, 0),
				Usage: `A file, directory, or glob naming candidate settings
						files. This can be provided multiple times on a single
						command; patterns keep the order they were given.`,
				Completion: complete.PredictOr(
					complete.PredictFiles("*.yml"),
					complete.PredictFiles("*.yml.tpl"),
					complete.PredictDirs("*"),
				),
			},
			Shorthand: "f",
		})

		f.StringVar(&flag.StringVar{
			Name:    "basepath",
			Target:  &c.cfg.BasePath,
			Default: "",
			EnvVar:  config.EnvBasePath,
			Usage: `The directory relative file patterns are resolved
					against. Reported paths are shown relative to it.`,
			Completion: complete.PredictDirs("*"),
		})

		f.StringSliceVarP(&flag.StringSliceVarP{
			StringSliceVar: &flag.StringSliceVar{
				Name:    "namespace",
				Target:  &c.cfg.Namespaces,
				Default: make([]string, 0),
				Usage: `A namespace whose settings files should be layered on
						top of the non-namespaced ones. Can be provided
						multiple times; later namespaces take precedence.`,
			},
			Shorthand: "n",
		})

		f.StringVar(&flag.StringVar{
			Name:    "decryption-key",
			Target:  &c.cfg.DecryptionKeyPath,
			Default: "",
			EnvVar:  config.EnvDecryptionKey,
			Usage: `Path to the PEM encoded RSA private key used to decrypt
					secure values. A passphrase protected key prompts for its
					passphrase.`,
			Completion: complete.PredictFiles("*.pem"),
		})

		f.BoolVar(&flag.BoolVar{
			Name:    "strict",
			Target:  &c.cfg.Strict,
			Default: false,
			Usage: `Fail a file whose templates reference settings that do not
					exist, instead of rendering them empty.`,
		})
	}

	if bit&flagSetEncryption != 0 {
		f := set.NewSet("Encryption Options")
		f.StringVar(&flag.StringVar{
			Name:    "encryption-key",
			Target:  &c.cfg.EncryptionKeyPath,
			Default: "",
			EnvVar:  config.EnvEncryptionKey,
			Usage: `Path to the PEM encoded RSA public key used to encrypt
					plaintext secure values. A private key also works; its
					public half is used.`,
			Completion: complete.PredictFiles("*.pem"),
		})
	}

	if f != nil {
		// Configure our values
		f(set)
	}

	return set
}

// Returns minimal help usage message
// Used on flag/arg parse error in c.Init method
func (c *baseCommand) helpUsageMessage() string {
	if c.cmdKey == "" {
		return `See "chamber --help"`
	}
	return fmt.Sprintf(`See "chamber %s --help"`, c.cmdKey)
}

// flagSetBit is used with baseCommand.flagSet
type flagSetBit uint

const (
	flagSetNone       flagSetBit = 1 << iota // nolint:deadcode,varcheck,unused
	flagSetResolution                        // shared flags selecting and decrypting settings files
	flagSetEncryption                        // adds the encryption key flag for commands that write envelopes
)

var (
	// ErrSentinel is a sentinel value that we can return from Init to force an exit.
	ErrSentinel = errors.New("error sentinel")

	// ErrParsingArgsOrFlags should be used in the Init method of a CLI command
	// if it returns an error.
	ErrParsingArgsOrFlags = "error parsing args or flags"
)
