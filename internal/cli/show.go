package cli

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/posener/complete"
	"gopkg.in/yaml.v3"

	"github.com/fr2019/chamber/internal/pkg/errors"
	"github.com/fr2019/chamber/internal/pkg/flag"
)

// ShowCommand resolves the requested settings files and prints the merged
// tree.
type ShowCommand struct {
	*baseCommand

	onlySecure   bool
	onlyInsecure bool
	flatten      bool
}

func (c *ShowCommand) Run(args []string) int {
	c.cmdKey = "show"
	flagSet := c.Flags()

	if err := c.Init(WithNoArgs(args), WithFlags(flagSet)); err != nil {
		c.ui.ErrorWithContext(err, ErrParsingArgsOrFlags)
		c.ui.Info(c.helpUsageMessage())
		return 1
	}

	if c.onlySecure && c.onlyInsecure {
		c.ui.Error("--only-secure and --only-insecure are mutually exclusive")
		c.ui.Info(c.helpUsageMessage())
		return 1
	}

	files, errorContext, err := buildFileSet(c.baseCommand)
	if err != nil {
		c.ui.ErrorWithContext(err, "failed to resolve settings files", errorContext.GetAll()...)
		return 1
	}

	tree, report, err := files.ToTree(nil)
	if err != nil {
		c.ui.ErrorWithContext(err, "failed to read settings files", errorContext.GetAll()...)
		return 1
	}
	for _, warning := range report.Warnings {
		c.ui.Warning(warning)
	}
	exitCode := 0
	var merr *multierror.Error
	if errors.As(report.Err(), &merr) {
		for _, wrapped := range errors.MultiErrorToWrappedUIContext(merr, "failed to decode settings file", errorContext) {
			c.ui.ErrorWithContext(wrapped.Err, wrapped.Subject, wrapped.Context.GetAll()...)
		}
		exitCode = 1
	}

	switch {
	case c.onlySecure:
		tree = tree.SecureView()
	case c.onlyInsecure:
		tree = tree.InsecureView()
	}

	if c.flatten {
		for _, leaf := range tree.Flatten() {
			c.ui.Output(fmt.Sprintf("%s=%v", leaf.Name(), leaf.Value))
		}
		return exitCode
	}

	if tree.IsEmpty() {
		c.ui.Output("{}")
		return exitCode
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		c.ui.ErrorWithContext(err, "failed to render settings", errorContext.GetAll()...)
		return 1
	}
	c.ui.Output(string(out))
	return exitCode
}

func (c *ShowCommand) Flags() *flag.Sets {
	return c.flagSet(flagSetResolution, func(set *flag.Sets) {
		f := set.NewSet("Show Options")

		f.BoolVar(&flag.BoolVar{
			Name:    "only-secure",
			Target:  &c.onlySecure,
			Default: false,
			Usage: `Show only the values that were marked secure, keeping the
					keys above them.`,
		})

		f.BoolVar(&flag.BoolVar{
			Name:    "only-insecure",
			Target:  &c.onlyInsecure,
			Default: false,
			Usage:   `Show only the values that were not marked secure.`,
		})

		f.BoolVar(&flag.BoolVar{
			Name:    "flatten",
			Target:  &c.flatten,
			Default: false,
			Usage: `Print one dotted key-path per line instead of a YAML
					document.`,
		})
	})
}

func (c *ShowCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *ShowCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *ShowCommand) Synopsis() string {
	return "Resolve and print the merged settings"
}

func (c *ShowCommand) Help() string {
	c.Example = `
	# Resolve ./settings with two namespaces, most specific last
	chamber show -f settings -n production -n eu-west

	# Show only secure values, decrypted with the given key
	chamber show -f settings --only-secure --decryption-key key.pem

	# One key per line, for shells
	chamber show -f settings --flatten
	`
	return formatHelp(fmt.Sprintf(`
Usage: chamber show [options]

  Resolve the requested settings files into one merged tree and print it as
  YAML. Namespaced files override non-namespaced ones, later namespaces
  override earlier ones, and secure values are decrypted when a decryption
  key is available.

%s

%s
`, c.GetExample(), c.Flags().Help()))
}
