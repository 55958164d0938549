package cli

import (
	"fmt"
	"sort"

	"github.com/posener/complete"

	"github.com/fr2019/chamber/internal/pkg/flag"
	"github.com/fr2019/chamber/internal/pkg/signer"
	"github.com/fr2019/chamber/terminal"
)

// VerifyCommand checks every selected settings file against its signature
// sidecar.
type VerifyCommand struct {
	*baseCommand
}

func (c *VerifyCommand) Run(args []string) int {
	c.cmdKey = "verify"
	flagSet := c.Flags()

	if err := c.Init(WithNoArgs(args), WithFlags(flagSet)); err != nil {
		c.ui.ErrorWithContext(err, ErrParsingArgsOrFlags)
		c.ui.Info(c.helpUsageMessage())
		return 1
	}

	files, errorContext, err := buildFileSet(c.baseCommand)
	if err != nil {
		c.ui.ErrorWithContext(err, "failed to resolve settings files", errorContext.GetAll()...)
		return 1
	}

	results, err := files.VerifyAll()
	if err != nil {
		c.ui.ErrorWithContext(err, "failed to verify settings files", errorContext.GetAll()...)
		return 1
	}

	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	table := terminal.NewTable("File", "Signature")
	exitCode := 0
	for _, path := range paths {
		result := results[path]
		table.Rows = append(table.Rows, []string{path, result.String()})
		if result != signer.Match {
			exitCode = 1
		}
	}
	c.ui.Table(table)

	return exitCode
}

func (c *VerifyCommand) Flags() *flag.Sets {
	return c.flagSet(flagSetResolution, nil)
}

func (c *VerifyCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *VerifyCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *VerifyCommand) Synopsis() string {
	return "Check settings files against their signature sidecars"
}

func (c *VerifyCommand) Help() string {
	c.Example = `
	# Verify every file under ./settings
	chamber verify -f settings --decryption-key key.pem
	`
	return formatHelp(fmt.Sprintf(`
Usage: chamber verify [options]

  Verify the current bytes of every selected settings file against its .sig
  sidecar. A tampered file or a missing sidecar is reported per file and
  the command exits non-zero, but verification still runs over the whole
  set.

%s

%s
`, c.GetExample(), c.Flags().Help()))
}
