package cli

import (
	"fmt"
	"sort"

	"github.com/posener/complete"

	"github.com/fr2019/chamber/internal/pkg/errors"
	"github.com/fr2019/chamber/internal/pkg/flag"
)

// SecureCommand encrypts the plaintext values of the selected settings files
// in place.
type SecureCommand struct {
	*baseCommand
}

func (c *SecureCommand) Run(args []string) int {
	c.cmdKey = "secure"
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

	reports, err := files.SecureAll()

	paths := make([]string, 0, len(reports))
	for path := range reports {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		report := reports[path]
		for _, key := range report.Secured {
			c.ui.Success(fmt.Sprintf("secured %s: %s", path, key))
		}
		for _, warning := range report.Warnings {
			warnContext := errorContext.Copy()
			warnContext.Add(errors.UIContextPrefixSettingsFile, path)
			warnContext.Add(errors.UIContextPrefixSettingKey, warning.Key)
			c.ui.ErrorWithContext(warning.Err, "could not secure value", warnContext.GetAll()...)
		}
		if !report.Changed && len(report.Warnings) == 0 {
			c.ui.Info(fmt.Sprintf("%s: nothing to secure", path))
		}
	}

	if err != nil {
		c.ui.ErrorWithContext(err, "failed to secure settings files", errorContext.GetAll()...)
		return 1
	}
	return 0
}

func (c *SecureCommand) Flags() *flag.Sets {
	return c.flagSet(flagSetResolution|flagSetEncryption, nil)
}

func (c *SecureCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *SecureCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *SecureCommand) Synopsis() string {
	return "Encrypt plaintext values in place"
}

func (c *SecureCommand) Help() string {
	c.Example = `
	# Encrypt every plaintext value under ./settings
	chamber secure -f settings --encryption-key key.pub.pem
	`
	return formatHelp(fmt.Sprintf(`
Usage: chamber secure [options]

  Rewrite the selected settings files so every plaintext value is stored as
  an encryption envelope under a marker-prefixed key. Only the affected
  entries change; comments, ordering and all other bytes are preserved, and
  running the command again is a no-op.

%s

%s
`, c.GetExample(), c.Flags().Help()))
}
