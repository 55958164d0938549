package cli

import (
	"fmt"

	"github.com/posener/complete"

	"github.com/fr2019/chamber/internal/pkg/flag"
	"github.com/fr2019/chamber/internal/pkg/signer"
)

// SignCommand writes a signature sidecar for every selected settings file.
type SignCommand struct {
	*baseCommand
}

func (c *SignCommand) Run(args []string) int {
	c.cmdKey = "sign"
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

	if err := files.SignAll(); err != nil {
		c.ui.ErrorWithContext(err, "failed to sign settings files", errorContext.GetAll()...)
		return 1
	}

	for _, path := range files.Paths() {
		c.ui.Success(fmt.Sprintf("signed %s", signer.SidecarPath(path)))
	}
	return 0
}

func (c *SignCommand) Flags() *flag.Sets {
	return c.flagSet(flagSetResolution, nil)
}

func (c *SignCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *SignCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *SignCommand) Synopsis() string {
	return "Write signature sidecars for the selected settings files"
}

func (c *SignCommand) Help() string {
	c.Example = `
	# Sign every file under ./settings with the private key
	chamber sign -f settings --decryption-key key.pem
	`
	return formatHelp(fmt.Sprintf(`
Usage: chamber sign [options]

  Sign the current bytes of every selected settings file with the private
  key, writing each signature to a .sig sidecar next to the file. Verify
  the sidecars later with "chamber verify".

%s

%s
`, c.GetExample(), c.Flags().Help()))
}
