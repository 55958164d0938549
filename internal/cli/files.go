package cli

import (
	"fmt"
	"path/filepath"

	"github.com/posener/complete"

	"github.com/fr2019/chamber/internal/pkg/flag"
	"github.com/fr2019/chamber/internal/pkg/sourcefile"
)

// FilesCommand prints the settings files a resolution request selects, in
// the order their values are folded together.
type FilesCommand struct {
	*baseCommand
}

func (c *FilesCommand) Run(args []string) int {
	c.cmdKey = "files"
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

	rows := []string{"File|Namespace|Modified"}
	for _, path := range files.Paths() {
		token := matchedNamespace(filepath.Base(path), c.cfg.Namespaces)

		modified := ""
		if info, err := c.fs.Stat(path); err == nil {
			modified = formatTime(info.ModTime())
		}

		rows = append(rows, fmt.Sprintf("%s|%s|%s", path, token, modified))
	}
	c.ui.Output(formatList(rows))

	return 0
}

// matchedNamespace returns the first requested namespace the file carries,
// falling back to the file's own token for files selected without one.
// Checking the request first keeps dashed namespaces intact.
func matchedNamespace(base string, namespaces []string) string {
	for _, name := range namespaces {
		if sourcefile.HasNamespace(base, name) {
			return name
		}
	}
	_, token := sourcefile.SplitNamespace(base)
	return token
}

func (c *FilesCommand) Flags() *flag.Sets {
	return c.flagSet(flagSetResolution, nil)
}

func (c *FilesCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictNothing
}

func (c *FilesCommand) AutocompleteFlags() complete.Flags {
	return c.Flags().Completions()
}

func (c *FilesCommand) Synopsis() string {
	return "List the settings files a request resolves, in merge order"
}

func (c *FilesCommand) Help() string {
	c.Example = `
	# Which files back this resolution, and in what order?
	chamber files -f settings -n production
	`
	return formatHelp(fmt.Sprintf(`
Usage: chamber files [options]

  List the settings files the given patterns and namespaces select. Files
  are listed in merge order: non-namespaced files first, then each
  namespace's files in the order the namespaces were given, so a later
  line overrides an earlier one.

%s

%s
`, c.GetExample(), c.Flags().Help()))
}
