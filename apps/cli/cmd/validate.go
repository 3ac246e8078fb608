package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/ax/packages/core/collection"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <collection>...",
	Short: "Validate collection files without sending requests",
	Long: `Validate collection files against the collection schema without
sending any request.

Examples:
  ax validate collection.json
  ax validate smoke.yaml regression.json`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		c, err := collection.Load(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, loadErrorDetail(err))
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d %s)\n", file, len(c.Entries), plural(len(c.Entries), "entry", "entries"))
	}

	if hasErrors {
		return withExitCode(ExitParseError, errors.New("validation failed"))
	}
	return nil
}

// loadErrorDetail returns the cause behind a collection load failure.
func loadErrorDetail(err error) error {
	var loadErr *collection.LoadError
	if errors.As(err, &loadErr) && loadErr.Err != nil {
		return loadErr.Err
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
