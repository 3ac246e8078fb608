package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/ax/packages/core/collection"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <collection>...",
	Short: "List the requests in collection files",
	Long: `List the entries of collection files in the order they run.

Examples:
  ax list collection.json`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	for _, file := range args {
		c, err := collection.Load(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, loadErrorDetail(err))
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, entry := range c.Entries {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s %s)\n", entry.Name, strings.ToUpper(entry.Method), entry.URL)
			if len(entry.Print) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "    print: %s\n", strings.Join(entry.Print, ", "))
			}
		}
	}

	return nil
}
