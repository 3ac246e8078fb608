package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/ax/packages/core/collection"
	"github.com/abdul-hamid-achik/ax/packages/import/curl"
	"github.com/abdul-hamid-achik/ax/packages/output"
	"github.com/spf13/cobra"
)

var (
	importOutputFlag string
	importPrintFlag  []string
)

var importCmd = &cobra.Command{
	Use:   "import <format> <source>",
	Short: "Import requests from other tools",
	Long: `Import requests from other formats and convert them to an ax collection.

Supported formats:
  curl - curl command lines

Examples:
  ax import curl requests.sh -o collection.json
  ax import curl "curl -X POST https://httpbin.org/post -d '{\"a\":1}'"`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl <file|command>",
	Short: "Import from curl commands",
	Long: `Convert curl commands to an ax collection.

The source is either a file with one curl command per line (backslash line
continuations and # comments are allowed) or a single curl command.

Examples:
  ax import curl requests.sh
  ax import curl requests.sh -o collection.json --print status_code,headers`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: importCurlCommand,
}

func init() {
	importCurlCmd.Flags().StringVarP(&importOutputFlag, "output", "o", "", "Output file path (default: stdout)")
	importCurlCmd.Flags().StringSliceVar(&importPrintFlag, "print", []string{string(output.FieldStatusCode), string(output.FieldBody)},
		"Fields each entry prints: "+strings.Join(output.Selectors(), ", "))

	importCmd.AddCommand(importCurlCmd)
	rootCmd.AddCommand(importCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	if _, err := output.ParseFields(importPrintFlag); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	converter := curl.NewConverter(curl.WithPrint(importPrintFlag))
	source := args[0]

	var entries []*collection.Entry
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		entries, err = converter.ConvertFile(source)
		if err != nil {
			return fmt.Errorf("failed to convert curl commands: %w", err)
		}
	} else {
		entry, err := converter.ConvertCommand(source)
		if err != nil {
			return fmt.Errorf("failed to convert curl command: %w", err)
		}
		entries = []*collection.Entry{entry}
	}

	var buf bytes.Buffer
	if err := curl.WriteCollection(&buf, entries); err != nil {
		return err
	}

	if importOutputFlag == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if dir := filepath.Dir(importOutputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(importOutputFlag, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s to %s\n", len(entries), plural(len(entries), "request", "requests"), importOutputFlag)

	return nil
}
