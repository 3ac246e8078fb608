package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/ax/packages/core/config"
	"github.com/abdul-hamid-achik/ax/packages/core/runner"
	"github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	methodFlag      string
	dataFlag        string
	headerFlags     []string
	jsonRequestFlag bool
	includeFlag     bool
	collectionFlag  string
	watchFlag       bool

	configFlag  string
	noColorFlag bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "ax [url]",
	Short: "A small command-line HTTP client",
	Long: `ax sends one HTTP request and prints the response, or runs a
collection file of named requests and prints the fields each one selects.

Examples:
  ax https://httpbin.org/get
  ax -i https://httpbin.org/status/404
  ax -X post -j -d '{"name":"ax"}' https://httpbin.org/post
  ax -H "Accept: text/plain" -H "X-Trace: 1" https://httpbin.org/headers
  ax -c collection.json
  ax -c collection.json --watch`,
	Args:          usageArgs(cobra.MaximumNArgs(1)),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          rootCommand,
}

// Execute runs the CLI and exits with the code matching the returned error.
func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&methodFlag, "method", "X", "GET", "HTTP method: GET, POST, PUT, DELETE or HEAD")
	flags.StringVarP(&dataFlag, "data", "d", "", "Request body, sent verbatim")
	flags.StringArrayVarP(&headerFlags, "header", "H", nil, `Request header as "Name: Value" (repeatable)`)
	flags.BoolVarP(&jsonRequestFlag, "json-request", "j", false, "Send Content-Type: application/json")
	flags.BoolVarP(&includeFlag, "include", "i", false, "Print the status line and headers before the body")
	flags.StringVarP(&collectionFlag, "collection", "c", "", "Run the requests in a collection file")
	flags.BoolVarP(&watchFlag, "watch", "w", false, "Re-run the collection whenever the file changes")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&configFlag, "config", "", "Path to config file (default: .ax.yaml in the working or home directory)")
	persistent.BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: AX_NO_COLOR)")
	persistent.BoolVarP(&verboseFlag, "verbose", "v", false, "Log request details to stderr (env: AX_VERBOSE)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func rootCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	flags := cmd.Flags()
	noColor := cfg.NoColor
	if flags.Changed("no-color") {
		noColor = noColorFlag
	}
	verbose := cfg.Verbose
	if flags.Changed("verbose") {
		verbose = verboseFlag
	}

	logger := newLogger(cmd.ErrOrStderr(), verbose)
	if cfg.File != "" {
		logger.Debug("config loaded", slog.String("path", cfg.File))
	}

	r := runner.NewRunner(&runner.Config{
		DefaultHeaders: cfg.Headers,
		NoColor:        noColor,
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		Logger:         logger,
	})

	if collectionFlag != "" {
		return runCollection(cmd.Context(), cmd, r, collectionFlag)
	}

	if len(args) == 0 {
		return withExitCode(ExitUsageError, errors.New("a URL is required unless --collection is given"))
	}
	if watchFlag {
		logger.Warn("--watch only applies to --collection, ignoring")
	}

	method := cfg.Method
	if flags.Changed("method") {
		method = methodFlag
	}

	d := &http.Descriptor{
		Method:      strings.ToUpper(method),
		URL:         args[0],
		Headers:     headerFlags,
		JSONRequest: jsonRequestFlag || cfg.JSONRequest,
	}
	if flags.Changed("data") {
		d.Body = http.StringPtr(dataFlag)
	}

	if err := r.RunRequest(cmd.Context(), d, includeFlag); err != nil {
		return withExitCode(ExitNetworkError, err)
	}
	return nil
}

func runCollection(ctx context.Context, cmd *cobra.Command, r *runner.Runner, path string) error {
	// Per-entry failures are reported on stderr and exit 0.
	if _, err := r.RunCollection(ctx, path); err != nil || !watchFlag {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	return runner.Watch(ctx, path, runner.WatchDebounceDelay, func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed, re-running...\n\n")
		_, _ = r.RunCollection(ctx, path)
	})
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return withExitCode(ExitUsageError, err)
		}
		return nil
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
