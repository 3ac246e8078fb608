package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abdul-hamid-achik/ax/packages/core/collection"
	"github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/abdul-hamid-achik/ax/packages/output"
)

type Runner struct {
	client    *http.Client
	formatter *output.ConsoleFormatter
	config    *Config
	logger    *slog.Logger
}

type Config struct {
	// DefaultHeaders are merged after each request's own headers.
	DefaultHeaders []string
	NoColor        bool
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         *slog.Logger
	// ClientOptions configure the HTTP client, e.g. a custom transport.
	ClientOptions []http.ClientOption
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clientOpts := append([]http.ClientOption{http.WithLogger(logger)}, cfg.ClientOptions...)

	return &Runner{
		client: http.NewClient(clientOpts...),
		formatter: output.NewConsoleFormatter(
			output.WithWriter(cfg.Stdout),
			output.WithErrWriter(cfg.Stderr),
			output.WithNoColor(cfg.NoColor),
		),
		config: cfg,
		logger: logger,
	}
}

type RunResult struct {
	File     string
	Results  []*EntryResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
	// LoadError is set when the collection file could not be loaded.
	LoadError error
}

type EntryResult struct {
	Name       string
	Skipped    bool
	SkipReason string
	StatusCode int
	Duration   time.Duration
	Error      error
}

// RunRequest sends one request and prints the response, in include mode or
// body only. Unsupported methods and malformed headers are reported on stderr
// and are not errors; transport and body read failures are returned.
func (r *Runner) RunRequest(ctx context.Context, d *http.Descriptor, include bool) error {
	result := r.execute(ctx, d, output.ResponseFields(include))
	if result.Skipped {
		return nil
	}
	return result.Error
}

// RunCollection loads the collection at path and runs its entries in file
// order. A file that cannot be loaded is reported on stderr and ends the run
// without error. Per-entry validation failures skip the entry. Transport and
// body read failures are reported and counted in the result; they do not fail
// the run. Only cancellation of ctx is returned as an error.
func (r *Runner) RunCollection(ctx context.Context, path string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{File: path}

	c, err := collection.Load(path)
	if err != nil {
		r.logger.Debug("collection load failed", slog.String("path", path), slog.Any("error", errors.Unwrap(err)))
		r.formatter.FormatError(err)
		result.LoadError = err
		result.Duration = time.Since(start)
		return result, nil
	}

	r.logger.Debug("collection loaded", slog.String("path", path), slog.Int("entries", len(c.Entries)))

	for _, entry := range c.Entries {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		entryResult := r.runEntry(ctx, entry)
		result.Results = append(result.Results, entryResult)

		switch {
		case entryResult.Skipped:
			result.Skipped++
		case entryResult.Error != nil:
			result.Failed++
		default:
			result.Passed++
		}

		if c.Multiple {
			r.formatter.FormatSeparator()
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runEntry(ctx context.Context, entry *collection.Entry) *EntryResult {
	r.formatter.FormatCollectionHeader(entry.Name)

	fields, unknown := output.KnownFields(entry.Print)
	for _, s := range unknown {
		r.formatter.FormatWarning("Unknown print selector: %s", s)
	}

	d, err := entry.Descriptor()
	if err != nil {
		return r.skip(entry.Name, err)
	}

	result := r.execute(ctx, d, fields)
	result.Name = entry.Name
	if result.Error != nil && !result.Skipped {
		r.formatter.FormatError(result.Error)
	}
	return result
}

// execute runs the builder, header merge, invoker and presenter for one
// descriptor. Validation failures are reported here; transport and body read
// failures are left to the caller.
func (r *Runner) execute(ctx context.Context, d *http.Descriptor, fields []output.Field) *EntryResult {
	req, err := http.Build(d, r.config.DefaultHeaders...)
	if err != nil {
		return r.skip("", err)
	}

	start := time.Now()
	resp, err := r.client.Do(ctx, req, d.Body)
	if err != nil {
		return &EntryResult{Error: err, Duration: time.Since(start)}
	}

	result := &EntryResult{StatusCode: resp.StatusCode, Duration: resp.Duration}
	if err := r.formatter.FormatResponse(resp, fields); err != nil {
		result.Error = err
	}
	return result
}

func (r *Runner) skip(name string, err error) *EntryResult {
	r.formatter.FormatError(err)
	return &EntryResult{
		Name:       name,
		Skipped:    true,
		SkipReason: err.Error(),
		Error:      err,
	}
}
