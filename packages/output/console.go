package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/ax/packages/http"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	noColor   bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithErrWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.errWriter = w
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) bold(s string) string {
	c := color.New(color.Bold)
	if f.noColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// FormatResponse writes the selected fields of resp in order. When a field
// needs the body it is read first, so a *http.BodyReadError leaves nothing printed.
func (f *ConsoleFormatter) FormatResponse(resp *http.Response, fields []Field) error {
	var body string
	if needsBody(fields) {
		b, err := resp.BodyString()
		if err != nil {
			return err
		}
		body = b
	} else {
		defer resp.Close()
	}

	for _, field := range fields {
		switch field {
		case FieldStatusCode:
			fmt.Fprintf(f.writer, "%s %s\n", f.bold("Status Code:"), strconv.Itoa(resp.StatusCode))
		case FieldStatusText:
			fmt.Fprintf(f.writer, "%s %s\n", f.bold("Status Text:"), resp.Status)
		case FieldHeaders:
			for _, h := range resp.Headers {
				fmt.Fprintf(f.writer, "%s %s\n", f.bold(h.Name+":"), h.Value)
			}
		case FieldBody:
			fmt.Fprintf(f.writer, "%s %s\n", f.bold("Body:"), body)
		case fieldStatusLine:
			fmt.Fprintln(f.writer, resp.StatusLine())
		case fieldSeparator:
			fmt.Fprintln(f.writer)
		case fieldRawBody:
			fmt.Fprint(f.writer, body)
		}
	}
	return nil
}

// FormatCollectionHeader labels the output of one collection entry.
func (f *ConsoleFormatter) FormatCollectionHeader(name string) {
	fmt.Fprintf(f.writer, "%s %s\n\n", f.bold("Collection:"), name)
}

// FormatSeparator separates consecutive collection entries with two blank lines.
func (f *ConsoleFormatter) FormatSeparator() {
	fmt.Fprint(f.writer, "\n\n")
}

// FormatError reports an error on the error writer as a plain line.
func (f *ConsoleFormatter) FormatError(err error) {
	fmt.Fprintln(f.errWriter, err)
}

// FormatWarning reports a formatted message on the error writer.
func (f *ConsoleFormatter) FormatWarning(format string, args ...any) {
	fmt.Fprintf(f.errWriter, format+"\n", args...)
}
