// Package curl converts curl command lines into ax collection entries.
package curl

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/ax/packages/core/collection"
	"github.com/abdul-hamid-achik/ax/packages/output"
)

// Converter converts curl commands to collection entries.
type Converter struct {
	print []string
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithPrint sets the print selectors given to every converted entry.
func WithPrint(selectors []string) Option {
	return func(c *Converter) {
		c.print = selectors
	}
}

// NewConverter creates a new curl converter. Entries print the status code
// and body unless WithPrint says otherwise.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		print: []string{string(output.FieldStatusCode), string(output.FieldBody)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method string
	URL    string
	// Headers keep command line order as raw "Name: Value" strings.
	Headers   []string
	Body      string
	HasBody   bool
	BasicAuth string
	JSON      bool
	Name      string
}

// ConvertCommand converts a single curl command to a collection entry.
func (c *Converter) ConvertCommand(curlCmd string) (*collection.Entry, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return c.ToEntry(parsed), nil
}

// ConvertFile converts a file containing curl commands, one per line with
// backslash continuations, to collection entries in file order.
func (c *Converter) ConvertFile(path string) ([]*collection.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return c.ConvertReader(file)
}

// ConvertReader is ConvertFile for an already open source.
func (c *Converter) ConvertReader(r io.Reader) ([]*collection.Entry, error) {
	var commands []string
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		commands = append(commands, currentCmd.String())
		currentCmd.Reset()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if currentCmd.Len() > 0 {
		commands = append(commands, currentCmd.String())
	}

	entries := make([]*collection.Entry, 0, len(commands))
	seen := make(map[string]int)
	for i, cmd := range commands {
		entry, err := c.ConvertCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to convert command %d: %w", i+1, err)
		}
		seen[entry.Name]++
		if n := seen[entry.Name]; n > 1 {
			entry.Name += "_" + strconv.Itoa(n)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{Method: "GET"}
	explicitMethod := false
	var data []string

	curlCmd = strings.TrimSpace(curlCmd)
	if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}
	curlCmd = strings.TrimPrefix(curlCmd, "curl ")

	tokens := tokenize(curlCmd)

	value := func(i int) (string, error) {
		if i+1 < len(tokens) {
			return tokens[i+1], nil
		}
		return "", fmt.Errorf("missing value for %s", tokens[i])
	}

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Method = strings.ToUpper(v)
			explicitMethod = true
			i += 2

		case "-H", "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if name, val, ok := strings.Cut(v, ":"); ok {
				parsed.Headers = append(parsed.Headers, strings.TrimSpace(name)+": "+strings.TrimSpace(val))
			}
			i += 2

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii", "--data-urlencode":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			data = append(data, v)
			i += 2

		case "--json":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			data = append(data, v)
			parsed.JSON = true
			i += 2

		case "-u", "--user":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v
			i += 2

		case "-A", "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "User-Agent: "+v)
			i += 2

		case "-e", "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "Referer: "+v)
			i += 2

		case "-b", "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "Cookie: "+v)
			i += 2

		case "-I", "--head":
			parsed.Method = "HEAD"
			explicitMethod = true
			i++

		case "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i += 2

		default:
			if strings.HasPrefix(token, "-") {
				// Skip unknown flags with potential values
				if switches[token] {
					i++
				} else if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i += 2
				} else {
					i++
				}
				continue
			}
			if parsed.URL == "" {
				parsed.URL = token
			}
			i++
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	if len(data) > 0 {
		parsed.Body = strings.Join(data, "&")
		parsed.HasBody = true
		if !explicitMethod {
			parsed.Method = "POST"
		}
	}

	parsed.Name = generateName(parsed.URL, parsed.Method)

	return parsed, nil
}

// ToEntry converts a ParsedCurl to a collection entry. A body that is valid
// JSON is kept as JSON; anything else becomes a JSON string.
func (c *Converter) ToEntry(parsed *ParsedCurl) *collection.Entry {
	entry := &collection.Entry{
		Name:    parsed.Name,
		URL:     parsed.URL,
		Method:  parsed.Method,
		Headers: append([]string{}, parsed.Headers...),
		JSON:    parsed.JSON,
		Print:   append([]string{}, c.print...),
	}

	if parsed.BasicAuth != "" {
		creds := parsed.BasicAuth
		if !strings.Contains(creds, ":") {
			creds += ":"
		}
		entry.Headers = append(entry.Headers, "Authorization: Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	}

	if parsed.HasBody {
		if json.Valid([]byte(parsed.Body)) {
			entry.Data = json.RawMessage(parsed.Body)
		} else {
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetEscapeHTML(false)
			// Encoding a string never fails.
			_ = enc.Encode(parsed.Body)
			entry.Data = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
		}
	}

	return entry
}

// WriteCollection writes entries as an indented JSON array collection.
func WriteCollection(w io.Writer, entries []*collection.Entry) error {
	if entries == nil {
		entries = []*collection.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false
	quoted := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
				quoted = true
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
				quoted = true
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// switches are curl flags that never take a value.
var switches = map[string]bool{
	"-s": true, "--silent": true,
	"-S": true, "--show-error": true,
	"-k": true, "--insecure": true,
	"-L": true, "--location": true,
	"-v": true, "--verbose": true,
	"-i": true, "--include": true,
	"-f": true, "--fail": true,
	"-g": true, "--globoff": true,
	"--compressed": true,
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var urlPathPattern = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.-]*://)?[^/?#]+(/[^?#]*)?`)

var nonIdentifier = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// generateName generates an entry name from the URL path and method,
// e.g. "post_api_users".
func generateName(url, method string) string {
	path := "/"
	if matches := urlPathPattern.FindStringSubmatch(url); len(matches) > 1 && matches[1] != "" {
		path = matches[1]
	}

	path = strings.Trim(nonIdentifier.ReplaceAllString(path, "_"), "_")
	if path == "" {
		path = "root"
	}

	return strings.ToLower(method) + "_" + strings.ToLower(path)
}
