// Package console implements the sockhttp command: it queries a URL with
// get or post and prints the response headers and body.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/adamwoolhether/sockhttp/client"
	"github.com/adamwoolhether/sockhttp/internal/validate"
)

const rule = "------------------------------"

const methodQuestion = "Method to use (get, post)"

var (
	ErrNoMethod     = errors.New("no method given")
	ErrDownloadPost = errors.New("downloads use get; --method post and --data cannot be combined with --download-dir or --output")
)

// Input is the validated form of the command line.
type Input struct {
	URL    string `json:"url" validate:"required,url"`
	Method string `json:"method" validate:"required,oneof=get post"`

	Data        string
	ContentType string
	Headers     []string

	Timeout      time.Duration
	Compressed   bool
	MaxRedirects int
	MaxRetries   int

	DownloadDir string
	Output      string
	Verbose     bool
}

// Terminal holds the streams the command talks to.
type Terminal struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run parses args, asks for the method when none was given and runs the
// request. Logs go to t.Err.
func Run(ctx context.Context, args []string, t Terminal) error {
	in, err := Parse(args, t.Err)
	if err != nil {
		return err
	}

	if in.Method == "" {
		if in.Method, err = AskMethod(t.In, t.Out); err != nil {
			return err
		}
	}

	if err := validate.Check(in); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	c, err := client.Build(
		client.WithLogger(newLogger(t.Err, in.Verbose)),
		client.WithTimeout(in.Timeout),
		client.WithMaxRedirects(in.MaxRedirects),
		client.WithMaxConnectRetries(in.MaxRetries),
	)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}
	c.SetCompression(in.Compressed)

	return Execute(ctx, c, in, t.Out)
}

// Parse maps the command line onto an Input. The URL is the single
// positional argument.
func Parse(args []string, errOut io.Writer) (Input, error) {
	in := Input{}

	fs := pflag.NewFlagSet("sockhttp", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, "Usage: sockhttp [flags] <url>")
		fs.PrintDefaults()
	}

	fs.StringVar(&in.Method, "method", "", "HTTP method to use (get, post)")
	fs.StringVarP(&in.Data, "data", "d", "", "request body sent with post")
	fs.StringVar(&in.ContentType, "content-type", "", "content type of the post body (default application/x-www-form-urlencoded)")
	fs.StringArrayVarP(&in.Headers, "header", "H", nil, `extra request header as "Name: value", repeatable`)
	fs.DurationVar(&in.Timeout, "timeout", client.DefaultTimeout, "connect and read timeout")
	fs.BoolVar(&in.Compressed, "compressed", false, "accept gzip and deflate encoded responses")
	fs.IntVar(&in.MaxRedirects, "max-redirects", client.DefaultMaxRedirects, "redirects to follow before failing")
	fs.IntVar(&in.MaxRetries, "max-retries", client.DefaultMaxConnectRetries, "retries on transient socket failures")
	fs.StringVar(&in.DownloadDir, "download-dir", "", "GET the url and save the body into this folder instead of printing it")
	fs.StringVarP(&in.Output, "output", "o", "", "file name for the GET download (default generated)")
	fs.BoolVarP(&in.Verbose, "verbose", "v", false, "log debug output")

	if err := fs.Parse(args); err != nil {
		return Input{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return Input{}, fmt.Errorf("expected exactly one url argument, got %d", fs.NArg())
	}

	in.URL = strings.TrimSpace(fs.Arg(0))
	in.Method = strings.ToLower(strings.TrimSpace(in.Method))

	return in, nil
}

// AskMethod prompts on out until a valid method is read from r.
func AskMethod(r io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "HTTP client")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Query a URL with get or post method")
	fmt.Fprintln(out)

	type answer struct {
		Method string `json:"method" validate:"required,oneof=get post"`
	}

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintf(out, "%s: ", methodQuestion)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading method: %w", err)
			}
			return "", ErrNoMethod
		}

		a := answer{Method: strings.ToLower(strings.TrimSpace(scanner.Text()))}
		if err := validate.Check(a); err != nil {
			fmt.Fprintln(out, `Method can be "get" or "post".`)
			continue
		}

		return a.Method, nil
	}
}

// Requester is the part of *client.Client the command uses.
type Requester interface {
	Get(ctx context.Context, url string) (*client.Response, error)
	Post(ctx context.Context, url string, data any, contentType string) (*client.Response, error)
	AddHeader(name, value string)
	Download(ctx context.Context, source, targetFolder, targetFileName string, opts ...client.DownloadOption) (string, error)
}

// Execute runs the request described by in and writes the result to out.
func Execute(ctx context.Context, c Requester, in Input, out io.Writer) error {
	download := in.DownloadDir != "" || in.Output != ""
	if download && (in.Method == "post" || in.Data != "") {
		return ErrDownloadPost
	}

	for _, h := range in.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		c.AddHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if download {
		path, err := c.Download(ctx, in.URL, in.DownloadDir, in.Output)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	}

	var (
		resp *client.Response
		err  error
	)
	switch in.Method {
	case "post":
		resp, err = c.Post(ctx, in.URL, in.Data, in.ContentType)
	default:
		resp, err = c.Get(ctx, in.URL)
	}
	if err != nil {
		return err
	}

	WriteResponse(out, resp)

	return nil
}

// WriteResponse prints the headers and the body framed by rules.
func WriteResponse(out io.Writer, resp *client.Response) {
	fmt.Fprintf(out, "\n%s\nResponse Headers:\n%s\n", rule, rule)
	for name, value := range resp.Header.All() {
		fmt.Fprintf(out, "%s: %s\n", name, value)
	}

	fmt.Fprintf(out, "\n%s\nResponse Body:\n%s\n", rule, rule)
	fmt.Fprintf(out, "%s\n", resp.Body)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == client.LevelCritical {
					a.Value = slog.StringValue("CRITICAL")
				}
			}
			return a
		},
	}))
}
