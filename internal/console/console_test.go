package console_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/adamwoolhether/sockhttp/internal/console"
	"github.com/adamwoolhether/sockhttp/internal/validate"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Token", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "%s:%s", r.Method, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err := console.Run(t.Context(), args, console.Terminal{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})

	return out.String(), errOut.String(), err
}

func TestRun_Get(t *testing.T) {
	srv := newServer(t)

	out, _, err := run(t, "", "--method", "get", srv.URL)
	if err != nil {
		t.Fatalf("exp err nil; got: %v", err)
	}

	for _, want := range []string{
		"------------------------------\nResponse Headers:\n------------------------------\n",
		"x-method: GET\n",
		"\n------------------------------\nResponse Body:\n------------------------------\nGET:\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_PostWithHeader(t *testing.T) {
	srv := newServer(t)

	out, _, err := run(t, "", "--method=POST", "-d", "a=1&b=2", "-H", "X-Token: abc", srv.URL)
	if err != nil {
		t.Fatalf("exp err nil; got: %v", err)
	}

	if !strings.Contains(out, "x-token: abc\n") {
		t.Errorf("header not forwarded:\n%s", out)
	}
	if !strings.HasSuffix(out, "POST:a=1&b=2\n") {
		t.Errorf("unexpected body:\n%s", out)
	}
}

func TestRun_PromptsForMethod(t *testing.T) {
	srv := newServer(t)

	out, _, err := run(t, "put\n\npost\n", srv.URL)
	if err != nil {
		t.Fatalf("exp err nil; got: %v", err)
	}

	prompt := "\nHTTP client\n\nQuery a URL with get or post method\n\n" +
		"Method to use (get, post): " + `Method can be "get" or "post".` + "\n" +
		"Method to use (get, post): " + `Method can be "get" or "post".` + "\n" +
		"Method to use (get, post): "

	if !strings.HasPrefix(out, prompt) {
		t.Errorf("unexpected prompt:\n%s", cmp.Diff(prompt, out[:min(len(out), len(prompt))]))
	}
	if !strings.HasSuffix(out, "POST:\n") {
		t.Errorf("exp post request; got:\n%s", out)
	}
}

func TestRun_PromptEOF(t *testing.T) {
	_, _, err := run(t, "delete\n", "http://127.0.0.1:1/")
	if !errors.Is(err, console.ErrNoMethod) {
		t.Errorf("exp err %v; got: %v", console.ErrNoMethod, err)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := map[string]struct {
		args  []string
		field string
	}{
		"bad url":    {args: []string{"--method", "get", "not a url"}, field: "url"},
		"bad method": {args: []string{"--method", "put", "http://example.com/"}, field: "method"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, "", tc.args...)

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("exp err %T; got: %v", fe, err)
			}
			if _, ok := fe.Fields()[tc.field]; !ok {
				t.Errorf("exp field %q in %v", tc.field, fe.Fields())
			}
		})
	}
}

func TestRun_Args(t *testing.T) {
	if _, _, err := run(t, ""); err == nil {
		t.Error("exp err for missing url; got nil")
	}

	if _, _, err := run(t, "", "--help"); !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("exp err %v; got: %v", pflag.ErrHelp, err)
	}

	if _, _, err := run(t, "", "--method", "get", "-H", "no-colon", "http://example.com/"); err == nil {
		t.Error("exp err for malformed header; got nil")
	}
}

func TestRun_Download(t *testing.T) {
	srv := newServer(t)
	dir := filepath.Join(t.TempDir(), "nested")

	out, _, err := run(t, "", "--method", "get", "--download-dir", dir, "-o", "body.txt", srv.URL)
	if err != nil {
		t.Fatalf("exp err nil; got: %v", err)
	}

	want := filepath.Join(dir, "body.txt")
	if diff := cmp.Diff(want+"\n", out); diff != "" {
		t.Errorf("printed path mismatch (-want +got):\n%s", diff)
	}

	got, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("exp err nil; got: %v", err)
	}
	if string(got) != "GET:" {
		t.Errorf("exp body %q; got: %q", "GET:", got)
	}
}

func TestRun_DownloadRejectsPost(t *testing.T) {
	srv := newServer(t)

	testCases := map[string][]string{
		"post method": {"--method", "post", "-o", "f.txt", srv.URL},
		"post data":   {"--method", "get", "-d", "a=1", "--download-dir", t.TempDir(), srv.URL},
	}

	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, "", args...)
			if !errors.Is(err, console.ErrDownloadPost) {
				t.Errorf("exp err %v; got: %v", console.ErrDownloadPost, err)
			}
		})
	}
}

func TestRun_ConnectFailureLogsCritical(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, logs, err := run(t, "", "--method", "get", "--max-retries", "0", url)
	if err == nil {
		t.Fatal("exp err for closed server; got nil")
	}
	if !strings.Contains(logs, "level=CRITICAL") {
		t.Errorf("exp critical log; got:\n%s", logs)
	}
}
