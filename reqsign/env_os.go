package reqsign

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

// OSEnv is the default EnvSource, backed by the real process environment
// and the real home directory. It is the only place in this module tree
// that touches os.Getenv/os.Environ/os.UserHomeDir; every other package
// depends only on the EnvSource interface.
type OSEnv struct{}

// Lookup implements EnvSource.
func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Environ implements EnvSource.
func (OSEnv) Environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[name] = value
	}
	return out
}

// HomeDir implements EnvSource.
func (OSEnv) HomeDir() (string, bool) {
	dir, err := os.UserHomeDir()
	if err != nil || dir == "" {
		return "", false
	}
	return dir, true
}

// OSFileReader is the default FileReader, backed by os.ReadFile.
type OSFileReader struct{}

// ReadFile implements FileReader.
func (OSFileReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// httpClientSender is the default HTTPSender, backed by a plain
// *http.Client with a bounded default timeout -- IMDS and STS calls are
// all small, strictly-timed exchanges (spec recommends <=1s per IMDS call).
type httpClientSender struct {
	client *http.Client
}

// NewHTTPClientSender wraps client as an HTTPSender. A nil client gets a
// fresh *http.Client with a 10s timeout.
func NewHTTPClientSender(client *http.Client) HTTPSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &httpClientSender{client: client}
}

func (s *httpClientSender) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return s.client.Do(req.WithContext(ctx))
}

// NewOSContext builds a Context wired to the real OS: os.ReadFile for
// files, a plain *http.Client for network calls, and the real process
// environment/home directory. This is the only constructor in the module
// that reaches for real OS state; everything else takes a *Context by
// value and never falls back to the OS itself.
func NewOSContext() *Context {
	return New(OSFileReader{}, NewHTTPClientSender(nil))
}
