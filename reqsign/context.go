package reqsign

import (
	"context"
	"net/http"
	"time"
)

// FileReader is the sole file-system capability the core may use. Path is
// an already-expanded, absolute path.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// HTTPSender is the sole network capability the core may use.
type HTTPSender interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// EnvSource is the sole environment/home-directory capability the core may
// use.
type EnvSource interface {
	// Lookup returns the value of name and whether it was set.
	Lookup(name string) (string, bool)
	// Environ returns a full name->value mapping.
	Environ() map[string]string
	// HomeDir returns the resolved home directory, if known.
	HomeDir() (string, bool)
}

// Context bundles the three capabilities every provider and signer needs
// (file reader, HTTP sender, environment), plus a clock. It is immutable after construction; WithXxx methods return
// a shallow copy with one field replaced, matching reqsign_core::Context's
// fluent builder shape.
type Context struct {
	fileReader FileReader
	httpSender HTTPSender
	env        EnvSource
	clock      func() time.Time
}

// New creates a Context from the two mandatory capabilities. The
// environment defaults to OSEnv{} and the clock to time.Now; both can be
// replaced with WithEnv/WithClock, which is the only seam embedders need
// for deterministic tests.
func New(fr FileReader, hs HTTPSender) *Context {
	return &Context{
		fileReader: fr,
		httpSender: hs,
		env:        OSEnv{},
		clock:      time.Now,
	}
}

// WithEnv returns a copy of c using env instead of its current EnvSource.
func (c *Context) WithEnv(env EnvSource) *Context {
	cp := *c
	cp.env = env
	return &cp
}

// WithFileReader returns a copy of c using fr instead of its current
// FileReader.
func (c *Context) WithFileReader(fr FileReader) *Context {
	cp := *c
	cp.fileReader = fr
	return &cp
}

// WithHTTPSender returns a copy of c using hs instead of its current
// HTTPSender.
func (c *Context) WithHTTPSender(hs HTTPSender) *Context {
	cp := *c
	cp.httpSender = hs
	return &cp
}

// WithClock returns a copy of c using now instead of its current clock.
// Embedders that need byte-identical canonical-test-vector reproduction
// must freeze the clock with this.
func (c *Context) WithClock(now func() time.Time) *Context {
	cp := *c
	cp.clock = now
	return &cp
}

// FileRead reads path through the configured FileReader.
func (c *Context) FileRead(ctx context.Context, path string) ([]byte, error) {
	return c.fileReader.ReadFile(ctx, path)
}

// HTTPSend sends req through the configured HTTPSender.
func (c *Context) HTTPSend(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpSender.Send(ctx, req)
}

// EnvVar returns the value of name and whether it was present.
func (c *Context) EnvVar(name string) (string, bool) {
	return c.env.Lookup(name)
}

// EnvVars returns the full environment mapping.
func (c *Context) EnvVars() map[string]string {
	return c.env.Environ()
}

// ExpandHomeDir replaces a leading "~" in path with the resolved home
// directory. It returns the unmodified path when there is no leading "~",
// and (path, false) is never returned for that case -- absence is only
// signalled when a "~" path is requested but no home directory is known.
func (c *Context) ExpandHomeDir(path string) (string, bool) {
	if len(path) == 0 || path[0] != '~' {
		return path, true
	}
	home, ok := c.env.HomeDir()
	if !ok {
		return "", false
	}
	return home + path[1:], true
}

// Now returns the current time per the Context's clock.
func (c *Context) Now() time.Time {
	return c.clock()
}
