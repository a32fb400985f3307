package reqsign

import (
	"context"
	"fmt"
)

// StaticFileReader is an in-memory FileReader keyed by path, used by tests
// across every provider package that reads a profile/key file without
// touching the real filesystem.
type StaticFileReader struct {
	Files map[string][]byte
}

// NewStaticFileReader builds a StaticFileReader from a path->content map.
func NewStaticFileReader(files map[string][]byte) StaticFileReader {
	return StaticFileReader{Files: files}
}

// ReadFile implements FileReader.
func (r StaticFileReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	content, ok := r.Files[path]
	if !ok {
		return nil, fmt.Errorf("static file reader: no file at %q", path)
	}
	return content, nil
}
