package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const DefaultPath = "logs/sandbox.log"

// Logger is the diagnostics capability handed to components that report.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Discard drops everything; tests and optional collaborators use it.
var Discard Logger = log.New(io.Discard, "", 0)

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard
	}
	return l
}

// New builds a logger writing to stdout and to the file at path, creating
// parent directories as needed. An empty path logs to stdout only. The
// returned closer releases the file.
func New(path string) (*log.Logger, io.Closer, error) {
	flags := log.LstdFlags | log.Lmicroseconds
	if path == "" {
		return log.New(os.Stdout, "", flags), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: create dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return log.New(io.MultiWriter(os.Stdout, f), "", flags), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
