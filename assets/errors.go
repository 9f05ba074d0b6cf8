package assets

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("assets: unsupported mesh format")
	ErrEmptyFile         = errors.New("assets: file is empty")
	ErrInvalidDocument   = errors.New("assets: invalid glTF document")
	ErrNoMeshes          = errors.New("assets: document has no meshes")
)

// ResourceError reports a mesh that could not be loaded. It is never fatal;
// the caller ends up without a mesh.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("load mesh %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func resourceError(path string, err error) *ResourceError {
	return &ResourceError{Path: path, Err: err}
}
