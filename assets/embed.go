package assets

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed models/*.gltf
var assetsFS embed.FS

// LoadFile reads an asset from disk, falling back to the embedded copy under
// the assets-relative path when no such file exists on disk.
func LoadFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	embedded, embErr := assetsFS.ReadFile(cleanAssetPath(p))
	if embErr != nil {
		return nil, err
	}
	return embedded, nil
}

// EmbeddedModels lists the assets-relative paths of the bundled models.
func EmbeddedModels() ([]string, error) {
	entries, err := fs.ReadDir(assetsFS, "models")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, path.Join("assets", "models", e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		s := filepath.ToSlash(p)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(p)
	}
	s := path.Clean(filepath.ToSlash(p))
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
