package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// LoadScript reads a tengo script, preferring the working tree so edits are
// picked up by hot reload, and falling back to the embedded copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := readDisk(name, diskPrefabPath(clean)); err == nil {
		return data, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := readDisk(name, diskPrefabPath(clean)); err == nil {
		return data, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return PrefabsFS.ReadFile(clean)
}

// readDisk tries the path as given and then its location under prefabs/.
func readDisk(raw, underPrefabs string) ([]byte, error) {
	if raw != "" && filepath.IsAbs(raw) {
		return os.ReadFile(raw)
	}
	data, err := os.ReadFile(underPrefabs)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	if raw == "" {
		return nil, err
	}
	return os.ReadFile(raw)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(filepath.Clean(path))
	if i := strings.LastIndex(s, "prefabs/"); i >= 0 {
		return s[i+len("prefabs/"):]
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(filepath.Clean(path))

	if i := strings.LastIndex(s, "scripts/"); i >= 0 {
		s = s[i+len("scripts/"):]
	} else if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
