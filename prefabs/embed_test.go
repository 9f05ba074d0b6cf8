package prefabs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"bob.tengo":                    "scripts/bob.tengo",
		"scripts/bob.tengo":            "scripts/bob.tengo",
		"prefabs/scripts/bob.tengo":    "scripts/bob.tengo",
		"/abs/prefabs/scripts/x.tengo": "scripts/x.tengo",
		"":                             "",
	}
	for in, want := range cases {
		if got := cleanScriptPath(in); got != want {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadScriptEmbedded(t *testing.T) {
	data, err := LoadScript("scripts/bob.tengo")
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("script is empty")
	}
	if _, err := LoadScript("scripts/missing.tengo"); err == nil {
		t.Fatalf("missing script should fail")
	}
}

func TestLoadScriptPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scripts", "bob.tengo")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("// edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadScript(p)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	if string(data) != "// edited" {
		t.Fatalf("expected the on-disk copy, got %q", data)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/sandbox.yaml", ChangeSpec, true},
		{"x.YML", ChangeSpec, true},
		{"prefabs/scripts/bob.tengo", ChangeScript, true},
		{"notes.txt", 0, false},
	}
	for _, c := range cases {
		kind, ok := classify(c.path)
		if ok != c.ok || (ok && kind != c.kind) {
			t.Fatalf("classify(%q) = %v/%v, want %v/%v", c.path, kind, ok, c.kind, c.ok)
		}
	}
}
