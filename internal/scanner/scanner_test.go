package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

// fixtureDir builds a small project tree with diagram and non-diagram
// files and returns its root.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"orders.puml":                "@startuml\nclass Order\n@enduml\n",
		"docs/flow.mmd":              "sequenceDiagram\nA->>B: hi\n",
		"docs/arch.plantuml":         "@startuml\ncomponent Web\n@enduml\n",
		"README.md":                  "# not a diagram\n",
		"main.go":                    "package main\n",
		"node_modules/dep/d.puml":    "@startuml\n@enduml\n",
		"ignored/secret.puml":        "@startuml\nclass Hidden\n@enduml\n",
		".gitignore":                 "ignored/\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

func relPaths(files []FileInfo) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f.RelPath] = true
	}
	return set
}

func TestScan_DiagramFilesOnly(t *testing.T) {
	dir := fixtureDir(t)

	files, err := Scan(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	got := relPaths(files)
	for _, want := range []string{"orders.puml", "docs/flow.mmd", "docs/arch.plantuml"} {
		if !got[want] {
			t.Errorf("expected %q in scan results", want)
		}
	}
	for _, skip := range []string{"README.md", "main.go", "node_modules/dep/d.puml", "ignored/secret.puml"} {
		if got[skip] {
			t.Errorf("%q should have been skipped", skip)
		}
	}
}

func TestScan_FileInfoFields(t *testing.T) {
	dir := fixtureDir(t)

	files, err := Scan(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Scan() returned no files")
	}

	formats := map[string]string{
		"orders.puml":        "plantuml",
		"docs/arch.plantuml": "plantuml",
		"docs/flow.mmd":      "mermaid",
	}
	for _, f := range files {
		if f.Path == "" || !filepath.IsAbs(f.Path) {
			t.Errorf("FileInfo.Path for %s not absolute: %q", f.RelPath, f.Path)
		}
		if f.Size <= 0 {
			t.Errorf("FileInfo.Size for %s is %d, expected > 0", f.RelPath, f.Size)
		}
		if len(f.ContentHash) != 64 {
			t.Errorf("FileInfo.ContentHash for %s has length %d, expected 64", f.RelPath, len(f.ContentHash))
		}
		if want := formats[f.RelPath]; want != "" && f.Format != want {
			t.Errorf("FileInfo.Format for %s = %q, want %q", f.RelPath, f.Format, want)
		}
	}
}

func TestScan_IncludeExclude(t *testing.T) {
	dir := fixtureDir(t)

	files, err := Scan(Config{
		RootDir: dir,
		Include: []string{"docs/**"},
	})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	got := relPaths(files)
	if got["orders.puml"] {
		t.Error("orders.puml matched despite docs/** include")
	}
	if !got["docs/flow.mmd"] {
		t.Error("docs/flow.mmd missing with docs/** include")
	}

	files, err = Scan(Config{
		RootDir: dir,
		Exclude: []string{"**/*.mmd"},
	})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	got = relPaths(files)
	if got["docs/flow.mmd"] {
		t.Error("docs/flow.mmd not excluded by **/*.mmd")
	}
	if !got["orders.puml"] {
		t.Error("orders.puml unexpectedly excluded")
	}
}

func TestScan_MaxFileSize(t *testing.T) {
	dir := fixtureDir(t)

	files, err := Scan(Config{RootDir: dir, MaxFileSize: 10})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	for _, f := range files {
		if f.Size > 10 {
			t.Errorf("%s exceeds the size limit (%d bytes)", f.RelPath, f.Size)
		}
	}
}

func TestMatchesIncludeExclude(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"a/b/c.puml", []string{"**/*.puml"}, true},
		{"a/b/c.puml", []string{"*.puml"}, true}, // basename match
		{"a/b/c.mmd", []string{"**/*.puml"}, false},
		{"a/b/c.puml", nil, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}

	if MatchesExclude("a/b.puml", nil) {
		t.Error("empty exclude list must exclude nothing")
	}
	if !MatchesExclude("vendor/x.puml", []string{"vendor/**"}) {
		t.Error("vendor/** must exclude vendor/x.puml")
	}
}
