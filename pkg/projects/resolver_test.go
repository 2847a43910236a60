package projects

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/Users/jo/work/app", "-Users-jo-work-app"},
		{"/home/dev/Foo-Bar", "-home-dev-Foo-Bar"},
		{"/", "-"},
	}

	for _, tt := range tests {
		if got := Encode(tt.path); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveFromIndex(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "claude.json")
	content := `{"projects":{"/Users/jo/work/Foo-Bar":{"allowedTools":[]},"/Users/jo/work/app":{}}}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver()
	if err := r.LoadIndex(configPath); err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if r.IndexSize() != 2 {
		t.Fatalf("IndexSize() = %d, want 2", r.IndexSize())
	}

	// The index resolves the ambiguous dashed name without touching the
	// filesystem; no directory named Foo-Bar exists anywhere here.
	dir := r.Resolve("-Users-jo-work-Foo-Bar")
	if dir.ResolvedPath != "/Users/jo/work/Foo-Bar" {
		t.Errorf("ResolvedPath = %q, want /Users/jo/work/Foo-Bar", dir.ResolvedPath)
	}
	if dir.Method != MethodIndex {
		t.Errorf("Method = %v, want index", dir.Method)
	}
}

func TestLoadIndexMissingFile(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	if err := r.LoadIndex(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Errorf("LoadIndex() error = %v, want nil for missing file", err)
	}
	if r.IndexSize() != 0 {
		t.Errorf("IndexSize() = %d, want 0", r.IndexSize())
	}
}

func TestLoadIndexBadJSON(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "claude.json")
	if err := os.WriteFile(configPath, []byte(`{broken`), 0600); err != nil {
		t.Fatal(err)
	}

	if err := NewResolver().LoadIndex(configPath); err == nil {
		t.Error("LoadIndex() expected error for unparseable file")
	}
}

func TestResolveHeuristicDashedDirectory(t *testing.T) {
	t.Parallel()

	// A real directory whose name contains the separator: the greedy
	// walk must join "Foo-Bar" back together because that directory
	// exists, while "Foo/Bar" does not.
	base := t.TempDir()
	target := filepath.Join(base, "Foo-Bar")
	if err := os.MkdirAll(target, 0750); err != nil {
		t.Fatal(err)
	}

	dir := NewResolver().Resolve(Encode(target))
	if dir.ResolvedPath != target {
		t.Errorf("ResolvedPath = %q, want %q", dir.ResolvedPath, target)
	}
	if dir.Method != MethodHeuristic {
		t.Errorf("Method = %v, want heuristic", dir.Method)
	}
}

func TestResolveHeuristicNestedDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	target := filepath.Join(base, "work", "app")
	if err := os.MkdirAll(target, 0750); err != nil {
		t.Fatal(err)
	}

	dir := NewResolver().Resolve(Encode(target))
	if dir.ResolvedPath != target {
		t.Errorf("ResolvedPath = %q, want %q", dir.ResolvedPath, target)
	}
}

func TestResolveHeuristicPrefersLongestJoin(t *testing.T) {
	t.Parallel()

	// Both "my" and "my-app-v2" exist; the longest join that names a
	// real directory wins over a shorter partial join.
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "my"), 0750); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(base, "my-app-v2")
	if err := os.MkdirAll(target, 0750); err != nil {
		t.Fatal(err)
	}

	dir := NewResolver().Resolve(Encode(target))
	if dir.ResolvedPath != target {
		t.Errorf("ResolvedPath = %q, want %q", dir.ResolvedPath, target)
	}
}

func TestResolveHeuristicNonexistentFallsBackLiteral(t *testing.T) {
	t.Parallel()

	// Nothing on disk matches; each segment stands literally and the
	// result is a plausible path for the caller's existence check.
	dir := NewResolver().Resolve("-no-such-root-anywhere")
	if dir.ResolvedPath == "" {
		t.Fatal("ResolvedPath empty, want literal reconstruction")
	}
	if dir.Method != MethodHeuristic {
		t.Errorf("Method = %v, want heuristic", dir.Method)
	}
}

func TestResolveCaches(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	first := r.Resolve("-tmp-cache-check")
	second := r.Resolve("-tmp-cache-check")
	if first != second {
		t.Errorf("Resolve() not stable: %+v != %+v", first, second)
	}
}

func TestEncodeResolveRoundTrip(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	target := filepath.Join(base, "proj-with-dash")
	if err := os.MkdirAll(target, 0750); err != nil {
		t.Fatal(err)
	}

	encoded := Encode(target)
	dir := NewResolver().Resolve(encoded)
	if got := Encode(dir.ResolvedPath); got != encoded {
		t.Errorf("Encode(Resolve(%q)) = %q, want %q", encoded, got, encoded)
	}
}
