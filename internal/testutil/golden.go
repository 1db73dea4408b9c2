package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// EnvGoldenUpdate, when set, makes golden comparisons rewrite testdata
// instead of checking it.
const EnvGoldenUpdate = "GOLDEN_UPDATE"

// Golden compares got with testdata/<name>.golden of the calling package.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(EnvGoldenUpdate) != "" {
		writeGolden(t, path, got)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s (run with %s=1 to create it): %v", path, EnvGoldenUpdate, err)
	}
	if bytes.Equal(got, want) {
		return
	}

	line, wantLine, gotLine := firstDiff(want, got)
	t.Errorf("%s differs at line %d\nwant: %q\ngot:  %q\n\nfull output:\n%s", path, line, wantLine, gotLine, got)
}

// GoldenString is Golden for string output such as formatted task lists.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

func writeGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create testdata dir: %v", err)
	}
	if err := os.WriteFile(path, got, 0644); err != nil {
		t.Fatalf("failed to update %s: %v", path, err)
	}
}

// firstDiff returns the 1-based number of the first line that differs, and
// that line from each side. A missing line is reported as empty.
func firstDiff(want, got []byte) (int, string, string) {
	w := bytes.Split(want, []byte("\n"))
	g := bytes.Split(got, []byte("\n"))
	for i := 0; i < max(len(w), len(g)); i++ {
		var wl, gl []byte
		if i < len(w) {
			wl = w[i]
		}
		if i < len(g) {
			gl = g[i]
		}
		if !bytes.Equal(wl, gl) {
			return i + 1, string(wl), string(gl)
		}
	}
	return 0, "", ""
}
