package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ReadsExistingSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ts")
	if err := os.WriteFile(good, []byte("export class Foo {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files := Load([]string{good, filepath.Join(dir, "missing.ts")}, 1024)

	if len(files) != 1 {
		t.Fatalf("expected 1 loaded file, got %d", len(files))
	}
	if files[0].Path != good || files[0].Content != "export class Foo {}\n" {
		t.Errorf("loaded file = %+v", files[0])
	}
	if files[0].Truncated {
		t.Error("small file flagged as truncated")
	}
}

func TestLoad_TruncatesOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.ts")
	content := strings.Repeat("x", 200)
	if err := os.WriteFile(big, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	files := Load([]string{big}, 50)

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	f := files[0]
	if !f.Truncated {
		t.Error("oversized file not flagged as truncated")
	}
	if !strings.HasSuffix(f.Content, TruncationMarker) {
		t.Error("truncation marker missing")
	}
	if want := 50 + len(TruncationMarker); len(f.Content) != want {
		t.Errorf("payload length %d, want %d", len(f.Content), want)
	}
}

func TestLoad_PreservesRankedOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.ts", "a.ts", "b.ts"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	files := Load(paths, 1024)
	for i, p := range paths {
		if files[i].Path != p {
			t.Errorf("position %d = %s, want %s", i, files[i].Path, p)
		}
	}
}
