package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFilesWritesAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")
	if err := SafeWriteFiles([]PendingFile{{Path: a, Data: []byte("A")}, {Path: b, Data: []byte("B")}}); err != nil {
		t.Fatalf("SafeWriteFiles: %v", err)
	}
	for path, want := range map[string]string{a: "A", b: "B"} {
		got, err := os.ReadFile(path)
		if err != nil || string(got) != want {
			t.Fatalf("%s = %q (%v), want %q", path, got, err, want)
		}
	}
}

func TestSafeWriteFilesDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")
	if err := os.WriteFile(a, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(b, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFiles([]PendingFile{{Path: a, Data: []byte("new")}, {Path: b, Data: []byte("B")}}); err == nil {
		t.Fatalf("expected error for directory target")
	}
	if got, _ := os.ReadFile(a); string(got) != "old" {
		t.Fatalf("first file should be untouched, got %q", got)
	}
	if _, err := os.Stat(a + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed")
	}
}

func TestRemoveStaleMissingFile(t *testing.T) {
	if err := RemoveStale(filepath.Join(t.TempDir(), "gone.html")); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
}
