package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
// The parent directory is created if needed.
func SafeWriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PendingFile is one file of a SafeWriteFiles batch.
type PendingFile struct {
	Path string
	Data []byte
}

// SafeWriteFiles writes every file to a temp path first and only renames once
// all temp files are in place and no target is a directory. A failure before
// the renames leaves every existing target untouched.
func SafeWriteFiles(files []PendingFile) error {
	var staged []string
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}
	for _, f := range files {
		if fi, err := os.Stat(f.Path); err == nil && fi.IsDir() {
			cleanup()
			return fmt.Errorf("target %s is a directory", f.Path)
		}
		if err := EnsureDir(filepath.Dir(f.Path)); err != nil {
			cleanup()
			return fmt.Errorf("ensure dir: %w", err)
		}
		tmp := f.Path + ".tmp"
		if err := os.WriteFile(tmp, f.Data, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("write temp file: %w", err)
		}
		staged = append(staged, tmp)
	}
	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			for _, tmp := range staged[i:] {
				_ = os.Remove(tmp)
			}
			return fmt.Errorf("atomic rename %s: %w", f.Path, err)
		}
	}
	return nil
}

// RemoveStale deletes path if it exists. A missing file is not an error.
func RemoveStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale file: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
