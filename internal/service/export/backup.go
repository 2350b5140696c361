package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BackupDir writes transcript documents as append-only files in a local
// directory, the durability guarantee of last resort.
type BackupDir struct {
	dir string
}

// NewBackupDir binds the writer to a directory.
func NewBackupDir(dir string) *BackupDir {
	return &BackupDir{dir: dir}
}

// Dir returns the backing directory path.
func (b *BackupDir) Dir() string {
	return b.dir
}

// Write persists the raw document under the given name, pretty-printed with
// a trailing newline. Files are created once and never rewritten.
func (b *BackupDir) Write(name string, raw []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	body, err := FormatDocument(raw)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(b.dir, name), body, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// List enumerates backup files in the directory, sorted by name.
func (b *BackupDir) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), backupFileExt) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the contents of one backup file.
func (b *BackupDir) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.dir, name))
}
