// Package export renders the stage to HTML and writes it to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ExportDirEnv is the env var override for the export base (for testing).
	ExportDirEnv = "MAKEBUILDER_EXPORT_DIR"
	// DefaultExportBase is the default base for exported pages, under $HOME.
	DefaultExportBase = ".makebuilder/exports"
)

// Store writes exported pages.
// Layout: ~/.makebuilder/exports/page-<id>.html
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at the user's home + DefaultExportBase,
// or at the path in MAKEBUILDER_EXPORT_DIR if set.
func NewStore() (*Store, error) {
	base := os.Getenv(ExportDirEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, DefaultExportBase)
	}
	return &Store{baseDir: base}, nil
}

// BaseDir returns the directory pages are written to.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// PagePath returns the export path for a page.
func (s *Store) PagePath(pageID int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("page-%d.html", pageID))
}

// Write stores html for pageID, replacing any previous export atomically.
// Returns the written path.
func (s *Store) Write(pageID int, html []byte) (string, error) {
	path := s.PagePath(pageID)
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, html, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("replace export: %w", err)
	}
	return path, nil
}
