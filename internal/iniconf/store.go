// Package iniconf owns INI-format service configuration writes.
//
// Ownership boundary:
// - open-or-create semantics for service config files
// - idempotent section/key/value writes, last write wins
// - save-back to the original path
package iniconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Entry is one section/key/value write against a config target.
type Entry struct {
	Section string
	Key     string
	Value   string
}

// Store wraps one INI-format service configuration file.
type Store struct {
	path string
	file *ini.File
}

// Open loads the file at path, or starts an empty store when it does
// not exist yet. DevStack writes configs before some services have
// generated theirs, so a missing file is not an error.
func Open(path string) (*Store, error) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil, fmt.Errorf("iniconf: empty config path")
	}

	file, err := ini.LooseLoad(clean)
	if err != nil {
		return nil, fmt.Errorf("iniconf: load %s: %w", clean, err)
	}
	return &Store{path: clean, file: file}, nil
}

// Set writes value under section/key, replacing any previous value.
func (s *Store) Set(section, key, value string) {
	s.file.Section(section).Key(key).SetValue(value)
}

// SetAll applies entries in order.
func (s *Store) SetAll(entries []Entry) {
	for _, e := range entries {
		s.Set(e.Section, e.Key, e.Value)
	}
}

// Get returns the current value for section/key, empty when unset.
func (s *Store) Get(section, key string) string {
	sec := s.file.Section(section)
	if !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).String()
}

// Save writes the store back to its path, creating parent directories
// as needed.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("iniconf: mkdir %s: %w", dir, err)
		}
	}
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("iniconf: save %s: %w", s.path, err)
	}
	return nil
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}
