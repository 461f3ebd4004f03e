// Package settings stores key-value settings in INI files.
//
// Keys outside any section live in the unnamed section, addressed with the
// empty section name.
package settings

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/phanxgames/sprig"
	"gopkg.in/ini.v1"
)

// INI is an in-memory settings store backed by gopkg.in/ini.v1.
type INI struct {
	file *ini.File
}

// New returns an empty store.
func New() *INI {
	return &INI{file: ini.Empty()}
}

var _ sprig.KeyValue = (*INI)(nil)

func sectionName(section string) string {
	if section == "" {
		return ini.DefaultSection
	}
	return section
}

// Load replaces the store's contents with the file at path. A missing or
// unreadable file is logged and leaves the store empty; only a malformed
// file returns an error.
func (s *INI) Load(path string) error {
	s.file = ini.Empty()
	f, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			sprig.Logger().Error("open settings file", "path", path, "err", err)
			return nil
		}
		return fmt.Errorf("settings: load %s: %w", path, err)
	}
	s.file = f
	sprig.Logger().Info("settings loaded", "path", path, "values", s.Count())
	return nil
}

// Save writes every value to path.
func (s *INI) Save(path string) error {
	if err := s.file.SaveTo(path); err != nil {
		return fmt.Errorf("settings: save %s: %w", path, err)
	}
	return nil
}

// String returns the raw value of section.key.
func (s *INI) String(section, key string) (string, bool) {
	sec, err := s.file.GetSection(sectionName(section))
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// Int returns section.key parsed as an int.
func (s *INI) Int(section, key string) (int, error) {
	k, err := s.key(section, key)
	if err != nil {
		return 0, err
	}
	n, err := k.Int()
	if err != nil {
		return 0, fmt.Errorf("settings: %s.%s: %w", section, key, err)
	}
	return n, nil
}

// Bool returns section.key parsed as a bool. INI spellings such as "on",
// "yes" and "1" are accepted.
func (s *INI) Bool(section, key string) (bool, error) {
	k, err := s.key(section, key)
	if err != nil {
		return false, err
	}
	b, err := k.Bool()
	if err != nil {
		return false, fmt.Errorf("settings: %s.%s: %w", section, key, err)
	}
	return b, nil
}

func (s *INI) key(section, key string) (*ini.Key, error) {
	sec, err := s.file.GetSection(sectionName(section))
	if err != nil || !sec.HasKey(key) {
		return nil, fmt.Errorf("settings: %s.%s: %w", section, key, sprig.ErrNotFound)
	}
	return sec.Key(key), nil
}

// Set stores value under section.key, creating the section if needed.
func (s *INI) Set(section, key, value string) {
	s.file.Section(sectionName(section)).Key(key).SetValue(value)
}

// Has reports whether section.key is set.
func (s *INI) Has(section, key string) bool {
	_, ok := s.String(section, key)
	return ok
}

// Count returns the number of stored values across all sections.
func (s *INI) Count() int {
	n := 0
	for _, sec := range s.file.Sections() {
		n += len(sec.Keys())
	}
	return n
}
