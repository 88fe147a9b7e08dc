// internal/config/settings.go
package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Settings is the read-only (section, key) configuration capability the
// validation engine consumes. Missing keys yield the default; values that
// are present but malformed are errors.
type Settings interface {
	String(section, key, def string) string
	Bool(section, key string, def bool) (bool, error)
	Int(section, key string, def int) (int, error)
}

// IniSettings implements Settings over an ini document
type IniSettings struct {
	file *ini.File
}

// LoadSettings reads settings from an ini file. An empty path yields empty
// settings so every lookup falls back to its default.
func LoadSettings(path string) (*IniSettings, error) {
	if path == "" {
		return &IniSettings{file: ini.Empty()}, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
	}

	return &IniSettings{file: f}, nil
}

// ParseSettings reads settings from an in-memory ini document
func ParseSettings(data []byte) (*IniSettings, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &IniSettings{file: f}, nil
}

func (s *IniSettings) lookup(section, key string) (*ini.Key, bool) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil, false
	}
	if !sec.HasKey(key) {
		return nil, false
	}
	return sec.Key(key), true
}

// String returns the trimmed value, or def when absent or blank
func (s *IniSettings) String(section, key, def string) string {
	k, ok := s.lookup(section, key)
	if !ok {
		return def
	}
	if v := strings.TrimSpace(k.String()); v != "" {
		return v
	}
	return def
}

// Bool returns the boolean value, or def when absent or blank
func (s *IniSettings) Bool(section, key string, def bool) (bool, error) {
	k, ok := s.lookup(section, key)
	if !ok || strings.TrimSpace(k.String()) == "" {
		return def, nil
	}

	v, err := k.Bool()
	if err != nil {
		return def, &ValidationError{Field: section + "." + key, Message: fmt.Sprintf("is not a boolean: %q", k.String())}
	}
	return v, nil
}

// Int returns the integer value, or def when absent or blank
func (s *IniSettings) Int(section, key string, def int) (int, error) {
	k, ok := s.lookup(section, key)
	if !ok || strings.TrimSpace(k.String()) == "" {
		return def, nil
	}

	v, err := k.Int()
	if err != nil {
		return def, &ValidationError{Field: section + "." + key, Message: fmt.Sprintf("is not an integer: %q", k.String())}
	}
	return v, nil
}
