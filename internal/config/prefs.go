package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs holds user preferences persisted between CLI runs.
type Prefs struct {
	Language  string `json:"language"`
	Direction string `json:"direction"`
}

var rtlLanguages = map[string]bool{
	"ar": true,
	"he": true,
	"fa": true,
	"ur": true,
}

// DirectionFor returns the text direction for a language code.
func DirectionFor(lang string) string {
	if rtlLanguages[lang] {
		return "rtl"
	}
	return "ltr"
}

// LoadPrefs reads preferences from path. A missing or unreadable file
// yields defaults.
func LoadPrefs(path string) Prefs {
	defaults := Prefs{Language: "en", Direction: "ltr"}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return defaults
	}
	if p.Language == "" {
		p.Language = defaults.Language
	}
	if p.Direction == "" {
		p.Direction = DirectionFor(p.Language)
	}
	return p
}

// SavePrefs writes preferences to path, creating parent directories as
// needed. The write goes through a temp file so readers never observe a
// partial file.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
