package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "")
	t.Setenv("CAMPUS_TOKEN_FILE", "")
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "")

	cfg := Load()
	if cfg.APIBaseURL != "http://127.0.0.1:8080/api/v1" {
		t.Fatalf("unexpected default base url %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected default timeout %v", cfg.HTTPTimeout)
	}
	if cfg.TokenFile == "" {
		t.Fatal("expected a default token file path")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "https://campus.example.com/api/v1")
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "5s")

	cfg := Load()
	if cfg.APIBaseURL != "https://campus.example.com/api/v1" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("CAMPUS_HTTP_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.json")

	if err := SavePrefs(path, Prefs{Language: "ar", Direction: DirectionFor("ar")}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	p := LoadPrefs(path)
	if p.Language != "ar" || p.Direction != "rtl" {
		t.Fatalf("unexpected prefs %+v", p)
	}
}

func TestPrefsMissingFileYieldsDefaults(t *testing.T) {
	p := LoadPrefs(filepath.Join(t.TempDir(), "absent.json"))
	if p.Language != "en" || p.Direction != "ltr" {
		t.Fatalf("unexpected defaults %+v", p)
	}
}
