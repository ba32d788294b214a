// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, environment overrides and validation

package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEISHVET_API_URL", "")
	t.Setenv("LEISHVET_TIMEOUT", "")
	t.Setenv("LEISHVET_CONFIG_DIR", "")
	t.Setenv("LEISHVET_RUNTIME_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir != "" || cfg.RuntimeDir != "" {
		t.Errorf("expected empty directory overrides, got %q / %q", cfg.ConfigDir, cfg.RuntimeDir)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LEISHVET_API_URL", "https://api.leishvet.example.org")
	t.Setenv("LEISHVET_TIMEOUT", "60")
	t.Setenv("LEISHVET_CONFIG_DIR", "/tmp/cfg")
	t.Setenv("LEISHVET_RUNTIME_DIR", "/tmp/run")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIURL != "https://api.leishvet.example.org" {
		t.Errorf("unexpected API URL %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 60 {
		t.Errorf("expected timeout 60, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir != "/tmp/cfg" || cfg.RuntimeDir != "/tmp/run" {
		t.Errorf("unexpected dirs %q / %q", cfg.ConfigDir, cfg.RuntimeDir)
	}
}

func TestLoad_AddsMissingScheme(t *testing.T) {
	t.Setenv("LEISHVET_API_URL", "api.leishvet.example.org:8000")
	t.Setenv("LEISHVET_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "http://api.leishvet.example.org:8000" {
		t.Errorf("expected http scheme added, got %q", cfg.APIURL)
	}
}

func TestLoad_TimeoutValidation(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"1", false},
		{"600", false},
		{"0", true},
		{"601", true},
		{"-5", true},
		{"garbage", false}, // unparseable falls back to the default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LEISHVET_API_URL", "")
			t.Setenv("LEISHVET_TIMEOUT", tt.value)

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load with LEISHVET_TIMEOUT=%s: err=%v, wantErr=%t", tt.value, err, tt.wantErr)
			}
		})
	}
}
