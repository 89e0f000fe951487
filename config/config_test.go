package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty values read as unset, shielding the test from ambient TICHA_*.
	t.Setenv("TICHA_RATE_LIMIT", "")
	t.Setenv("TICHA_MAX_PAGES", "")
	t.Setenv("TICHA_HEADLESS", "")

	cfg := Load()
	if cfg.Scrape.RateLimit != 2*time.Second {
		t.Errorf("RateLimit = %v, want 2s", cfg.Scrape.RateLimit)
	}
	if cfg.Scrape.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want 100", cfg.Scrape.MaxPages)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should default to true")
	}
}

func TestLoad_MaxPagesRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"zero falls back", "0", 100},
		{"negative falls back", "-5", 100},
		{"positive honored", "3", 3},
		{"garbage falls back", "many", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TICHA_MAX_PAGES", tt.value)
			if got := Load().Scrape.MaxPages; got != tt.want {
				t.Errorf("MaxPages = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TICHA_RATE_LIMIT", "500ms")
	t.Setenv("TICHA_HEADLESS", "false")
	t.Setenv("TICHA_BLOCKED_RESOURCES", "Image, Script")

	cfg := Load()
	if cfg.Scrape.RateLimit != 500*time.Millisecond {
		t.Errorf("RateLimit = %v, want 500ms", cfg.Scrape.RateLimit)
	}
	if cfg.Browser.Headless {
		t.Error("Headless should follow TICHA_HEADLESS=false")
	}
	want := []string{"Image", "Script"}
	got := cfg.Browser.BlockedResourceTypes
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("BlockedResourceTypes = %v, want %v", got, want)
	}
}
