package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Fetch.TopN != 24 {
		t.Errorf("expected top_n 24, got %d", cfg.Fetch.TopN)
	}
	if cfg.Fetch.AnimeRetryDelay != time.Second {
		t.Errorf("expected 1s anime retry, got %s", cfg.Fetch.AnimeRetryDelay)
	}
	if cfg.Fetch.MangaBackoffMax != 30*time.Second {
		t.Errorf("expected 30s backoff cap, got %s", cfg.Fetch.MangaBackoffMax)
	}
	if cfg.UI.SliderInterval != 5*time.Second {
		t.Errorf("expected 5s slider, got %s", cfg.UI.SliderInterval)
	}
	if cfg.UI.Overlay.HideDelay != 300*time.Millisecond {
		t.Errorf("expected 300ms hide delay, got %s", cfg.UI.Overlay.HideDelay)
	}
	if cfg.API.BaseURL != "https://api.jikan.moe/v4" {
		t.Errorf("unexpected base url %q", cfg.API.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfig(t, `
api:
  requests_per_second: 1.5
fetch:
  top_n: 12
  manga_backoff_max: 10s
cache:
  dir: ""
ui:
  overlay:
    panel_width: 40
    hide_delay: 500ms
logging:
  level: debug
`)

	cfg, err := load(viper.New(), dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.RequestsPerSecond != 1.5 {
		t.Errorf("expected 1.5 rps, got %v", cfg.API.RequestsPerSecond)
	}
	if cfg.Fetch.TopN != 12 || cfg.Fetch.MangaBackoffMax != 10*time.Second {
		t.Errorf("unexpected fetch section: %+v", cfg.Fetch)
	}
	if cfg.Cache.Dir != "" {
		t.Errorf("expected memory-only cache, got %q", cfg.Cache.Dir)
	}
	if cfg.UI.Overlay.PanelWidth != 40 || cfg.UI.Overlay.HideDelay != 500*time.Millisecond {
		t.Errorf("unexpected overlay section: %+v", cfg.UI.Overlay)
	}
	// Unset keys keep their defaults
	if cfg.Fetch.AnimeRetryDelay != time.Second || cfg.UI.Overlay.Gap != 1 {
		t.Errorf("expected defaults for unset keys, got %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOPLIST_FETCH_TOP_N", "8")
	t.Setenv("TOPLIST_LOGGING_LEVEL", "WARN")

	cfg, err := load(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Fetch.TopN != 8 {
		t.Errorf("expected env top_n 8, got %d", cfg.Fetch.TopN)
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("expected env level WARN, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := writeConfig(t, "fetch:\n  top_n: 0\n")
	if _, err := load(viper.New(), dir); err == nil {
		t.Error("expected error for top_n 0")
	}

	dir = writeConfig(t, "fetch: [\n")
	if _, err := load(viper.New(), dir); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.TopN = 16
	cfg.UI.Overlay.HideDelay = 750 * time.Millisecond

	dir := t.TempDir()
	if err := saveTo(viper.New(), cfg, filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := load(viper.New(), dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Fetch.TopN != 16 || loaded.UI.Overlay.HideDelay != 750*time.Millisecond {
		t.Errorf("unexpected round trip: %+v", loaded)
	}
}

func TestOverlayLayout(t *testing.T) {
	layout := DefaultConfig().OverlayLayout()
	if layout.NarrowWidth != 80 || layout.LeftOffset != 36 || layout.Gap != 1 {
		t.Errorf("unexpected layout %+v", layout)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "toplist.db"), []byte("x"), 0600)

	if err := ClearCache(dir); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected cache dir removed, got %v", err)
	}
	if err := ClearCache(""); err != nil {
		t.Errorf("expected no-op for memory cache, got %v", err)
	}
}
