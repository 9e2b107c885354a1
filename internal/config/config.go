// Package config loads toplist settings from config.yaml and TOPLIST_* env vars
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/toplist/internal/jikan"
	"github.com/mmcdole/toplist/internal/overlay"
	"github.com/mmcdole/toplist/internal/ranking"
	"github.com/spf13/viper"
)

const appName = "toplist"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds Jikan client configuration
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// FetchConfig holds list size and retry tuning
type FetchConfig struct {
	TopN              int           `mapstructure:"top_n"`
	AnimeRetryDelay   time.Duration `mapstructure:"anime_retry_delay"`
	MangaBackoffBase  time.Duration `mapstructure:"manga_backoff_base"`
	MangaBackoffMax   time.Duration `mapstructure:"manga_backoff_max"`
	EnrichConcurrency int           `mapstructure:"enrich_concurrency"`
}

// CacheConfig holds the persistent cache location
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps the cache in memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	SliderInterval time.Duration `mapstructure:"slider_interval"`
	GridColumns    int           `mapstructure:"grid_columns"` // 0 = fit to width
	Overlay        OverlayConfig `mapstructure:"overlay"`
}

// OverlayConfig is the detail panel layout in terminal cells
type OverlayConfig struct {
	NarrowWidth   int           `mapstructure:"narrow_width"`
	EdgeClearance int           `mapstructure:"edge_clearance"`
	LeftOffset    int           `mapstructure:"left_offset"`
	Gap           int           `mapstructure:"gap"`
	CenterOffset  int           `mapstructure:"center_offset"`
	PanelWidth    int           `mapstructure:"panel_width"`
	HideDelay     time.Duration `mapstructure:"hide_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	api := jikan.DefaultOptions()
	fetch := ranking.DefaultSettings()

	return &Config{
		API: APIConfig{
			BaseURL:           api.BaseURL,
			Timeout:           api.Timeout,
			RequestsPerSecond: api.RequestsPerSecond,
			Burst:             api.Burst,
			UserAgent:         api.UserAgent,
		},
		Fetch: FetchConfig{
			TopN:              fetch.TopN,
			AnimeRetryDelay:   fetch.AnimeRetryDelay,
			MangaBackoffBase:  fetch.MangaBackoffBase,
			MangaBackoffMax:   fetch.MangaBackoffMax,
			EnrichConcurrency: fetch.EnrichConcurrency,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		UI: UIConfig{
			SliderInterval: 5 * time.Second,
			GridColumns:    0,
			Overlay: OverlayConfig{
				NarrowWidth:   80,
				EdgeClearance: 40,
				LeftOffset:    36,
				Gap:           1,
				CenterOffset:  18,
				PanelWidth:    34,
				HideDelay:     300 * time.Millisecond,
			},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// ClientOptions converts the api section for jikan.NewClient
func (c *Config) ClientOptions() jikan.Options {
	return jikan.Options{
		BaseURL:           c.API.BaseURL,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		UserAgent:         c.API.UserAgent,
	}
}

// FetchSettings converts the fetch section for the ranking presets
func (c *Config) FetchSettings() ranking.Settings {
	return ranking.Settings{
		TopN:              c.Fetch.TopN,
		AnimeRetryDelay:   c.Fetch.AnimeRetryDelay,
		MangaBackoffBase:  c.Fetch.MangaBackoffBase,
		MangaBackoffMax:   c.Fetch.MangaBackoffMax,
		EnrichConcurrency: c.Fetch.EnrichConcurrency,
	}
}

// OverlayLayout converts the cell layout for overlay.NewController
func (c *Config) OverlayLayout() overlay.Layout {
	o := c.UI.Overlay
	return overlay.Layout{
		NarrowWidth:   float64(o.NarrowWidth),
		EdgeClearance: float64(o.EdgeClearance),
		LeftOffset:    float64(o.LeftOffset),
		Gap:           float64(o.Gap),
		CenterOffset:  float64(o.CenterOffset),
		HideDelay:     o.HideDelay,
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return load(viper.New(), defaultConfigPath(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. TOPLIST_FETCH_TOP_N
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so env overrides apply to keys absent
// from the file. Durations are stored as strings ("300ms") so a saved file
// stays readable.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout.String())
	v.SetDefault("api.requests_per_second", cfg.API.RequestsPerSecond)
	v.SetDefault("api.burst", cfg.API.Burst)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("fetch.top_n", cfg.Fetch.TopN)
	v.SetDefault("fetch.anime_retry_delay", cfg.Fetch.AnimeRetryDelay.String())
	v.SetDefault("fetch.manga_backoff_base", cfg.Fetch.MangaBackoffBase.String())
	v.SetDefault("fetch.manga_backoff_max", cfg.Fetch.MangaBackoffMax.String())
	v.SetDefault("fetch.enrich_concurrency", cfg.Fetch.EnrichConcurrency)

	v.SetDefault("cache.dir", cfg.Cache.Dir)

	v.SetDefault("ui.slider_interval", cfg.UI.SliderInterval.String())
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("ui.overlay.narrow_width", cfg.UI.Overlay.NarrowWidth)
	v.SetDefault("ui.overlay.edge_clearance", cfg.UI.Overlay.EdgeClearance)
	v.SetDefault("ui.overlay.left_offset", cfg.UI.Overlay.LeftOffset)
	v.SetDefault("ui.overlay.gap", cfg.UI.Overlay.Gap)
	v.SetDefault("ui.overlay.center_offset", cfg.UI.Overlay.CenterOffset)
	v.SetDefault("ui.overlay.panel_width", cfg.UI.Overlay.PanelWidth)
	v.SetDefault("ui.overlay.hide_delay", cfg.UI.Overlay.HideDelay.String())

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate rejects settings the fetch pipeline cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Fetch.TopN <= 0:
		return fmt.Errorf("fetch.top_n must be positive, got %d", c.Fetch.TopN)
	case c.Fetch.AnimeRetryDelay <= 0:
		return fmt.Errorf("fetch.anime_retry_delay must be positive, got %s", c.Fetch.AnimeRetryDelay)
	case c.Fetch.MangaBackoffBase <= 0 || c.Fetch.MangaBackoffMax < c.Fetch.MangaBackoffBase:
		return fmt.Errorf("fetch.manga_backoff_base/max invalid: %s/%s", c.Fetch.MangaBackoffBase, c.Fetch.MangaBackoffMax)
	case c.UI.Overlay.PanelWidth <= 0:
		return fmt.Errorf("ui.overlay.panel_width must be positive, got %d", c.UI.Overlay.PanelWidth)
	}
	return nil
}

// SaveConfig writes cfg to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return saveTo(viper.New(), cfg, filepath.Join(configPath, "config.yaml"))
}

func saveTo(v *viper.Viper, cfg *Config, file string) error {
	// Defaults carry the snake_case key names
	setDefaults(v, cfg)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes the persisted rankings under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
