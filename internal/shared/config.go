package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override file configuration.
const (
	EnvGeniusToken  = "GENIUS_ACCESS_TOKEN"
	EnvYouTubeKey   = "YOUTUBE_API_KEY"
	EnvSearchesFile = "LYRX_SEARCHES_FILE"
	EnvOutputFile   = "LYRX_OUTPUT_FILE"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	HTTP        HTTPConfig        `toml:"http"`
	Search      SearchConfig      `toml:"search"`
	Files       FilesConfig       `toml:"files"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Genius  GeniusConfig  `toml:"genius"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// GeniusConfig contains Genius API credentials.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
	BaseURL     string `toml:"base_url"`
}

// YouTubeConfig controls video link lookup.
//
// Without an API key, links are resolved by scraping the public results page.
type YouTubeConfig struct {
	APIKey  string `toml:"api_key"`
	Enabled bool   `toml:"enabled"`
}

// HTTPConfig contains outbound request settings shared by all services.
type HTTPConfig struct {
	APITimeout        Duration `toml:"api_timeout"`
	ScrapeTimeout     Duration `toml:"scrape_timeout"`
	MaxRetries        int      `toml:"max_retries"`
	RetryBackoff      Duration `toml:"retry_backoff"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	UserAgent         string   `toml:"user_agent"`
}

// SearchConfig contains batch resolution settings.
type SearchConfig struct {
	ResultsPerPage int `toml:"results_per_page"`
	Workers        int `toml:"workers"`
}

// FilesConfig contains default input and output locations.
type FilesConfig struct {
	Searches string `toml:"searches"`
	Output   string `toml:"output"`
	Format   string `toml:"format"`
}

// Duration is a [time.Duration] that decodes from TOML strings such as "20s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, fs.ErrExist)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from the given dotenv files into the process environment.
//
// Missing files are skipped; variables already set in the environment win.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with any set environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvGeniusToken)); v != "" {
		c.Credentials.Genius.AccessToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvYouTubeKey)); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSearchesFile)); v != "" {
		c.Files.Searches = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputFile)); v != "" {
		c.Files.Output = v
	}
}

// Validate checks the preconditions for starting a batch.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Credentials.Genius.AccessToken) == "" {
		return fmt.Errorf("%w: %s not set", ErrMissingCredentials, EnvGeniusToken)
	}
	if c.Search.ResultsPerPage <= 0 {
		return fmt.Errorf("%w: search.results_per_page must be positive", ErrInvalidConfig)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("%w: http.max_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}
