package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultApiURL        = "http://localhost:8000/api"
	DefaultLogoutTimeout = 5 * time.Second
	appDirName           = "ojclient"
)

type Config struct {
	ApiURL    string
	TokenFile string
	LogLevel  string
	LogFile   string

	// RequestTimeout of zero leaves timeouts to the transport.
	RequestTimeout time.Duration
	LogoutTimeout  time.Duration
}

// fileConfig is the on-disk shape; durations are Go duration strings.
type fileConfig struct {
	ApiURL         string `toml:"api_url"`
	TokenFile      string `toml:"token_file"`
	LogLevel       string `toml:"log_level"`
	LogFile        string `toml:"log_file"`
	RequestTimeout string `toml:"request_timeout"`
	LogoutTimeout  string `toml:"logout_timeout"`
}

// Load reads .env (optional), then the TOML config file (optional), then
// environment variables, each layer overriding the previous one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	cfg := defaults()

	path := getEnv("OJ_CONFIG", filepath.Join(configDir(), "config.toml"))
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ApiURL:        DefaultApiURL,
		TokenFile:     filepath.Join(configDir(), "token.toml"),
		LogLevel:      "info",
		LogoutTimeout: DefaultLogoutTimeout,
	}
}

func (c *Config) mergeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(content, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.ApiURL = firstNonEmpty(fc.ApiURL, c.ApiURL)
	c.TokenFile = firstNonEmpty(fc.TokenFile, c.TokenFile)
	c.LogLevel = firstNonEmpty(fc.LogLevel, c.LogLevel)
	c.LogFile = firstNonEmpty(fc.LogFile, c.LogFile)

	if c.RequestTimeout, err = parseDuration("request_timeout", fc.RequestTimeout, c.RequestTimeout); err != nil {
		return err
	}
	if c.LogoutTimeout, err = parseDuration("logout_timeout", fc.LogoutTimeout, c.LogoutTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.ApiURL = getEnv("OJ_API_URL", c.ApiURL)
	c.TokenFile = getEnv("OJ_TOKEN_FILE", c.TokenFile)
	c.LogLevel = getEnv("OJ_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("OJ_LOG_FILE", c.LogFile)

	var err error
	if c.RequestTimeout, err = parseDuration("OJ_REQUEST_TIMEOUT", os.Getenv("OJ_REQUEST_TIMEOUT"), c.RequestTimeout); err != nil {
		return err
	}
	if c.LogoutTimeout, err = parseDuration("OJ_LOGOUT_TIMEOUT", os.Getenv("OJ_LOGOUT_TIMEOUT"), c.LogoutTimeout); err != nil {
		return err
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + appDirName
	}
	return filepath.Join(dir, appDirName)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
