// ABOUTME: Immutable application configuration loaded from YAML with LOFIGUI_* environment overrides.
// ABOUTME: Kept separate from the shell's mutable runtime state (controller, bounce counters, poll state).
package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default configuration values.
const (
	DefaultProductName = "Lofigui"
	DefaultHomePath    = "/"
	DefaultDisplayPath = "/display"
	DefaultRefresh     = time.Second
	DefaultBounceLimit = 3
)

// Config holds settings that do not change while the shell runs.
type Config struct {
	ProductName      string        `yaml:"product_name"`
	Version          string        `yaml:"version"`
	HomePath         string        `yaml:"home_path"`
	DisplayPath      string        `yaml:"display_path"`    // target of the refresh directive
	Refresh          time.Duration `yaml:"refresh"`         // default poll interval
	BounceLimit      int           `yaml:"bounce_limit"`    // startup redirects before rendering normally
	MaxBufferSize    int           `yaml:"max_buffer_size"` // soft ceiling in bytes, 0 disables
	TemplateDir      string        `yaml:"template_dir"`
	SanitizeMarkdown bool          `yaml:"sanitize_markdown"`  // strip unsafe HTML from converted markdown
	MarkdownCacheTTL time.Duration `yaml:"markdown_cache_ttl"` // 0 disables the conversion cache
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ProductName: DefaultProductName,
		HomePath:    DefaultHomePath,
		DisplayPath: DefaultDisplayPath,
		Refresh:     DefaultRefresh,
		BounceLimit: DefaultBounceLimit,
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file is not an
// error and yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields from LOFIGUI_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := nonEmptyEnv("LOFIGUI_PRODUCT_NAME"); v != "" {
		c.ProductName = v
	}
	if v := nonEmptyEnv("LOFIGUI_VERSION"); v != "" {
		c.Version = v
	}
	if v := nonEmptyEnv("LOFIGUI_HOME_PATH"); v != "" {
		c.HomePath = v
	}
	if v := nonEmptyEnv("LOFIGUI_DISPLAY_PATH"); v != "" {
		c.DisplayPath = v
	}
	if v := nonEmptyEnv("LOFIGUI_TEMPLATE_DIR"); v != "" {
		c.TemplateDir = v
	}
	if v := nonEmptyEnv("LOFIGUI_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: LOFIGUI_REFRESH=%s: %v", ErrInvalidConfig, v, err)
		}
		c.Refresh = d
	}
	if v := nonEmptyEnv("LOFIGUI_BOUNCE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LOFIGUI_BOUNCE_LIMIT=%s: %v", ErrInvalidConfig, v, err)
		}
		c.BounceLimit = n
	}
	if v := nonEmptyEnv("LOFIGUI_MAX_BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LOFIGUI_MAX_BUFFER_SIZE=%s: %v", ErrInvalidConfig, v, err)
		}
		c.MaxBufferSize = n
	}
	if v := nonEmptyEnv("LOFIGUI_SANITIZE_MARKDOWN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LOFIGUI_SANITIZE_MARKDOWN=%s: %v", ErrInvalidConfig, v, err)
		}
		c.SanitizeMarkdown = b
	}
	if v := nonEmptyEnv("LOFIGUI_MARKDOWN_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: LOFIGUI_MARKDOWN_CACHE_TTL=%s: %v", ErrInvalidConfig, v, err)
		}
		c.MarkdownCacheTTL = d
	}
	return nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.HomePath, "/") {
		return fmt.Errorf("%w: home_path %q must start with /", ErrInvalidConfig, c.HomePath)
	}
	if !strings.HasPrefix(c.DisplayPath, "/") {
		return fmt.Errorf("%w: display_path %q must start with /", ErrInvalidConfig, c.DisplayPath)
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("%w: refresh must be positive, got %s", ErrInvalidConfig, c.Refresh)
	}
	if c.BounceLimit < 0 {
		return fmt.Errorf("%w: bounce_limit must not be negative", ErrInvalidConfig)
	}
	if c.MaxBufferSize < 0 {
		return fmt.Errorf("%w: max_buffer_size must not be negative", ErrInvalidConfig)
	}
	if c.MarkdownCacheTTL < 0 {
		return fmt.Errorf("%w: markdown_cache_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// VersionString is the display string used for the "version" render key.
func (c Config) VersionString() string {
	return strings.TrimSpace(c.ProductName + " " + c.Version)
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.ProductName == "" {
		c.ProductName = DefaultProductName
	}
	if c.HomePath == "" {
		c.HomePath = DefaultHomePath
	}
	if c.DisplayPath == "" {
		c.DisplayPath = DefaultDisplayPath
	}
	if c.Refresh == 0 {
		c.Refresh = DefaultRefresh
	}
}

// nonEmptyEnv returns the trimmed value of an environment variable.
func nonEmptyEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
