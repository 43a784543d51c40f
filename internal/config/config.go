// Package config resolves user defaults for the init command from a YAML
// file, the environment and CLI flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
	"github.com/wpnuxt/wpnuxi/internal/wordpress"
)

const (
	EnvConfigPath = "WPNUXI_CONFIG"

	envPackageManager = "WPNUXI_PM"
	envTemplate       = "WPNUXI_TEMPLATE"
	envWordPressURL   = "WPNUXI_WORDPRESS_URL"
	envSkipInstall    = "WPNUXI_SKIP_INSTALL"
	envSkipGit        = "WPNUXI_SKIP_GIT"
	envVerbose        = "WPNUXI_VERBOSE"
)

// Template flavors.
const (
	TemplateFull    = "full"
	TemplateMinimal = "minimal"
)

// Loader merges configuration coming from a file, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the merged settings. Empty strings mean "ask".
type RuntimeConfig struct {
	PackageManager string
	Template       string
	WordPressURL   string
	SkipInstall    bool
	SkipGit        bool
	Verbose        bool
}

// Overrides captures values coming from the file, env vars or CLI flags.
// Nil pointers and empty strings leave the current value alone.
type Overrides struct {
	PackageManager string
	Template       string
	WordPressURL   string
	SkipInstall    *bool
	SkipGit        *bool
	Verbose        *bool
}

// DefaultConfigPath returns $WPNUXI_CONFIG, else
// $XDG_CONFIG_HOME/wpnuxi/config.yml, else ~/.config/wpnuxi/config.yml.
func DefaultConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "wpnuxi", "config.yml")
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		cfg.apply(fileOv)
	}

	cfg.apply(overridesFromEnv())
	cfg.apply(override)
	return cfg, nil
}

// Validate checks the values that were provided. Empty values are valid and
// are prompted for later.
func (c RuntimeConfig) Validate() error {
	if c.Template != "" && c.Template != TemplateFull && c.Template != TemplateMinimal {
		return fmt.Errorf("invalid template %q. Must be %q or %q", c.Template, TemplateFull, TemplateMinimal)
	}
	if c.PackageManager != "" {
		if _, err := pkgmanager.Parse(c.PackageManager); err != nil {
			return err
		}
	}
	if c.WordPressURL != "" && !wordpress.IsValidURL(c.WordPressURL) {
		return fmt.Errorf("invalid WordPress URL %q. Must start with http:// or https://", c.WordPressURL)
	}
	return nil
}

func (c *RuntimeConfig) apply(src Overrides) {
	if src.PackageManager != "" {
		c.PackageManager = strings.TrimSpace(src.PackageManager)
	}

	if src.Template != "" {
		c.Template = strings.TrimSpace(src.Template)
	}

	if src.WordPressURL != "" {
		c.WordPressURL = strings.TrimSpace(src.WordPressURL)
	}

	if src.SkipInstall != nil {
		c.SkipInstall = *src.SkipInstall
	}

	if src.SkipGit != nil {
		c.SkipGit = *src.SkipGit
	}

	if src.Verbose != nil {
		c.Verbose = *src.Verbose
	}
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Overrides{}, err
	}

	type rawConfig struct {
		PackageManager string `yaml:"packageManager"`
		Template       string `yaml:"template"`
		WordPressURL   string `yaml:"wordpressUrl"`
		SkipInstall    *bool  `yaml:"skipInstall"`
		SkipGit        *bool  `yaml:"skipGit"`
		Verbose        *bool  `yaml:"verbose"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, err
	}

	return Overrides{
		PackageManager: raw.PackageManager,
		Template:       raw.Template,
		WordPressURL:   raw.WordPressURL,
		SkipInstall:    raw.SkipInstall,
		SkipGit:        raw.SkipGit,
		Verbose:        raw.Verbose,
	}, nil
}

func overridesFromEnv() Overrides {
	ov := Overrides{
		PackageManager: os.Getenv(envPackageManager),
		Template:       os.Getenv(envTemplate),
		WordPressURL:   os.Getenv(envWordPressURL),
	}

	ov.SkipInstall = envBool(envSkipInstall)
	ov.SkipGit = envBool(envSkipGit)
	ov.Verbose = envBool(envVerbose)

	return ov
}

func envBool(key string) *bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	parsed := strings.EqualFold(value, "true") || value == "1" || strings.EqualFold(value, "yes")
	return &parsed
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
