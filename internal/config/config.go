// Package config handles configuration loading and management for
// obsidian-export.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for a vault export.
type Config struct {
	// Vault is the path to the Obsidian vault directory.
	Vault string `yaml:"vault"`

	// Destination is where exported files are written.
	Destination string `yaml:"destination"`

	// StartAt restricts the export to a sub-tree (or single file) of the
	// vault. Empty means the whole vault.
	StartAt string `yaml:"start_at"`

	// Frontmatter controls when a frontmatter block is written to
	// exported files: "auto", "always", or "never".
	Frontmatter string `yaml:"frontmatter"`

	// NoRecursiveEmbeds disables inlining a note embed that would
	// recurse into a note already in its own ancestor chain, emitting an
	// arrow-link instead.
	NoRecursiveEmbeds bool `yaml:"no_recursive_embeds"`

	// Walk contains vault-traversal behavior settings.
	Walk WalkConfig `yaml:"walk"`

	// LinkedAttachmentsOnly restricts attachment export to files
	// actually referenced or embedded from an exported note.
	LinkedAttachmentsOnly bool `yaml:"linked_attachments_only"`

	// PreserveMtime copies each source file's modification time onto the
	// exported file.
	PreserveMtime bool `yaml:"preserve_mtime"`

	// Concurrency bounds how many notes are processed in parallel.
	Concurrency int `yaml:"concurrency"`

	// Cache, if non-empty, is the path to the incremental export cache
	// database. Empty disables caching.
	Cache string `yaml:"cache"`

	// TUI enables the live bubbletea progress display.
	TUI bool `yaml:"tui"`

	// Tags control which notes are exported based on frontmatter tags.
	Tags TagsConfig `yaml:"tags"`
}

// WalkConfig holds vault-traversal settings.
type WalkConfig struct {
	// IgnoreFilename is the per-directory ignore file honored alongside
	// .gitignore.
	IgnoreFilename string `yaml:"ignore_filename"`

	// NoIgnoreHidden disables skipping dotfiles and dot-directories.
	NoIgnoreHidden bool `yaml:"no_ignore_hidden"`

	// NoGitignore disables honoring the vault's own .gitignore files.
	NoGitignore bool `yaml:"no_gitignore"`
}

// TagsConfig controls tag-based note filtering, mirroring the
// FilterByTags postprocessor's skip/only semantics.
type TagsConfig struct {
	// Skip excludes any note carrying one of these tags.
	Skip []string `yaml:"skip"`

	// Only, if non-empty, excludes any note not carrying at least one of
	// these tags. Skip wins over Only when both match.
	Only []string `yaml:"only"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Frontmatter: "auto",
		Walk: WalkConfig{
			IgnoreFilename: ".export-ignore",
		},
		Concurrency: DefaultConcurrency,
	}
}

// DefaultConcurrency is the number of notes processed in parallel when
// Concurrency is left unset.
const DefaultConcurrency = 8

// Load loads configuration from a file or default locations.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromFile(path)
	}

	locations := []string{
		".obsidian-export.yaml",
		".obsidian-export.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "obsidian-export", "config.yaml"),
			filepath.Join(home, ".config", "obsidian-export", "config.yml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loadFromFile(loc)
		}
	}

	return nil, fmt.Errorf("no configuration file found (tried: %s)", strings.Join(locations, ", "))
}

// loadFromFile loads configuration from a specific file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.expandEnvVars()
	cfg.Vault = expandTilde(cfg.Vault)
	cfg.Destination = expandTilde(cfg.Destination)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars expands ${ENV_VAR} references in config values.
func (c *Config) expandEnvVars() {
	c.Vault = expandEnv(c.Vault)
	c.Destination = expandEnv(c.Destination)
	c.Cache = expandEnv(c.Cache)
}

// expandEnv expands ${VAR} or $VAR references.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envVar := s[2 : len(s)-1]
		return os.Getenv(envVar)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return os.ExpandEnv(s)
}

// expandTilde expands a leading ~ to the user's home directory.
func expandTilde(s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return filepath.Join(home, s[1:])
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return fmt.Errorf("vault path is required")
	}
	if _, err := os.Stat(c.Vault); os.IsNotExist(err) {
		return fmt.Errorf("vault path does not exist: %s", c.Vault)
	}

	if c.Destination == "" {
		return fmt.Errorf("destination path is required")
	}

	switch c.Frontmatter {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid frontmatter strategy: %s", c.Frontmatter)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative")
	}

	return nil
}

// Save writes the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
