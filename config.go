package inkpress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for an inkpress site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:8080")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	RootDir      string `yaml:"-"`             // Project root; all relative dirs resolve against it
	PostsDir     string `yaml:"posts_dir"`     // Markdown sources (default "posts")
	TemplatesDir string `yaml:"templates_dir"` // HTML templates (default "templates")
	OutputDir    string `yaml:"output_dir"`    // Generated site (default "output")

	Addr string `yaml:"addr"` // Preview server listen address (default ":8080")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	if c.RootDir == "" {
		c.RootDir = "."
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = "templates"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
}

// applyEnv lets environment variables override file-based settings, so a CI
// run can rebrand a site without editing site.yaml.
func (c *SiteConfig) applyEnv() {
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.Author = EnvOr("SITE_AUTHOR", c.Author)
}

// LoadConfig reads site.yaml from root and resolves the full configuration.
// A missing config file is not an error: every field has a default, so a
// bare directory of posts and templates is a valid site.
func LoadConfig(root string) (SiteConfig, error) {
	cfg := SiteConfig{RootDir: root}

	path := filepath.Join(root, "site.yaml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return SiteConfig{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.RootDir = root
	}

	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

// postsPath, templatesPath, and outputPath resolve configured directories
// against the project root.
func (c SiteConfig) postsPath() string     { return filepath.Join(c.RootDir, c.PostsDir) }
func (c SiteConfig) templatesPath() string { return filepath.Join(c.RootDir, c.TemplatesDir) }
func (c SiteConfig) outputPath() string    { return filepath.Join(c.RootDir, c.OutputDir) }

// Option configures additional Generator behavior.
type Option func(*Generator)

// WithLogger sets the structured logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithNow overrides the clock used for date defaults. Tests use this to pin
// "current date" behavior.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
