// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SiteConfig holds the site configuration consumed by the static site
// generator. It is built once by LoadSiteConfig or Parse and treated as
// read-only afterwards.
type SiteConfig struct {
	Title            string `yaml:"title" json:"title" toml:"title"`
	Author           string `yaml:"author" json:"author" toml:"author"`
	Description      string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	PrimaryColor     string `yaml:"primaryColor" json:"primaryColor" toml:"primaryColor"`
	ShowHeaderImage  bool   `yaml:"showHeaderImage" json:"showHeaderImage" toml:"showHeaderImage"`
	ShowShareButtons bool   `yaml:"showShareButtons" json:"showShareButtons" toml:"showShareButtons"`
	PostsPerPage     int    `yaml:"postsPerPage" json:"postsPerPage" toml:"postsPerPage"`
	Social           Social `yaml:"social,omitempty" json:"social,omitempty" toml:"social,omitempty"`
	PathPrefix       string `yaml:"pathPrefix,omitempty" json:"pathPrefix,omitempty" toml:"pathPrefix,omitempty"`
	SiteURL          string `yaml:"siteUrl,omitempty" json:"siteUrl,omitempty" toml:"siteUrl,omitempty"`

	unknown []string
}

// Social maps a platform name (github, twitter, ...) to a profile URL.
// Platforms that are not configured are absent from the map.
type Social map[string]string

// Get returns the URL for platform and whether it is configured.
func (s Social) Get(platform string) (string, bool) {
	u, ok := s[platform]
	return u, ok
}

// Platforms returns the configured platform names in sorted order.
func (s Social) Platforms() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownKeys lists top-level keys of the source file that are not part of
// SiteConfig. They were ignored during load.
func (c *SiteConfig) UnknownKeys() []string {
	return c.unknown
}

// Format identifies the syntax of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the config syntax from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path))
	}
}

// ParseFormat accepts a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatYAML, FormatTOML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown config format %q", name)
	}
}

// LoadSiteConfig reads, decodes and validates the config file at path.
// SITECFG_SITE_URL and SITECFG_PATH_PREFIX override the file values.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	cfg, err := parse(data, format, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("could not load config file %s: %w", path, err)
	}
	log.Info().Str("path", path).Str("title", cfg.Title).Msg("site config loaded")
	return cfg, nil
}

// Parse decodes and validates a config document without consulting the
// environment.
func Parse(data []byte, format Format) (*SiteConfig, error) {
	return parse(data, format, nil)
}

func parse(data []byte, format Format, lookupEnv func(string) (string, bool)) (*SiteConfig, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	cfg, v := fromDocument(doc)
	if lookupEnv != nil {
		cfg.applyEnvOverrides(lookupEnv)
	}
	cfg.validate(v)
	if v.HasErrors() {
		return nil, v
	}
	return cfg, nil
}
