// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"sitecfg/internal/config"

	"github.com/rs/zerolog/log"
)

// Params fills the required fields of a new config file. Social entries
// that are set are written as keys; the other known platforms are left
// commented out.
type Params struct {
	Title        string
	Author       string
	Description  string
	PrimaryColor string
	PostsPerPage int
	Social       config.Social
	PathPrefix   string
	SiteURL      string
}

// KnownPlatforms are listed in every scaffolded config.
var KnownPlatforms = []string{"website", "github", "twitter", "linkedin"}

var placeholderURLs = map[string]string{
	"website":  "https://example.com",
	"github":   "https://github.com/your-name",
	"twitter":  "https://twitter.com/your-name",
	"linkedin": "https://www.linkedin.com/in/your-name",
}

func DefaultParams() Params {
	return Params{
		Title:        "My Blog",
		Author:       "Your Name",
		Description:  "A new blog.",
		PrimaryColor: "#028090",
		PostsPerPage: 5,
	}
}

// ErrExists is returned when the target file exists and force is not set.
var ErrExists = errors.New("config file already exists")

// CreateConfig writes a starter config file at path. Params are validated
// before anything is written.
func CreateConfig(path string, p Params, force bool) error {
	cfg := p.siteConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var output bytes.Buffer
	if err := siteYamlTemplate.Execute(&output, p.templateData()); err != nil {
		return fmt.Errorf("failed to execute config template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
		}
		return err
	}
	if _, err := f.Write(output.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("config scaffolded")
	return nil
}

func (p Params) siteConfig() *config.SiteConfig {
	return &config.SiteConfig{
		Title:        p.Title,
		Author:       p.Author,
		Description:  p.Description,
		PrimaryColor: p.PrimaryColor,
		PostsPerPage: p.PostsPerPage,
		Social:       p.Social,
		PathPrefix:   p.PathPrefix,
		SiteURL:      p.SiteURL,
	}
}

type socialLine struct {
	Platform string
	URL      string
	Set      bool
}

func (p Params) templateData() any {
	var lines []socialLine
	seen := map[string]bool{}
	for _, name := range KnownPlatforms {
		seen[name] = true
		if u, ok := p.Social.Get(name); ok {
			lines = append(lines, socialLine{Platform: name, URL: u, Set: true})
		} else {
			lines = append(lines, socialLine{Platform: name, URL: placeholderURLs[name]})
		}
	}
	for _, name := range p.Social.Platforms() {
		if !seen[name] {
			lines = append(lines, socialLine{Platform: name, URL: p.Social[name], Set: true})
		}
	}

	return struct {
		Params
		SocialLines []socialLine
	}{p, lines}
}

var siteYamlTemplate = template.Must(template.New("site.yaml").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	Parse(siteYamlContent))

const siteYamlContent = `# Site configuration read by the static site generator.
title: {{ quote .Title }} # required
author: {{ quote .Author }} # required
{{- if .Description }}
description: {{ quote .Description }}
{{- else }}
# description: "A short tagline or bio"
{{- end }}
primaryColor: {{ quote .PrimaryColor }} # required
showHeaderImage: true
showShareButtons: true
postsPerPage: {{ .PostsPerPage }} # required
social:
{{- range .SocialLines }}
  {{ if not .Set }}# {{ end }}{{ .Platform }}: {{ quote .URL }}
{{- end }}
{{- if .PathPrefix }}
pathPrefix: {{ quote .PathPrefix }}
{{- else }}
# pathPrefix: "/blog"
{{- end }}
{{- if .SiteURL }}
siteUrl: {{ quote .SiteURL }}
{{- else }}
# siteUrl: "https://example.com/blog/"
{{- end }}
`
