// internal/config/validate_config.go
package config

import (
	"strings"

	"sitecfg/internal/config/validate"
)

const (
	EnvPrefix     = "SITECFG"
	EnvSiteURL    = EnvPrefix + "_SITE_URL"
	EnvPathPrefix = EnvPrefix + "_PATH_PREFIX"
)

// Validate checks a SiteConfig built in code. Records returned by
// LoadSiteConfig and Parse have already passed it.
func (c *SiteConfig) Validate() error {
	v := &validate.ValidationErrors{}
	c.validate(v)
	if v.HasErrors() {
		return v
	}
	return nil
}

func (c *SiteConfig) validate(v *validate.ValidationErrors) {
	check := func(field string) bool { return !v.Failed(field) }

	if check(keyTitle) {
		validate.RequireString(v, keyTitle, c.Title)
	}
	if check(keyAuthor) {
		validate.RequireString(v, keyAuthor, c.Author)
	}
	if check(keyPrimaryColor) && validate.RequireString(v, keyPrimaryColor, c.PrimaryColor) {
		validate.RequireColor(v, keyPrimaryColor, c.PrimaryColor)
	}
	if check(keyPostsPerPage) {
		validate.RequireIntMin(v, keyPostsPerPage, c.PostsPerPage, 1)
	}
	if check(keySiteURL) {
		validate.OptionalURL(v, keySiteURL, c.SiteURL)
	}
	for _, platform := range c.Social.Platforms() {
		path := keySocial + "." + platform
		if check(path) {
			validate.OptionalURL(v, path, c.Social[platform])
		}
	}

	if c.PathPrefix != "" && !strings.HasPrefix(c.PathPrefix, "/") {
		validate.LogConfigWarn(keyPathPrefix, c.PathPrefix, "path prefix does not start with '/'")
	}
}

func (c *SiteConfig) applyEnvOverrides(lookupEnv func(string) (string, bool)) {
	if val, ok := lookupEnv(EnvSiteURL); ok && val != "" {
		validate.LogConfigWarn(keySiteURL, val, "overridden by "+EnvSiteURL)
		c.SiteURL = val
	}
	if val, ok := lookupEnv(EnvPathPrefix); ok && val != "" {
		validate.LogConfigWarn(keyPathPrefix, val, "overridden by "+EnvPathPrefix)
		c.PathPrefix = val
	}
}
