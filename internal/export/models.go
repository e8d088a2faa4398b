// internal/export/models.go
package export

import (
	"sitecfg/internal/config"
	"sitecfg/internal/render"
)

// Metadata is the siteMetadata view handed to the site generator. It
// carries every SiteConfig field plus values derived from them.
type Metadata struct {
	Title            string        `json:"title" yaml:"title" toml:"title"`
	Author           string        `json:"author" yaml:"author" toml:"author"`
	Description      string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	DescriptionHTML  string        `json:"descriptionHtml,omitempty" yaml:"descriptionHtml,omitempty" toml:"descriptionHtml,omitempty"`
	PrimaryColor     string        `json:"primaryColor" yaml:"primaryColor" toml:"primaryColor"`
	ShowHeaderImage  bool          `json:"showHeaderImage" yaml:"showHeaderImage" toml:"showHeaderImage"`
	ShowShareButtons bool          `json:"showShareButtons" yaml:"showShareButtons" toml:"showShareButtons"`
	PostsPerPage     int           `json:"postsPerPage" yaml:"postsPerPage" toml:"postsPerPage"`
	Social           config.Social `json:"social,omitempty" yaml:"social,omitempty" toml:"social,omitempty"`
	SocialLinks      []SocialLink  `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty" toml:"socialLinks,omitempty"`
	PathPrefix       string        `json:"pathPrefix,omitempty" yaml:"pathPrefix,omitempty" toml:"pathPrefix,omitempty"`
	SiteURL          string        `json:"siteUrl,omitempty" yaml:"siteUrl,omitempty" toml:"siteUrl,omitempty"`
}

// SocialLink is one configured platform, in a stable order for templates
// that iterate over links.
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform" toml:"platform"`
	URL      string `json:"url" yaml:"url" toml:"url"`
}

// NewMetadata builds the exported view of a validated config.
func NewMetadata(cfg *config.SiteConfig, opts render.Options) (Metadata, error) {
	descHTML, err := render.Description(cfg, opts)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Title:            cfg.Title,
		Author:           cfg.Author,
		Description:      cfg.Description,
		DescriptionHTML:  string(descHTML),
		PrimaryColor:     cfg.PrimaryColor,
		ShowHeaderImage:  cfg.ShowHeaderImage,
		ShowShareButtons: cfg.ShowShareButtons,
		PostsPerPage:     cfg.PostsPerPage,
		Social:           cfg.Social,
		PathPrefix:       cfg.PathPrefix,
		SiteURL:          cfg.SiteURL,
	}
	for _, platform := range cfg.Social.Platforms() {
		meta.SocialLinks = append(meta.SocialLinks, SocialLink{Platform: platform, URL: cfg.Social[platform]})
	}
	return meta, nil
}
