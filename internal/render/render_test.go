package render

import (
	"testing"

	"sitecfg/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_PrefixesRootRelativeLinks(t *testing.T) {
	src := "See [about](/about), [docs](docs/intro) and [gh](https://github.com/parampreetr).\n\n![me](/images/me.png)\n"

	out, err := Markdown(src, "/devblog", Options{})
	require.NoError(t, err)

	assert.Contains(t, out, `href="/devblog/about"`)
	assert.Contains(t, out, `href="docs/intro"`)
	assert.Contains(t, out, `href="https://github.com/parampreetr"`)
	assert.Contains(t, out, `src="/devblog/images/me.png"`)
}

func TestMarkdown_NoPrefix(t *testing.T) {
	out, err := Markdown("[about](/about)", "", Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `href="/about"`)
}

func TestMarkdown_Sanitizes(t *testing.T) {
	src := "Full-stack **Web** Developer\n\n<script>alert(1)</script>\n"

	safe, err := Markdown(src, "", Options{})
	require.NoError(t, err)
	assert.Contains(t, safe, "<strong>Web</strong>")
	assert.NotContains(t, safe, "<script>")
}

func TestDescription(t *testing.T) {
	cfg := &config.SiteConfig{Description: "Full-stack Web Developer", PathPrefix: "/devblog"}

	html, err := Description(cfg, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Full-stack Web Developer")

	empty, err := Description(&config.SiteConfig{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMarkdown_UnsafeKeepsRawHTML(t *testing.T) {
	out, err := Markdown("<span class=\"tag\">dev</span>", "", Options{Unsafe: true})
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="tag">dev</span>`)
}
