// internal/render/render.go
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"sitecfg/internal/config"

	"github.com/microcosm-cc/bluemonday"
	"github.com/verkaro/editml-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

type Options struct {
	// Unsafe disables HTML sanitization of the rendered output.
	Unsafe bool
}

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(newPrefixLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			// Raw HTML is passed through here and filtered by htmlSanitizer.
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Description renders the site description for use in templates. An empty
// description renders to an empty string.
func Description(cfg *config.SiteConfig, opts Options) (template.HTML, error) {
	if cfg.Description == "" {
		return "", nil
	}
	out, err := Markdown(cfg.Description, cfg.PathPrefix, opts)
	if err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}
	return template.HTML(out), nil
}

// Markdown resolves EditML review markup to its clean view, renders the
// result with goldmark and sanitizes it unless opts.Unsafe is set.
// Root-relative links and images are prefixed with pathPrefix.
func Markdown(src, pathPrefix string, opts Options) (string, error) {
	clean, err := cleanEditML(src)
	if err != nil {
		return "", err
	}

	pc := parser.NewContext()
	pc.Set(pathPrefixKey, pathPrefix)

	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert([]byte(clean), &htmlBuffer, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if opts.Unsafe {
		return htmlBuffer.String(), nil
	}
	return string(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
}

func cleanEditML(raw string) (string, error) {
	nodes, parseIssues := editml.Parse(raw)
	if len(parseIssues) > 0 && parseIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml parsing error: %s", parseIssues[0].Message)
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	if len(transformIssues) > 0 && transformIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml transformation error: %s", transformIssues[0].Message)
	}
	return clean, nil
}
