// internal/render/goldmark_extensions.go
package render

import (
	"sitecfg/internal/util"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var pathPrefixKey = parser.NewContextKey()

// prefixLinkTransformer rewrites root-relative link and image destinations
// so they resolve under the site's path prefix.
type prefixLinkTransformer struct{}

func newPrefixLinkTransformer() parser.ASTTransformer {
	return &prefixLinkTransformer{}
}

func (t *prefixLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	prefix, _ := pc.Get(pathPrefixKey).(string)
	if prefix == "" {
		return
	}

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			v.Destination = prefixed(prefix, v.Destination)
		case *ast.Image:
			v.Destination = prefixed(prefix, v.Destination)
		}
		return ast.WalkContinue, nil
	})
}

func prefixed(prefix string, dest []byte) []byte {
	if !util.IsRootRelative(string(dest)) {
		return dest
	}
	return []byte(util.WithPrefix(prefix, string(dest)))
}
