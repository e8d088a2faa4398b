package util

import (
	"strings"
)

// WithPrefix joins a deployment path prefix and a root-relative path, the
// same way the site generator resolves links when prefixing paths.
// For example, ("/devblog", "/about") gives "/devblog/about". The stored
// prefix itself is never rewritten.
func WithPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}

// IsRootRelative reports whether dest is a path like "/about", as opposed
// to a protocol-relative "//host" link, an absolute URL or a relative path.
func IsRootRelative(dest string) bool {
	return strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//")
}
