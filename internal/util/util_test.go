package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithPrefix(t *testing.T) {
	cases := []struct {
		prefix, path, want string
	}{
		{"/devblog", "/about", "/devblog/about"},
		{"/devblog/", "/about", "/devblog/about"},
		{"/devblog", "about", "/devblog/about"},
		{"/devblog", "/", "/devblog/"},
		{"", "/about", "/about"},
		{"/", "/about", "/about"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, WithPrefix(c.prefix, c.path), "%q + %q", c.prefix, c.path)
	}
}

func TestIsRootRelative(t *testing.T) {
	assert.True(t, IsRootRelative("/about"))
	assert.False(t, IsRootRelative("//cdn.example.com/x.png"))
	assert.False(t, IsRootRelative("https://example.com"))
	assert.False(t, IsRootRelative("about"))
}
