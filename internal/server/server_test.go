package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sitecfg/internal/config"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const siteYAML = `title: "Param's Blog"
author: "Parampreet Singh Rai"
primaryColor: "#028090"
postsPerPage: 5
social:
  github: "https://github.com/parampreetr"
pathPrefix: "/devblog"
`

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// waitResult rewrites the file until the watcher reports a result matching
// want. Writes can race with the watch being registered, and a reload may
// observe a partially written file.
func waitResult(t *testing.T, results <-chan Result, path, content string, want func(Result) bool) Result {
	t.Helper()
	writeConfig(t, path, content)
	retry := time.NewTicker(250 * time.Millisecond)
	defer retry.Stop()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			if want(res) {
				return res
			}
		case <-retry.C:
			writeConfig(t, path, content)
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	writeConfig(t, path, siteYAML)

	results := make(chan Result, 64)
	w := New(path, Options{
		Debounce: 20 * time.Millisecond,
		OnReload: func(r Result) { results <- r },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	initial := <-results
	require.True(t, initial.OK)
	assert.Empty(t, initial.Changed)

	updated := strings.Replace(siteYAML, "postsPerPage: 5", "postsPerPage: 10", 1)
	res := waitResult(t, results, path, updated, func(r Result) bool {
		return r.OK && len(r.Changed) > 0
	})
	assert.Equal(t, []string{"postsPerPage"}, res.Changed)
	assert.Equal(t, 10, w.Current().PostsPerPage)

	invalid := strings.Replace(updated, "postsPerPage: 10", "postsPerPage: 0", 1)
	bad := waitResult(t, results, path, invalid, func(r Result) bool {
		return !r.OK && strings.Contains(strings.Join(r.Errors, "\n"), "postsPerPage must be at least 1")
	})
	assert.Nil(t, bad.Config)
	assert.Equal(t, 10, w.Current().PostsPerPage, "previous config stays published")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_InitialLoadFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	writeConfig(t, path, "title: T\n")

	err := Watch(context.Background(), path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "author is required")
	assert.Contains(t, err.Error(), "postsPerPage is required")
}

func TestHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	w := New(path, Options{})

	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/config.json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	writeConfig(t, path, siteYAML)
	require.True(t, w.reload().OK)

	resp, err = http.Get(srv.URL + "/config.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg config.SiteConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "/devblog", cfg.PathPrefix)
	assert.Equal(t, config.Social{"github": "https://github.com/parampreetr"}, cfg.Social)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var first Result
	require.NoError(t, conn.ReadJSON(&first))
	assert.True(t, first.OK)

	assert.Equal(t, 1, w.hub.count(), "registered before the snapshot is sent")

	writeConfig(t, path, strings.Replace(siteYAML, "/devblog", "/blog", 1))
	w.reload()

	var next Result
	require.NoError(t, conn.ReadJSON(&next))
	assert.True(t, next.OK)
	assert.Equal(t, []string{"pathPrefix"}, next.Changed)

	w.hub.closeAll()
}

func TestChangedFields(t *testing.T) {
	a := &config.SiteConfig{Title: "A", PostsPerPage: 5, Social: config.Social{"github": "https://github.com/a"}}
	b := &config.SiteConfig{Title: "B", PostsPerPage: 5, Social: config.Social{"github": "https://github.com/b"}}

	assert.ElementsMatch(t, []string{"title", "social.github"}, changedFields(a, b))
	assert.Empty(t, changedFields(a, a))

	c := &config.SiteConfig{Title: "A", PostsPerPage: 7, SiteURL: "https://example.org/",
		Social: config.Social{"github": "https://github.com/a", "twitter": "https://twitter.com/a"}}
	assert.ElementsMatch(t, []string{"postsPerPage", "siteUrl", "social.twitter"}, changedFields(a, c))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestWatch_ServesAndShutsDown(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	writeConfig(t, path, siteYAML)
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, Options{Addr: addr, Debounce: 20 * time.Millisecond}) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer conn.Close()

	var first Result
	require.NoError(t, conn.ReadJSON(&first))
	assert.True(t, first.OK)
	require.NotNil(t, first.Config)
	assert.Equal(t, "/devblog", first.Config.PathPrefix)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr + "/config.json")
	require.NoError(t, err)
	var cfg config.SiteConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	resp.Body.Close()
	assert.Equal(t, 5, cfg.PostsPerPage)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watcher did not stop")
	}

	// The hub closed the connection on shutdown.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestWatch_PortInUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	path := filepath.Join(t.TempDir(), "site.yaml")
	writeConfig(t, path, siteYAML)

	done := make(chan error, 1)
	go func() { done <- Watch(context.Background(), path, Options{Addr: ln.Addr().String()}) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server:")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the listen error")
	}
}
