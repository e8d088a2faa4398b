// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"sitecfg/internal/config"
	"sitecfg/internal/config/validate"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog/log"
)

const defaultDebounce = 300 * time.Millisecond

type Options struct {
	// Addr is the listen address for /ws and /config.json. Empty disables
	// the HTTP endpoints.
	Addr string
	// Debounce collapses bursts of file events into one reload.
	Debounce time.Duration
	// OnReload, when set, is called after every reload attempt.
	OnReload func(Result)
}

// Result describes one load of the config file.
type Result struct {
	Time    time.Time `json:"time"`
	OK      bool      `json:"ok"`
	Changed []string  `json:"changed,omitempty"`
	Errors  []string  `json:"errors,omitempty"`

	Config *config.SiteConfig `json:"config,omitempty"`
}

// Watcher keeps the last valid SiteConfig of a file and republishes it
// whenever the file changes.
type Watcher struct {
	path string
	opts Options
	hub  *Hub

	mu      sync.RWMutex
	current *config.SiteConfig
	last    []byte
}

func New(path string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Watcher{
		path: absPath(path),
		opts: opts,
		hub:  newHub(),
	}
}

// Watch loads path, then reloads it on every change until ctx is done.
func Watch(ctx context.Context, path string, opts Options) error {
	return New(path, opts).Run(ctx)
}

// Current returns the last config that passed validation.
func (w *Watcher) Current() *config.SiteConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run performs the initial load and fails if it is invalid. Afterwards a
// failed reload is reported but the previous config stays published.
func (w *Watcher) Run(ctx context.Context) error {
	if res := w.reload(); !res.OK {
		return fmt.Errorf("initial load of %s failed:\n%s", w.path, joinLines(res.Errors))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory; editors that save by swapping files
	// replace the watched inode.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	log.Info().Str("path", w.path).Msg("watching config")

	var srv *http.Server
	srvErr := make(chan error, 1)
	if w.opts.Addr != "" {
		srv = &http.Server{Addr: w.opts.Addr, Handler: w.Handler()}
		go func() {
			log.Info().Str("addr", w.opts.Addr).Msg("serving /config.json and /ws")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				srvErr <- err
			}
			close(srvErr)
		}()
	}

	err = w.loop(ctx, watcher, srvErr)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			log.Warn().Err(serr).Msg("http shutdown")
		}
		w.hub.closeAll()
		for range srvErr {
		}
	}
	return err
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher, srvErr <-chan error) error {
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-srvErr:
			if ok && err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			srvErr = nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if absPath(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				timer.Reset(w.opts.Debounce)
			}
		case <-timer.C:
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) reload() Result {
	res := Result{Time: time.Now()}

	cfg, err := config.LoadSiteConfig(w.path)
	if err != nil {
		res.Errors = errorLines(err)
		log.Error().Strs("errors", res.Errors).Str("path", w.path).Msg("config reload failed, keeping previous config")
	} else {
		w.mu.Lock()
		if w.current != nil {
			res.Changed = changedFields(w.current, cfg)
		}
		w.current = cfg
		w.mu.Unlock()

		res.OK = true
		res.Config = cfg
		log.Info().Strs("changed", res.Changed).Msg("config reloaded")
	}

	if msg, err := json.Marshal(res); err == nil {
		w.mu.Lock()
		w.last = msg
		w.mu.Unlock()
		w.hub.broadcastMessage(msg)
	}
	if w.opts.OnReload != nil {
		w.opts.OnReload(res)
	}
	return res
}

func (w *Watcher) lastResult() []byte {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

// Handler serves the current config at /config.json and pushes every
// reload result to websocket clients at /ws.
func (w *Watcher) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(rw http.ResponseWriter, r *http.Request) {
		serveWs(w.hub, rw, r, w.lastResult)
	})
	mux.HandleFunc("/config.json", func(rw http.ResponseWriter, r *http.Request) {
		cfg := w.Current()
		if cfg == nil {
			http.Error(rw, "no valid config loaded", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		rw.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		if err := json.NewEncoder(rw).Encode(cfg); err != nil {
			log.Warn().Err(err).Msg("failed to write config.json")
		}
	})
	return mux
}

var siteConfigType = reflect.TypeOf(config.SiteConfig{})

// changedFields lists the config keys that differ between a and b, named as
// they are written in the file. Social links are reported per platform.
func changedFields(a, b *config.SiteConfig) []string {
	var r fieldReporter
	cmp.Equal(a, b, cmpopts.IgnoreUnexported(config.SiteConfig{}), cmp.Reporter(&r))
	return r.fields
}

type fieldReporter struct {
	path   cmp.Path
	fields []string
}

func (r *fieldReporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *fieldReporter) Report(rs cmp.Result) {
	if rs.Equal() {
		return
	}
	name := keyPath(r.path)
	for _, f := range r.fields {
		if f == name {
			return
		}
	}
	r.fields = append(r.fields, name)
}

func (r *fieldReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

func keyPath(path cmp.Path) string {
	var keys []string
	for _, step := range path {
		switch s := step.(type) {
		case cmp.StructField:
			name := s.Name()
			if f, ok := siteConfigType.FieldByName(name); ok {
				if tag, _, _ := strings.Cut(f.Tag.Get("yaml"), ","); tag != "" {
					name = tag
				}
			}
			keys = append(keys, name)
		case cmp.MapIndex:
			keys = append(keys, fmt.Sprint(s.Key()))
		}
	}
	return strings.Join(keys, ".")
}

func errorLines(err error) []string {
	var all *validate.ValidationErrors
	if errors.As(err, &all) {
		lines := make([]string, 0, len(all.Errors()))
		for _, e := range all.Errors() {
			lines = append(lines, e.Error())
		}
		return lines
	}
	return []string{err.Error()}
}

func joinLines(lines []string) string {
	return " - " + strings.Join(lines, "\n - ")
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
