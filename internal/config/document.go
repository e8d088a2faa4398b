// internal/config/document.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"sitecfg/internal/config/validate"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	keyTitle            = "title"
	keyAuthor           = "author"
	keyDescription      = "description"
	keyPrimaryColor     = "primaryColor"
	keyShowHeaderImage  = "showHeaderImage"
	keyShowShareButtons = "showShareButtons"
	keyPostsPerPage     = "postsPerPage"
	keySocial           = "social"
	keyPathPrefix       = "pathPrefix"
	keySiteURL          = "siteUrl"
)

var knownKeys = map[string]bool{
	keyTitle: true, keyAuthor: true, keyDescription: true, keyPrimaryColor: true,
	keyShowHeaderImage: true, keyShowShareButtons: true, keyPostsPerPage: true,
	keySocial: true, keyPathPrefix: true, keySiteURL: true,
}

// decodeDocument parses any supported syntax into a generic key/value tree,
// so type mismatches can be reported per field instead of as a decode error.
func decodeDocument(data []byte, format Format) (map[string]any, error) {
	doc := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("could not parse yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("could not parse toml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("could not parse json: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, errors.New("could not parse json: trailing data")
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// fromDocument maps the generic tree onto SiteConfig. Type errors and a
// missing postsPerPage are recorded in the returned ValidationErrors.
func fromDocument(doc map[string]any) (*SiteConfig, *validate.ValidationErrors) {
	v := &validate.ValidationErrors{}
	cfg := &SiteConfig{
		Title:            readString(v, doc, keyTitle),
		Author:           readString(v, doc, keyAuthor),
		Description:      readString(v, doc, keyDescription),
		PrimaryColor:     readString(v, doc, keyPrimaryColor),
		ShowHeaderImage:  readBool(v, doc, keyShowHeaderImage),
		ShowShareButtons: readBool(v, doc, keyShowShareButtons),
		Social:           readSocial(v, doc, keySocial),
		PathPrefix:       readString(v, doc, keyPathPrefix),
		SiteURL:          readString(v, doc, keySiteURL),
	}

	if raw, ok := doc[keyPostsPerPage]; !ok || raw == nil {
		err := validate.ErrRequired(keyPostsPerPage)
		validate.LogConfigError(keyPostsPerPage, nil, err)
		v.Add(err)
	} else if n, err := toInt(keyPostsPerPage, raw); err != nil {
		validate.LogConfigError(keyPostsPerPage, raw, err)
		v.Add(err)
	} else {
		cfg.PostsPerPage = n
	}

	for key := range doc {
		if !knownKeys[key] {
			cfg.unknown = append(cfg.unknown, key)
		}
	}
	sort.Strings(cfg.unknown)
	for _, key := range cfg.unknown {
		validate.LogConfigWarn(key, doc[key], "unknown config key ignored")
	}
	return cfg, v
}

func readString(v *validate.ValidationErrors, doc map[string]any, key string) string {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		err := validate.ErrType(key, "a string", raw)
		validate.LogConfigError(key, raw, err)
		v.Add(err)
		return ""
	}
	return s
}

func readBool(v *validate.ValidationErrors, doc map[string]any, key string) bool {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		err := validate.ErrType(key, "a boolean", raw)
		validate.LogConfigError(key, raw, err)
		v.Add(err)
		return false
	}
	return b
}

// readSocial keeps only platforms with a non-empty value; a key written
// with an empty value is treated the same as an absent key.
func readSocial(v *validate.ValidationErrors, doc map[string]any, key string) Social {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		err := validate.ErrType(key, "a mapping of platform to URL", raw)
		validate.LogConfigError(key, raw, err)
		v.Add(err)
		return nil
	}

	social := Social{}
	for platform, val := range m {
		path := key + "." + platform
		if val == nil {
			continue
		}
		u, ok := val.(string)
		if !ok {
			err := validate.ErrType(path, "a URL string", val)
			validate.LogConfigError(path, val, err)
			v.Add(err)
			continue
		}
		if u == "" {
			validate.LogConfigWarn(path, u, "empty social link dropped")
			continue
		}
		social[platform] = u
	}
	if len(social) == 0 {
		return nil
	}
	return social
}

// toInt accepts every integer representation the decoders produce. Floats
// are accepted only when they hold a whole number.
func toInt(key string, raw any) (int, *validate.ValidationError) {
	var n int64
	switch x := raw.(type) {
	case int:
		return x, nil
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return 0, validate.ErrType(key, "an integer in range", raw)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x > math.MaxInt64 || x < math.MinInt64 {
			return 0, validate.ErrType(key, "an integer", raw)
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil || f != math.Trunc(f) {
				return 0, validate.ErrType(key, "an integer", raw)
			}
			i = int64(f)
		}
		n = i
	default:
		return 0, validate.ErrType(key, "an integer", raw)
	}
	if int64(int(n)) != n {
		return 0, validate.ErrType(key, "an integer in range", raw)
	}
	return int(n), nil
}
