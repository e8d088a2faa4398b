// internal/config/validate/color.go
package validate

import (
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	hexColor  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor = regexp.MustCompile(`^(rgba?|hsla?)\(([^()]*)\)$`)
	numOrPct  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)%?$`)
	hueAngle  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)(deg|rad|grad|turn)?$`)
)

// Keywords that are valid colors but missing from the SVG 1.1 name table.
var extraColorNames = map[string]bool{
	"transparent":   true,
	"currentcolor":  true,
	"rebeccapurple": true,
}

// IsColor reports whether s is a CSS color token: a hex code, an rgb()/hsl()
// function or a named color.
func IsColor(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	if hexColor.MatchString(s) {
		return true
	}
	if extraColorNames[s] {
		return true
	}
	if _, ok := colornames.Map[s]; ok {
		return true
	}

	m := funcColor.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	return isColorFunc(strings.HasPrefix(m[1], "hsl"), m[2])
}

// isColorFunc checks the arguments of rgb()/hsl(). The legacy form is three
// or four comma separated values; the modern form is three space separated
// values with an optional "/ alpha". Only the hsl() hue takes an angle unit.
func isColorFunc(hsl bool, args string) bool {
	args = strings.TrimSpace(args)

	var (
		parts    []string
		alpha    string
		hasAlpha bool
	)
	if strings.Contains(args, ",") {
		if strings.Contains(args, "/") {
			return false
		}
		parts = strings.Split(args, ",")
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" || strings.ContainsAny(p, " \t") {
				return false
			}
			parts[i] = p
		}
		switch len(parts) {
		case 3:
		case 4:
			alpha, hasAlpha = parts[3], true
			parts = parts[:3]
		default:
			return false
		}
	} else {
		channels := args
		if i := strings.Index(args, "/"); i >= 0 {
			channels = args[:i]
			alpha, hasAlpha = strings.TrimSpace(args[i+1:]), true
			if alpha == "" || strings.ContainsAny(alpha, " \t/") {
				return false
			}
		}
		parts = strings.Fields(channels)
		if len(parts) != 3 {
			return false
		}
	}

	for i, p := range parts {
		if i == 0 && hsl {
			if !hueAngle.MatchString(p) {
				return false
			}
			continue
		}
		if !numOrPct.MatchString(p) {
			return false
		}
	}
	if hasAlpha && !numOrPct.MatchString(alpha) {
		return false
	}
	return true
}
