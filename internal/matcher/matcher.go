package matcher

import "github.com/bmatcuk/doublestar/v4"

// Matcher reports whether a request path matches any of a set of glob
// patterns. Used by the access-log middleware to skip asset noise.
type Matcher struct{ patterns []string }

func New(patterns []string) Matcher { return Matcher{patterns: patterns} }

func (m Matcher) Match(s string) bool {
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, s); ok {
			return true
		}
	}
	return false
}
