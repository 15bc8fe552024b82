// Package filter decides whether a logical component name may be kept alive.
//
// A Pattern is one of a set of literal names, a comma-delimited string of
// names, or a predicate (usually a regular expression). The zero Pattern is
// "absent": it matches nothing and does not restrict caching.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Kind tags the variant held by a Pattern.
type Kind uint8

const (
	// KindNone is the absent pattern.
	KindNone Kind = iota
	// KindLiterals matches names that are elements of a set.
	KindLiterals
	// KindDelimited matches names equal to one of the comma-separated tokens.
	KindDelimited
	// KindRegexp matches names accepted by a regular expression.
	KindRegexp
	// KindFunc matches names accepted by an arbitrary predicate.
	KindFunc
)

// ErrInvalidPattern is returned by ParseStrict for malformed regexp patterns.
var ErrInvalidPattern = errors.New("filter: invalid pattern")

// Pattern is a tagged allow/deny rule. Build one with Literals,
// Delimited, Regexp, Func or Parse.
type Pattern struct {
	kind  Kind
	names []string
	list  string
	re    *regexp.Regexp
	fn    func(string) bool
}

// Literals returns a pattern matching any of names exactly.
func Literals(names ...string) Pattern {
	return Pattern{kind: KindLiterals, names: slices.Clone(names)}
}

// Delimited returns a pattern matching any comma-separated token of s.
// Tokens are compared verbatim; surrounding spaces are significant.
func Delimited(s string) Pattern {
	return Pattern{kind: KindDelimited, list: s}
}

// Regexp returns a pattern matching names accepted by re. A nil re yields
// the absent pattern.
func Regexp(re *regexp.Regexp) Pattern {
	if re == nil {
		return Pattern{}
	}
	return Pattern{kind: KindRegexp, re: re}
}

// Func returns a pattern matching names accepted by fn. A nil fn yields
// the absent pattern.
func Func(fn func(name string) bool) Pattern {
	if fn == nil {
		return Pattern{}
	}
	return Pattern{kind: KindFunc, fn: fn}
}

// Parse converts a configuration string into a Pattern.
//   - ""          => absent
//   - "/expr/"    => Regexp(expr); an invalid expression yields absent
//   - anything else => Delimited
func Parse(s string) Pattern {
	p, err := ParseStrict(s)
	if err != nil {
		return Pattern{}
	}
	return p
}

// ParseStrict is Parse but reports malformed regular expressions.
func ParseStrict(s string) (Pattern, error) {
	if s == "" {
		return Pattern{}, nil
	}
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return Pattern{}, errors.Join(ErrInvalidPattern, err)
		}
		return Regexp(re), nil
	}
	return Delimited(s), nil
}

// Kind reports which variant p holds.
func (p Pattern) Kind() Kind { return p.kind }

// Present reports whether p is set.
func (p Pattern) Present() bool { return p.kind != KindNone }

// String renders p for logs.
func (p Pattern) String() string {
	switch p.kind {
	case KindLiterals:
		return "[" + strings.Join(p.names, ",") + "]"
	case KindDelimited:
		return p.list
	case KindRegexp:
		return "/" + p.re.String() + "/"
	case KindFunc:
		return "<func>"
	default:
		return ""
	}
}

// GoString keeps %#v output readable.
func (p Pattern) GoString() string { return fmt.Sprintf("filter.Pattern(%q)", p.String()) }

// Matches reports whether name satisfies p. The absent pattern and unknown
// kinds never match.
func Matches(p Pattern, name string) bool {
	switch p.kind {
	case KindLiterals:
		return slices.Contains(p.names, name)
	case KindDelimited:
		return slices.Contains(strings.Split(p.list, ","), name)
	case KindRegexp:
		return p.re.MatchString(name)
	case KindFunc:
		return p.fn(name)
	default:
		return false
	}
}

// Cacheable applies the include/exclude rule to name. A name is cacheable
// iff (include absent OR name matches include) AND NOT (exclude present AND
// name matches exclude). An empty name never passes a present include.
func Cacheable(name string, include, exclude Pattern) bool {
	if include.Present() && (name == "" || !Matches(include, name)) {
		return false
	}
	if exclude.Present() && Matches(exclude, name) {
		return false
	}
	return true
}
