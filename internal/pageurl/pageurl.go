package pageurl

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// BaseURL is the origin every relative path is resolved against
const BaseURL = "https://www.procyclingstats.com/"

// Building blocks for variant patterns. They match path fragments of a
// relative URL and are meant to be concatenated.
const (
	URLStr          = `/[\w\-.%]+`
	Year            = `/\d{4}`
	Overview        = `/overview`
	Anything        = `(?:/[^/?#]*)*`
	TrailingSlashes = `/*`
)

// InvalidURLError is returned when a URL does not fit a variant's pattern
type InvalidURLError struct {
	URL     string
	Example string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %q, example of valid URL: %q", e.URL, e.Example)
}

// Pattern is an anchored regular expression over relative URLs together with
// one canonical example shown to users when validation fails.
type Pattern struct {
	re      *regexp.Regexp
	Example string
}

// Compile builds a Pattern. Whitespace in expr is ignored so patterns can be
// written across several lines.
func Compile(expr, example string) (*Pattern, error) {
	re, err := regexp.Compile(`^(?:` + stripSpace(expr) + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling URL pattern: %w", err)
	}
	return &Pattern{re: re, Example: example}, nil
}

// MustCompile is like Compile but panics on a malformed expression.
// It is intended for package-level variant patterns.
func MustCompile(expr, example string) *Pattern {
	p, err := Compile(expr, example)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the relative URL fully matches the pattern
func (p *Pattern) Match(relative string) bool {
	return p.re.MatchString(relative)
}

// Validate checks the relative portion of an absolute URL
func (p *Pattern) Validate(absolute string) error {
	if !p.Match(Relative(absolute)) {
		return &InvalidURLError{URL: absolute, Example: p.Example}
	}
	return nil
}

// String returns the anchored expression
func (p *Pattern) String() string {
	return p.re.String()
}

// Absolute makes a full URL from input. Inputs that already carry an http or
// https scheme are returned unchanged, everything else is resolved against
// BaseURL with one leading and one trailing separator removed.
func Absolute(input string) string {
	input = strings.TrimSpace(input)
	if hasScheme(input) {
		return input
	}
	input = strings.TrimPrefix(input, "/")
	input = strings.TrimSuffix(input, "/")
	return BaseURL + input
}

// Relative strips scheme, host and the leading separator from an absolute URL
func Relative(absolute string) string {
	rest := absolute
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
		j := strings.Index(rest, "/")
		if j < 0 {
			return ""
		}
		rest = rest[j+1:]
	}
	return strings.TrimPrefix(rest, "/")
}

// Normalize absolutizes input and validates it against p
func Normalize(input string, p *Pattern) (string, error) {
	abs := Absolute(input)
	if err := p.Validate(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Segments splits a relative URL into its non-empty path segments
func Segments(relative string) []string {
	parts := strings.Split(relative, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
