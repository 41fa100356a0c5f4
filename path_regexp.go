package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// pathTokenRE matches escaped characters, named params with optional custom
// patterns and modifiers, unnamed groups and bare asterisks.
var pathTokenRE = regexp.MustCompile(`(\\.)|([\/.])?(?:(?:\:(\w+)(?:\(((?:\\.|[^\\()])+)\))?|\(((?:\\.|[^\\()])+)\))([+*?])?|(\*))`)

// PathOptions are forwarded to the pattern compiler. Strict is also read
// by the normalizer: without it a single trailing slash is stripped.
type PathOptions struct {
	Sensitive bool   `yaml:"sensitive"`
	Strict    bool   `yaml:"strict"`
	End       *bool  `yaml:"end"`
	Delimiter string `yaml:"delimiter"`
}

func (o PathOptions) end() bool {
	return o.End == nil || *o.End
}

func (o PathOptions) delimiter() string {
	if o.Delimiter == "" {
		return "/"
	}
	return o.Delimiter
}

// PathKey describes one parameter of a compiled path.
type PathKey struct {
	Name      string
	Prefix    string
	Delimiter string
	Optional  bool
	Repeat    bool
	Partial   bool
	Asterisk  bool
	Pattern   string
}

type pathToken struct {
	literal string
	key     *PathKey
	check   *regexp.Regexp
}

// PathRegexp is a compiled route path. It tests paths, extracts their
// parameters and fills a path back from a parameter map.
type PathRegexp struct {
	source  string
	re      *regexp.Regexp
	keys    []PathKey
	tokens  []pathToken
	options PathOptions
}

// CompilePath compiles a route path pattern such as "/users/:id(\d+)/*".
func CompilePath(path string, opts PathOptions) (*PathRegexp, error) {
	tokens, err := parsePathTokens(path, opts.delimiter())
	if err != nil {
		return nil, err
	}

	pr := &PathRegexp{source: path, tokens: tokens, options: opts}
	for _, tok := range tokens {
		if tok.key != nil {
			pr.keys = append(pr.keys, *tok.key)
		}
	}

	re, err := regexp.Compile(tokensToPattern(tokens, opts))
	if err != nil {
		return nil, err
	}
	pr.re = re
	return pr, nil
}

// MustCompilePath is like CompilePath but panics on error.
func MustCompilePath(path string, opts PathOptions) *PathRegexp {
	pr, err := CompilePath(path, opts)
	if err != nil {
		panic(err)
	}
	return pr
}

func parsePathTokens(str, defaultDelimiter string) ([]pathToken, error) {
	var tokens []pathToken
	key := 0
	index := 0
	path := ""

	for _, m := range pathTokenRE.FindAllStringSubmatchIndex(str, -1) {
		offset := m[0]
		path += str[index:offset]
		index = m[1]

		// escaped character
		if m[2] >= 0 {
			path += str[m[2]+1 : m[3]]
			continue
		}

		next := ""
		if index < len(str) {
			next = str[index : index+1]
		}
		prefix, hasPrefix := group(str, m, 2)
		name, _ := group(str, m, 3)
		capture, _ := group(str, m, 4)
		unnamed, _ := group(str, m, 5)
		modifier, _ := group(str, m, 6)
		_, asterisk := group(str, m, 7)

		if path != "" {
			tokens = append(tokens, pathToken{literal: path})
			path = ""
		}

		delimiter := defaultDelimiter
		if hasPrefix {
			delimiter = prefix
		}

		pattern := capture
		if pattern == "" {
			pattern = unnamed
		}
		switch {
		case pattern != "":
			pattern = escapeGroup(pattern)
		case asterisk:
			pattern = ".*"
		default:
			pattern = "[^" + escapeString(delimiter) + "]+?"
		}

		if name == "" {
			name = strconv.Itoa(key)
			key++
		}

		k := &PathKey{
			Name:      name,
			Prefix:    prefix,
			Delimiter: delimiter,
			Optional:  modifier == "?" || modifier == "*",
			Repeat:    modifier == "+" || modifier == "*",
			Partial:   hasPrefix && next != "" && next != prefix,
			Asterisk:  asterisk,
			Pattern:   pattern,
		}

		check, err := regexp.Compile("(?i)^(?:" + k.Pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", k.Name, err)
		}
		tokens = append(tokens, pathToken{key: k, check: check})
	}

	if index < len(str) {
		path += str[index:]
	}
	if path != "" {
		tokens = append(tokens, pathToken{literal: path})
	}

	return tokens, nil
}

func group(str string, m []int, n int) (string, bool) {
	if m[2*n] < 0 {
		return "", false
	}
	return str[m[2*n]:m[2*n+1]], true
}

func tokensToPattern(tokens []pathToken, opts PathOptions) string {
	delimiter := escapeString(opts.delimiter())
	route := ""

	endsWithDelimiter := false
	if n := len(tokens); n > 0 && tokens[n-1].key == nil {
		endsWithDelimiter = strings.HasSuffix(tokens[n-1].literal, opts.delimiter())
	}

	for _, tok := range tokens {
		if tok.key == nil {
			route += escapeString(tok.literal)
			continue
		}

		key := tok.key
		prefix := escapeString(key.Prefix)
		capture := "(?:" + key.Pattern + ")"

		if key.Repeat {
			capture += "(?:" + prefix + capture + ")*"
		}

		if key.Optional {
			if !key.Partial {
				capture = "(?:" + prefix + "(" + capture + "))?"
			} else {
				capture = prefix + "(" + capture + ")?"
			}
		} else {
			capture = prefix + "(" + capture + ")"
		}

		route += capture
	}

	if !opts.Strict {
		if endsWithDelimiter {
			route = route[:len(route)-len(delimiter)]
		}
		route += "(?:" + delimiter + ")?"
	}

	if opts.end() {
		route += "$"
	} else if !(opts.Strict && endsWithDelimiter) {
		// RE2 has no lookahead, consume the boundary instead
		route += "(?:" + delimiter + "|$)"
	}

	if opts.Sensitive {
		return "^" + route
	}
	return "(?i)^" + route
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`.+*?=^!:${}()[]|/\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeGroup(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`=!:$/()`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Source returns the pattern the regexp was compiled from.
func (p *PathRegexp) Source() string {
	return p.source
}

// Keys returns the parameter keys in declaration order.
func (p *PathRegexp) Keys() []PathKey {
	out := make([]PathKey, len(p.keys))
	copy(out, p.keys)
	return out
}

// Options returns the options the path was compiled with.
func (p *PathRegexp) Options() PathOptions {
	return p.options
}

// String returns the compiled regular expression.
func (p *PathRegexp) String() string {
	return p.re.String()
}

// MatchString reports whether path matches.
func (p *PathRegexp) MatchString(path string) bool {
	return p.re.MatchString(path)
}

// Match tests path and extracts its parameters. The first unnamed parameter
// is reported as "pathMatch".
func (p *PathRegexp) Match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.keys))
	for i, key := range p.keys {
		n := i + 1
		if 2*n+1 >= len(m) || m[2*n] < 0 {
			continue
		}
		params[paramName(key)] = decodeComponent(path[m[2*n]:m[2*n+1]])
	}
	return params, true
}

func paramName(key PathKey) string {
	if key.Name == "0" {
		return "pathMatch"
	}
	return key.Name
}

// Fill builds a path from params, encoding every value. It fails when a
// required param is missing or a value does not satisfy its pattern.
func (p *PathRegexp) Fill(params map[string]string) (string, error) {
	var b strings.Builder

	for _, tok := range p.tokens {
		if tok.key == nil {
			b.WriteString(tok.literal)
			continue
		}

		key := tok.key
		value, ok := params[key.Name]
		if !ok && key.Name == "0" {
			value, ok = params["pathMatch"]
		}

		if !ok {
			if key.Optional {
				if key.Partial {
					b.WriteString(key.Prefix)
				}
				continue
			}
			return "", fmt.Errorf("expected %q to be defined", key.Name)
		}

		var segment string
		if key.Asterisk {
			segment = encodeAsterisk(value)
		} else {
			segment = encodeURIComponentPretty(value)
		}

		if !tok.check.MatchString(segment) {
			return "", fmt.Errorf("expected %q to match %q, but received %q", key.Name, key.Pattern, segment)
		}

		b.WriteString(key.Prefix)
		b.WriteString(segment)
	}

	return b.String(), nil
}

const uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
const uriReserved = ";,/?:@&=+$#"

func encodeURI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(uriUnreserved, c) >= 0 || strings.IndexByte(uriReserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func encodeURIComponentPretty(s string) string {
	return replaceWithHex(encodeURI(s), "/?#")
}

func encodeAsterisk(s string) string {
	return replaceWithHex(encodeURI(s), "?#")
}

func replaceWithHex(s, chars string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(chars, s[i]) >= 0 {
			fmt.Fprintf(&b, "%%%02X", s[i])
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func decodeComponent(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}
