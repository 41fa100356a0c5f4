package router

import (
	"fmt"
	"sync"
	"sync/atomic"
)

const maxRedirects = 16

// paramFiller fills the params of a route path, logging failures under msg.
type paramFiller func(path string, params map[string]string, msg string) string

// Matcher resolves raw locations against a route table.
type Matcher struct {
	table     atomic.Pointer[Table]
	fillCache sync.Map
	parse     QueryParser
	stringify QueryStringifier
	logger    Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatcherQuery replaces the query codec used by the matcher.
func WithMatcherQuery(parse QueryParser, stringify QueryStringifier) MatcherOption {
	return func(m *Matcher) {
		if parse != nil {
			m.parse = parse
		}
		if stringify != nil {
			m.stringify = stringify
		}
	}
}

// WithMatcherLogger sets the logger for the matcher and its table.
func WithMatcherLogger(logger Logger) MatcherOption {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMatcher builds the route table for routes and returns a matcher over it.
func NewMatcher(routes []RouteConfig, opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{
		parse:     ParseQuery,
		stringify: StringifyQuery,
		logger:    &defaultLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	table, err := BuildTable(routes, WithTableLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.table.Store(table)
	return m, nil
}

// Table returns the current route table.
func (m *Matcher) Table() *Table {
	return m.table.Load()
}

// AddRoutes appends routes to the table. The new table replaces the old one
// only when it builds without error.
func (m *Matcher) AddRoutes(routes []RouteConfig) error {
	next, err := m.Table().Extend(routes)
	if err != nil {
		return err
	}
	m.table.Store(next)
	return nil
}

// Match resolves raw against the table. An unmatched location resolves to a
// route with no matched records.
func (m *Matcher) Match(raw RawLocation, current *Route, redirectedFrom *Location) *Route {
	return m.match(raw, current, redirectedFrom, 0)
}

func (m *Matcher) match(raw RawLocation, current *Route, redirectedFrom *Location, depth int) *Route {
	table := m.Table()
	location := normalizeLocation(raw, current, false, m.parse, m.fillParams, m.logger)

	if location.Name != "" {
		record, ok := table.nameMap[location.Name]
		if !ok {
			m.logger.Warn("route with name %q does not exist", location.Name)
			return m.createRoute(nil, location, nil, depth)
		}

		if location.Params == nil {
			location.Params = map[string]string{}
		}
		if current != nil {
			required := make(map[string]bool)
			for _, key := range record.regex.keys {
				if !key.Optional {
					required[paramName(key)] = true
				}
			}
			for key, value := range current.params {
				if _, set := location.Params[key]; !set && required[key] {
					location.Params[key] = value
				}
			}
		}

		location.Path = m.fillParams(record.path, location.Params, fmt.Sprintf("named route %q", location.Name))
		return m.createRoute(record, location, redirectedFrom, depth)
	}

	if location.Path != "" {
		location.Params = map[string]string{}
		for _, path := range table.pathList {
			record := table.pathMap[path]
			if params, ok := record.regex.Match(location.Path); ok {
				for k, v := range params {
					location.Params[k] = v
				}
				return m.createRoute(record, location, redirectedFrom, depth)
			}
		}
	}

	return m.createRoute(nil, location, nil, depth)
}

func (m *Matcher) createRoute(record *RouteRecord, location Location, redirectedFrom *Location, depth int) *Route {
	if record != nil && record.redirect != nil {
		from := location
		if redirectedFrom != nil {
			from = *redirectedFrom
		}
		return m.redirect(record, from, depth)
	}
	if record != nil && record.matchAs != "" {
		return m.alias(record, location, depth)
	}
	return createRoute(record, location, redirectedFrom, m.stringify)
}

func (m *Matcher) redirect(record *RouteRecord, location Location, depth int) *Route {
	if depth >= maxRedirects {
		m.logger.Warn("too many redirects while resolving %q", location.Path)
		return createRoute(nil, location, nil, m.stringify)
	}

	var target RawLocation
	switch r := record.redirect.(type) {
	case string:
		target = Path(r)
	case Path:
		target = r
	case Location:
		target = r
	case *Location:
		if r != nil {
			target = *r
		}
	case RedirectFunc:
		target = r(createRoute(record, location, nil, m.stringify))
	case func(*Route) RawLocation:
		target = r(createRoute(record, location, nil, m.stringify))
	}

	if target == nil {
		m.logger.Warn("invalid redirect option: %#v", record.redirect)
		return createRoute(nil, location, nil, m.stringify)
	}

	re := toLocation(target)
	if p, ok := target.(Path); ok {
		// a string redirect carries its own query and hash
		path, query, hash := parsePath(string(p))
		re = Location{Path: path, Hash: hash}
		if query != "" {
			re.Query = m.parse(query)
		}
	}

	query := location.Query
	if re.Query != nil {
		query = re.Query
	}
	hash := location.Hash
	if re.Hash != "" {
		hash = re.Hash
	}
	params := location.Params
	if re.Params != nil {
		params = re.Params
	}

	switch {
	case re.Name != "":
		if _, ok := m.Table().nameMap[re.Name]; !ok {
			m.logger.Warn("redirect failed: named route %q not found", re.Name)
		}
		return m.match(Location{
			Name:       re.Name,
			Query:      query,
			Hash:       hash,
			Params:     params,
			normalized: true,
		}, nil, &location, depth+1)
	case re.Path != "":
		rawPath := resolveRecordPath(re.Path, record)
		resolvedPath := m.fillParams(rawPath, params, fmt.Sprintf("redirect route with path %q", rawPath))
		return m.match(Location{
			Path:       resolvedPath,
			Query:      query,
			Hash:       hash,
			normalized: true,
		}, nil, &location, depth+1)
	default:
		m.logger.Warn("invalid redirect option: %#v", record.redirect)
		return createRoute(nil, location, nil, m.stringify)
	}
}

func (m *Matcher) alias(record *RouteRecord, location Location, depth int) *Route {
	aliasedPath := m.fillParams(record.matchAs, location.Params, fmt.Sprintf("aliased route with path %q", record.matchAs))
	aliasedMatch := m.match(Location{Path: aliasedPath, normalized: true}, nil, nil, depth)
	if len(aliasedMatch.matched) > 0 {
		aliasedRecord := aliasedMatch.matched[len(aliasedMatch.matched)-1]
		location.Params = aliasedMatch.params
		return createRoute(aliasedRecord, location, nil, m.stringify)
	}
	return createRoute(nil, location, nil, m.stringify)
}

func resolveRecordPath(path string, record *RouteRecord) string {
	base := "/"
	if record.parent != nil {
		base = record.parent.path
	}
	return resolvePath(path, base, true)
}

// fillParams fills path with params. Missing or invalid params are logged and
// yield "".
func (m *Matcher) fillParams(path string, params map[string]string, msg string) string {
	var filler *PathRegexp
	if cached, ok := m.fillCache.Load(path); ok {
		filler = cached.(*PathRegexp)
	} else {
		compiled, err := CompilePath(path, PathOptions{})
		if err != nil {
			m.logger.Warn("missing param for %s: %v", msg, err)
			return ""
		}
		m.fillCache.Store(path, compiled)
		filler = compiled
	}

	filled, err := filler.Fill(params)
	if err != nil {
		m.logger.Warn("missing param for %s: %v", msg, err)
		return ""
	}
	return filled
}
