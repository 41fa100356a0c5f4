package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, logger Logger) *Matcher {
	t.Helper()
	m, err := NewMatcher([]RouteConfig{
		{Path: "/", Name: "home"},
		{Path: "/users/:id", Name: "user"},
		{Path: "/old-users/:id", Redirect: "/users/:id"},
		{Path: "/legacy", Redirect: Location{Name: "home"}},
		{Path: "/fn/:id", Redirect: RedirectFunc(func(to *Route) RawLocation {
			return Path("/users/" + to.Param("id"))
		})},
		{Path: "/q", Redirect: "/users/9?from=q#h"},
		{Path: "/profile", Name: "profile", Alias: []string{"/me"}},
		{Path: "/loop", Redirect: "/loop"},
	}, WithMatcherLogger(logger))
	require.NoError(t, err)
	return m
}

func TestMatcher_Match(t *testing.T) {
	m := newTestMatcher(t, NopLogger{})

	tests := []struct {
		name           string
		raw            RawLocation
		fullPath       string
		routeName      string
		recordPath     string
		redirectedFrom string
	}{
		{name: "path with param", raw: Path("/users/42"), fullPath: "/users/42", routeName: "user", recordPath: "/users/:id"},
		{name: "named with params", raw: Location{Name: "user", Params: map[string]string{"id": "7"}}, fullPath: "/users/7", routeName: "user", recordPath: "/users/:id"},
		{name: "hash gets prefixed", raw: Location{Path: "/users/1", Hash: "top"}, fullPath: "/users/1#top", routeName: "user", recordPath: "/users/:id"},
		{name: "query object", raw: Location{Path: "/users/1", Query: map[string]any{"n": 2}}, fullPath: "/users/1?n=2", routeName: "user", recordPath: "/users/:id"},
		{name: "string redirect fills params", raw: Path("/old-users/5"), fullPath: "/users/5", routeName: "user", recordPath: "/users/:id", redirectedFrom: "/old-users/5"},
		{name: "named redirect keeps query", raw: Path("/legacy?x=1"), fullPath: "/?x=1", routeName: "home", recordPath: "", redirectedFrom: "/legacy?x=1"},
		{name: "function redirect", raw: Path("/fn/3"), fullPath: "/users/3", routeName: "user", recordPath: "/users/:id", redirectedFrom: "/fn/3"},
		{name: "redirect with own query and hash", raw: Path("/q"), fullPath: "/users/9?from=q#h", routeName: "user", recordPath: "/users/:id", redirectedFrom: "/q"},
		{name: "alias keeps its path", raw: Path("/me"), fullPath: "/me", routeName: "profile", recordPath: "/profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := m.Match(tt.raw, nil, nil)
			require.True(t, route.IsMatched())
			assert.Equal(t, tt.fullPath, route.FullPath())
			assert.Equal(t, tt.routeName, route.Name())
			assert.Equal(t, tt.recordPath, route.Record().Path())
			assert.Equal(t, tt.redirectedFrom, route.RedirectedFrom())
		})
	}
}

func TestMatcher_RelativeToCurrent(t *testing.T) {
	m := newTestMatcher(t, NopLogger{})
	current := m.Match(Path("/users/42"), nil, nil)
	require.Equal(t, "42", current.Param("id"))

	tests := []struct {
		name     string
		raw      RawLocation
		fullPath string
	}{
		{name: "named reuses current params", raw: Location{Name: "user"}, fullPath: "/users/42"},
		{name: "relative params", raw: Location{Params: map[string]string{"id": "43"}}, fullPath: "/users/43"},
		{name: "relative path", raw: Path("7"), fullPath: "/users/7"},
		{name: "append", raw: Location{Path: "edit", Append: true}, fullPath: "/users/42/edit"},
		{name: "query only", raw: Path("?tab=2"), fullPath: "/users/42?tab=2"},
		{name: "hash only", raw: Path("#bio"), fullPath: "/users/42#bio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fullPath, m.Match(tt.raw, current, nil).FullPath())
		})
	}
}

func TestMatcher_Failures(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawLocation
		path    string
		matched bool
		warning string
	}{
		{name: "unknown path", raw: Path("/nowhere"), path: "/nowhere"},
		{name: "unknown name", raw: Location{Name: "nope"}, path: "/", warning: `route with name "nope" does not exist`},
		{name: "redirect loop", raw: Path("/loop"), path: "/loop", warning: "too many redirects"},
		{name: "missing named param", raw: Location{Name: "user"}, path: "/", matched: true, warning: "missing param for named route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewMockLogger()
			m := newTestMatcher(t, logger)

			route := m.Match(tt.raw, nil, nil)
			assert.Equal(t, tt.matched, route.IsMatched())
			assert.Equal(t, tt.path, route.Path())
			if tt.warning != "" {
				assert.True(t, logger.HasMessage("Warn", tt.warning), "warnings: %v", logger.Warnings())
			} else {
				assert.Empty(t, logger.Warnings())
			}
		})
	}
}

func TestMatcher_Wildcard(t *testing.T) {
	m, err := NewMatcher([]RouteConfig{
		{Path: "*", Name: "not-found"},
		{Path: "/a"},
	}, WithMatcherLogger(NopLogger{}))
	require.NoError(t, err)

	route := m.Match(Path("/missing/page"), nil, nil)
	assert.Equal(t, "not-found", route.Name())
	assert.Equal(t, "/missing/page", route.Param("pathMatch"))

	assert.Equal(t, "/a", m.Match(Path("/a"), nil, nil).Record().Path())
}

func TestMatcher_AddRoutes(t *testing.T) {
	m := newTestMatcher(t, NopLogger{})
	before := m.Table()

	require.NoError(t, m.AddRoutes([]RouteConfig{{Path: "/extra", Name: "extra"}}))
	assert.True(t, m.Match(Path("/extra"), nil, nil).IsMatched())
	assert.NotSame(t, before, m.Table())

	err := m.AddRoutes([]RouteConfig{{Name: "broken"}})
	require.Error(t, err)
	assert.Equal(t, TextCodeRoutePathRequired, TextCode(err))
	_, ok := m.Table().ByName("extra")
	assert.True(t, ok)
}

func TestMatcher_CustomQueryCodec(t *testing.T) {
	parse := func(string) map[string]any { return map[string]any{"parsed": "yes"} }
	stringify := func(q map[string]any) string {
		if len(q) == 0 {
			return ""
		}
		return "?custom"
	}
	m, err := NewMatcher([]RouteConfig{{Path: "/a"}},
		WithMatcherLogger(NopLogger{}),
		WithMatcherQuery(parse, stringify))
	require.NoError(t, err)

	route := m.Match(Path("/a?x=1"), nil, nil)
	assert.Equal(t, "yes", route.QueryValue("parsed"))
	assert.Equal(t, "/a?custom", route.FullPath())
}
