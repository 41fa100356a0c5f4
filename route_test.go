package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoute(path string, query map[string]any, hash string) *Route {
	return createRoute(nil, Location{Path: path, Query: query, Hash: hash}, nil, nil)
}

func TestCreateRoute_Defaults(t *testing.T) {
	route := createRoute(nil, Location{}, nil, nil)
	assert.Equal(t, "/", route.Path())
	assert.Equal(t, "/", route.FullPath())
	assert.False(t, route.IsMatched())
	assert.Nil(t, route.Record())
	assert.Empty(t, route.Meta())
}

func TestCreateRoute_FullPathAndRedirectedFrom(t *testing.T) {
	from := Location{Path: "/old", Query: map[string]any{"a": "1"}}
	route := createRoute(nil, Location{
		Path:  "/new",
		Query: map[string]any{"b": "2", "a": "1"},
		Hash:  "#top",
	}, &from, nil)

	assert.Equal(t, "/new?a=1&b=2#top", route.FullPath())
	assert.Equal(t, "/old?a=1", route.RedirectedFrom())
	assert.Equal(t, "#top", route.Hash())
}

func TestRoute_AccessorsReturnCopies(t *testing.T) {
	route := createRoute(nil, Location{
		Path:   "/users/1",
		Params: map[string]string{"id": "1"},
		Query:  map[string]any{"tags": []string{"a", "b"}},
	}, nil, nil)

	params := route.Params()
	params["id"] = "2"
	query := route.Query()
	query["tags"].([]string)[0] = "z"

	assert.Equal(t, "1", route.Param("id"))
	assert.Equal(t, "a", route.QueryValue("tags"))
	assert.Equal(t, "", route.QueryValue("missing"))
}

func TestRoute_MatchedChain(t *testing.T) {
	table, err := BuildTable([]RouteConfig{{
		Path:      "/users",
		Component: "users",
		Meta:      map[string]any{"section": "users"},
		Children: []RouteConfig{
			{Path: ":id", Name: "user", Meta: map[string]any{"leaf": true}},
		},
	}}, WithTableLogger(NopLogger{}))
	if err == nil {
		t.Fatal("expected a string component to be rejected")
	}
	assert.Nil(t, table)

	table, err = BuildTable([]RouteConfig{{
		Path:      "/users",
		Component: struct{}{},
		Children: []RouteConfig{
			{Path: ":id", Name: "user", Component: struct{}{}, Meta: map[string]any{"leaf": true}},
		},
	}}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	record, ok := table.ByName("user")
	require.True(t, ok)

	route := createRoute(record, Location{Path: "/users/7", Params: map[string]string{"id": "7"}}, nil, nil)
	matched := route.Matched()
	require.Len(t, matched, 2)
	assert.Equal(t, "/users", matched[0].Path())
	assert.Equal(t, "/users/:id", matched[1].Path())
	assert.Equal(t, record, route.Record())
	assert.Equal(t, "user", route.Name())
	assert.Equal(t, true, route.Meta()["leaf"])
}

func TestStartRoute(t *testing.T) {
	start := StartRoute()
	assert.Same(t, start, StartRoute())
	assert.Equal(t, "/", start.FullPath())
	assert.False(t, start.IsMatched())
	assert.True(t, IsSameRoute(StartRoute(), StartRoute()))
	assert.False(t, IsSameRoute(StartRoute(), newTestRoute("/", nil, "")))
}

func TestRoute_QueryValue(t *testing.T) {
	route := newTestRoute("/a", ParseQuery("s=x&list=1&list=2&mixed=3&mixed&bare&bare=4"), "")

	assert.Equal(t, "x", route.QueryValue("s"))
	assert.Equal(t, "1", route.QueryValue("list"))
	assert.Equal(t, "3", route.QueryValue("mixed"))
	assert.Equal(t, "", route.QueryValue("bare"))
	assert.Equal(t, "", route.QueryValue("missing"))
}

func TestIsSameRoute(t *testing.T) {
	tests := []struct {
		name string
		a, b *Route
		want bool
	}{
		{name: "start equals itself", a: startRoute, b: startRoute, want: true},
		{name: "start differs from root", a: startRoute, b: newTestRoute("/", nil, ""), want: false},
		{name: "nil", a: nil, b: newTestRoute("/", nil, ""), want: false},
		{name: "trailing slash ignored", a: newTestRoute("/a/", nil, ""), b: newTestRoute("/a", nil, ""), want: true},
		{name: "scalars coerced", a: newTestRoute("/a", map[string]any{"n": 1}, ""), b: newTestRoute("/a", map[string]any{"n": "1"}, ""), want: true},
		{name: "query differs", a: newTestRoute("/a", map[string]any{"n": "1"}, ""), b: newTestRoute("/a", map[string]any{"n": "2"}, ""), want: false},
		{name: "hash differs", a: newTestRoute("/a", nil, "#x"), b: newTestRoute("/a", nil, "#y"), want: false},
		{name: "nested query", a: newTestRoute("/a", map[string]any{"f": map[string]any{"x": "1"}}, ""), b: newTestRoute("/a", map[string]any{"f": map[string]any{"x": "1"}}, ""), want: true},
		{name: "null vs value", a: newTestRoute("/a", map[string]any{"f": nil}, ""), b: newTestRoute("/a", map[string]any{"f": ""}, ""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSameRoute(tt.a, tt.b))
		})
	}
}

func TestIsSamePath_IgnoresQueryAndHash(t *testing.T) {
	a := newTestRoute("/a", map[string]any{"x": "1"}, "#one")
	b := newTestRoute("/a/", map[string]any{"y": "2"}, "#two")
	assert.True(t, IsSamePath(a, b))
	assert.False(t, IsSameRoute(a, b))
}

func TestIsIncludedRoute(t *testing.T) {
	current := newTestRoute("/a/b", map[string]any{"x": "1"}, "#h")

	tests := []struct {
		name   string
		target *Route
		want   bool
	}{
		{name: "ancestor", target: newTestRoute("/a", nil, ""), want: true},
		{name: "itself", target: newTestRoute("/a/b", nil, ""), want: true},
		{name: "segment prefix only", target: newTestRoute("/a/bc", nil, ""), want: false},
		{name: "partial segment", target: newTestRoute("/a/", nil, ""), want: true},
		{name: "query key present", target: newTestRoute("/a", map[string]any{"x": "other"}, ""), want: true},
		{name: "query key missing", target: newTestRoute("/a", map[string]any{"y": "1"}, ""), want: false},
		{name: "hash mismatch", target: newTestRoute("/a", nil, "#other"), want: false},
		{name: "nil", target: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIncludedRoute(current, tt.target))
		})
	}
}
