package router

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testView struct{ id string }

func view(id string) *testView { return &testView{id: id} }

func TestBuildTable_Order(t *testing.T) {
	logger := NewMockLogger()
	table, err := BuildTable([]RouteConfig{
		{Path: "*", Component: view("404")},
		{Path: "/a", Name: "A", Component: view("a"), Children: []RouteConfig{
			{Path: ":id", Component: view("a-id")},
		}},
		{Path: "/b/:id", Component: view("b")},
	}, WithTableLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/a/:id", "/b/:id", "*"}, table.PathList())
	assert.Equal(t, 4, table.Len())

	record, ok := table.ByName("A")
	require.True(t, ok)
	assert.Equal(t, "/a", record.Path())

	child, ok := table.Lookup("/a/:id")
	require.True(t, ok)
	assert.Equal(t, record, child.Parent())
	assert.Empty(t, logger.Warnings())
}

func TestBuildTable_MultipleWildcardsStayLast(t *testing.T) {
	table, err := BuildTable([]RouteConfig{
		{Path: "*"},
		{Path: "/x"},
		{Path: "/y"},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"/x", "/y", "*"}, table.PathList())
}

func TestBuildTable_DuplicateNameKeepsFirst(t *testing.T) {
	logger := NewMockLogger()
	logger.On("Warn", "duplicate named routes definition: { name: %q, path: %q }", []any{"A", "/b"}).Once()

	table, err := BuildTable([]RouteConfig{
		{Path: "/a", Name: "A"},
		{Path: "/b", Name: "A"},
	}, WithTableLogger(logger))
	require.NoError(t, err)

	record, ok := table.ByName("A")
	require.True(t, ok)
	assert.Equal(t, "/a", record.Path())
	assert.Equal(t, []string{"/a", "/b"}, table.PathList())
	logger.AssertExpectations(t)
}

func TestBuildTable_DuplicatePathKeepsFirst(t *testing.T) {
	first := view("first")
	table, err := BuildTable([]RouteConfig{
		{Path: "/a", Component: first},
		{Path: "/a", Component: view("second")},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	record, _ := table.Lookup("/a")
	assert.Equal(t, first, record.Component(DefaultView))
	assert.Equal(t, 1, table.Len())
}

func TestBuildTable_FatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		routes   []RouteConfig
		textCode string
	}{
		{
			name:     "missing path",
			routes:   []RouteConfig{{Name: "nopath"}},
			textCode: TextCodeRoutePathRequired,
		},
		{
			name:     "string component",
			routes:   []RouteConfig{{Path: "/a", Component: "Home"}},
			textCode: TextCodeRouteComponentID,
		},
		{
			name:     "string named view",
			routes:   []RouteConfig{{Path: "/a", Components: map[string]any{"side": "Side"}}},
			textCode: TextCodeRouteComponentID,
		},
		{
			name: "nested string component",
			routes: []RouteConfig{{Path: "/a", Children: []RouteConfig{
				{Path: "b", Component: "B"},
			}}},
			textCode: TextCodeRouteComponentID,
		},
		{
			name:     "invalid pattern",
			routes:   []RouteConfig{{Path: "/a/:id([)"}},
			textCode: TextCodeRoutePatternInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := BuildTable(tt.routes, WithTableLogger(NopLogger{}))
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Equal(t, tt.textCode, TextCode(err))
		})
	}
}

func TestBuildTable_Alias(t *testing.T) {
	table, err := BuildTable([]RouteConfig{
		{Path: "/home", Name: "home", Alias: []string{"/start", "/home"}, Children: []RouteConfig{
			{Path: "news"},
		}},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"/home", "/home/news", "/start", "/start/news"}, table.PathList())

	alias, ok := table.Lookup("/start")
	require.True(t, ok)
	assert.True(t, alias.IsAlias())
	assert.Equal(t, "/home", alias.MatchAs())

	aliasChild, ok := table.Lookup("/start/news")
	require.True(t, ok)
	assert.Equal(t, "/home/news", aliasChild.MatchAs())

	canonical, _ := table.ByName("home")
	assert.False(t, canonical.IsAlias())
	assert.Equal(t, []string{"/start", "/home"}, canonical.Aliases())
}

func TestBuildTable_AliasSameAsPathWarns(t *testing.T) {
	logger := NewMockLogger()
	_, err := BuildTable([]RouteConfig{
		{Path: "/home", Alias: []string{"/home"}},
	}, WithTableLogger(logger))
	require.NoError(t, err)
	assert.True(t, logger.HasMessage("Warn", "same value as the path"))
}

func TestBuildTable_DefaultChildTakesParentPath(t *testing.T) {
	for _, childPath := range []string{"", "/"} {
		t.Run("child path "+strconv.Quote(childPath), func(t *testing.T) {
			index := view("index")
			logger := NewMockLogger()
			table, err := BuildTable([]RouteConfig{
				{Path: "/users", Component: view("layout"), Children: []RouteConfig{
					{Path: childPath, Component: index},
					{Path: ":id", Component: view("user")},
				}},
			}, WithTableLogger(logger))
			require.NoError(t, err)

			assert.Equal(t, []string{"/users", "/users/:id"}, table.PathList())

			record, ok := table.Lookup("/users")
			require.True(t, ok)
			assert.Equal(t, index, record.Component(DefaultView))
			assert.Equal(t, "/users", record.Path())
			require.NotNil(t, record.Parent())
			assert.Equal(t, "/users", record.Parent().Path())
			assert.Empty(t, logger.Warnings())
		})
	}
}

func TestMatcher_DefaultChildIsReachable(t *testing.T) {
	for _, childPath := range []string{"", "/"} {
		t.Run("child path "+strconv.Quote(childPath), func(t *testing.T) {
			m, err := NewMatcher([]RouteConfig{
				{Path: "/a", Component: view("layout"), Children: []RouteConfig{
					{Path: childPath, Component: view("index")},
				}},
			}, WithMatcherLogger(NopLogger{}))
			require.NoError(t, err)

			for _, target := range []string{"/a", "/a/"} {
				route := m.Match(Path(target), nil, nil)
				require.Len(t, route.Matched(), 2, target)
				assert.Equal(t, view("index"), route.Record().Component(DefaultView), target)
			}
		})
	}
}

func TestBuildTable_MetaIsCopied(t *testing.T) {
	meta := map[string]any{"requiresAuth": true}
	routes := []RouteConfig{{Path: "/a", Meta: meta}}

	table, err := BuildTable(routes, WithTableLogger(NopLogger{}))
	require.NoError(t, err)
	m, err := NewMatcher(routes, WithMatcherLogger(NopLogger{}))
	require.NoError(t, err)

	meta["requiresAuth"] = false
	meta["extra"] = 1

	record, ok := table.Lookup("/a")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"requiresAuth": true}, record.Meta())
	assert.Equal(t, map[string]any{"requiresAuth": true}, m.Match(Path("/a"), nil, nil).Meta())
}

func TestBuildTable_NamedParentWithDefaultChildWarns(t *testing.T) {
	logger := NewMockLogger()
	_, err := BuildTable([]RouteConfig{
		{Path: "/users", Name: "users", Children: []RouteConfig{{Path: ""}}},
	}, WithTableLogger(logger))
	require.NoError(t, err)
	assert.True(t, logger.HasMessage("Warn", `named route "users" has a default child route`))
}

func TestBuildTable_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		routes []RouteConfig
		substr string
	}{
		{name: "missing leading slash", routes: []RouteConfig{{Path: "about"}}, substr: "leading slash"},
		{name: "unencoded path", routes: []RouteConfig{{Path: "/café"}}, substr: "unencoded characters"},
		{name: "duplicate params", routes: []RouteConfig{{Path: "/:id/:id"}}, substr: "duplicate param keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewMockLogger()
			_, err := BuildTable(tt.routes, WithTableLogger(logger))
			require.NoError(t, err)
			assert.True(t, logger.HasMessage("Warn", tt.substr), "warnings: %v", logger.Warnings())
		})
	}
}

func TestBuildTable_CaseSensitiveAndStrict(t *testing.T) {
	sensitive := true
	table, err := BuildTable([]RouteConfig{
		{Path: "/Upper", CaseSensitive: &sensitive},
		{Path: "/strict/", PathToRegexpOptions: &PathOptions{Strict: true}},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	upper, _ := table.Lookup("/Upper")
	assert.True(t, upper.Regex().MatchString("/Upper"))
	assert.False(t, upper.Regex().MatchString("/upper"))

	strict, ok := table.Lookup("/strict/")
	require.True(t, ok)
	assert.False(t, strict.Regex().MatchString("/strict"))
}

func TestBuildTable_RecordShape(t *testing.T) {
	main, side := view("main"), view("side")
	table, err := BuildTable([]RouteConfig{
		{
			Path:       "/dash",
			Components: map[string]any{DefaultView: main, "side": side},
			Props:      map[string]any{DefaultView: true, "side": false},
		},
		{Path: "/single", Component: main, Props: true},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	dash, _ := table.Lookup("/dash")
	assert.Equal(t, map[string]any{DefaultView: main, "side": side}, dash.Components())
	assert.Equal(t, map[string]any{DefaultView: true, "side": false}, dash.Props())
	assert.Equal(t, map[string]any{}, dash.Meta())

	single, _ := table.Lookup("/single")
	assert.Equal(t, map[string]any{DefaultView: true}, single.Props())
}

func TestTable_ExtendDoesNotMutate(t *testing.T) {
	base, err := BuildTable([]RouteConfig{
		{Path: "/a", Name: "a"},
		{Path: "*"},
	}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	extended, err := base.Extend([]RouteConfig{{Path: "/b", Name: "b"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "*"}, base.PathList())
	_, ok := base.ByName("b")
	assert.False(t, ok)

	assert.Equal(t, []string{"/a", "/b", "*"}, extended.PathList())
	_, ok = extended.ByName("b")
	assert.True(t, ok)

	_, err = base.Extend([]RouteConfig{{Path: "/c", Component: "C"}})
	require.Error(t, err)
	assert.Equal(t, []string{"/a", "*"}, base.PathList())
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	table, err := BuildTable([]RouteConfig{{Path: "/a", Name: "a"}}, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	list := table.PathList()
	list[0] = "/changed"
	delete(table.PathMap(), "/a")
	delete(table.NameMap(), "a")

	assert.Equal(t, []string{"/a"}, table.PathList())
	_, ok := table.Lookup("/a")
	assert.True(t, ok)
	_, ok = table.ByName("a")
	assert.True(t, ok)
	assert.Len(t, table.Records(), 1)
	assert.Equal(t, "Table[/a]", table.String())
}
