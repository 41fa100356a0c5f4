package router

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoutesYAML = `
mode: history
base: /app
no_fallback: true
routes:
  - path: /
    name: home
    component: Home
  - path: /users/:id
    name: user
    component: User
    before_enter: auth
    meta:
      requiresAuth: true
      roles: [admin, editor]
    alias: /u/:id
    children:
      - path: ""
        component: UserIndex
      - path: posts
        components:
          default: Posts
          side: Sidebar
        props:
          default: true
          side: false
  - path: /old
    redirect: /
  - path: /legacy
    redirect:
      name: user
      params:
        id: 1
      query:
        from: legacy
  - path: /fn
    redirect_func: toHome
  - path: /Docs
    case_sensitive: true
    path_to_regexp_options:
      strict: true
  - path: "*"
    component: NotFound
`

func testRegistry(guardCalls *int) Registry {
	return Registry{
		Components: map[string]any{
			"Home":      view("home"),
			"User":      view("user"),
			"UserIndex": view("user-index"),
			"Posts":     view("posts"),
			"Sidebar":   view("sidebar"),
			"NotFound":  view("404"),
		},
		Guards: map[string]NavigationGuard{
			"auth": func(_, _ *Route, next Next) {
				*guardCalls++
				next()
			},
		},
		Redirects: map[string]RedirectFunc{
			"toHome": func(*Route) RawLocation { return Location{Name: "home"} },
		},
	}
}

func TestLoadConfigYAML(t *testing.T) {
	guardCalls := 0
	cfg, err := LoadConfigYAML([]byte(testRoutesYAML), testRegistry(&guardCalls))
	require.NoError(t, err)

	assert.Equal(t, ModeHistory, cfg.Mode)
	assert.Equal(t, "/app", cfg.Base)
	assert.True(t, cfg.NoFallback)
	require.Len(t, cfg.Routes, 7)

	user := cfg.Routes[1]
	assert.Equal(t, "/users/:id", user.Path)
	assert.Equal(t, []string{"/u/:id"}, user.Alias)
	assert.NotNil(t, user.BeforeEnter)
	assert.Equal(t, map[string]any{"requiresAuth": true, "roles": []any{"admin", "editor"}}, user.Meta)
	require.Len(t, user.Children, 2)
	assert.Equal(t, "", user.Children[0].Path)
	assert.Equal(t, view("user-index"), user.Children[0].Component)
	assert.Equal(t, map[string]any{"default": view("posts"), "side": view("sidebar")}, user.Children[1].Components)
	assert.Equal(t, map[string]any{"default": true, "side": false}, user.Children[1].Props)

	assert.Equal(t, "/", cfg.Routes[2].Redirect)
	assert.Equal(t, Location{
		Name:   "user",
		Params: map[string]string{"id": "1"},
		Query:  map[string]any{"from": "legacy"},
	}, cfg.Routes[3].Redirect)
	_, isFunc := cfg.Routes[4].Redirect.(RedirectFunc)
	assert.True(t, isFunc)

	docs := cfg.Routes[5]
	require.NotNil(t, docs.CaseSensitive)
	assert.True(t, *docs.CaseSensitive)
	require.NotNil(t, docs.PathToRegexpOptions)
	assert.True(t, docs.PathToRegexpOptions.Strict)
}

func TestLoadConfigYAML_DrivesRouter(t *testing.T) {
	guardCalls := 0
	cfg, err := LoadConfigYAML([]byte(testRoutesYAML), testRegistry(&guardCalls))
	require.NoError(t, err)

	cfg.Logger = NopLogger{}
	r, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, ModeAbstract, r.Mode())
	startRouter(t, r)

	ctx := context.Background()
	route, err := r.Push(ctx, Path("/legacy"))
	require.NoError(t, err)
	assert.Equal(t, "/users/1?from=legacy", route.FullPath())
	assert.Equal(t, 1, guardCalls)

	route, err = r.Push(ctx, Path("/fn"))
	require.NoError(t, err)
	assert.Equal(t, "home", route.Name())

	route, err = r.Push(ctx, Path("/u/5/posts"))
	require.NoError(t, err)
	assert.Equal(t, "/u/5/posts", route.FullPath())
	assert.Equal(t, "/users/:id/posts", route.Record().Path())

	route, err = r.Push(ctx, Path("/nope"))
	require.NoError(t, err)
	assert.Equal(t, "*", route.Record().Path())
}

func TestLoadConfigYAML_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		textCode string
	}{
		{name: "invalid yaml", yaml: "routes: [", textCode: TextCodeRouteConfigInvalid},
		{name: "missing path", yaml: "routes:\n  - name: nopath\n", textCode: TextCodeRoutePathRequired},
		{name: "unknown guard", yaml: "routes:\n  - path: /a\n    before_enter: nope\n", textCode: TextCodeRouteConfigInvalid},
		{name: "unknown redirect func", yaml: "routes:\n  - path: /a\n    redirect_func: nope\n", textCode: TextCodeRouteConfigInvalid},
		{name: "invalid redirect", yaml: "routes:\n  - path: /a\n    redirect: [1, 2]\n", textCode: TextCodeRouteConfigInvalid},
		{name: "nested missing path", yaml: "routes:\n  - path: /a\n    children:\n      - name: child\n", textCode: TextCodeRoutePathRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigYAML([]byte(tt.yaml), Registry{})
			require.Error(t, err)
			assert.Equal(t, tt.textCode, TextCode(err))
		})
	}
}

func TestLoadRoutesYAML(t *testing.T) {
	data := []byte(`
- path: /a
  component: A
  alias: [/b, /c]
- path: /d
  component: Unknown
`)
	reg := Registry{
		ResolveComponent: func(id string) any {
			if id == "A" {
				return view("a")
			}
			return nil
		},
	}

	routes, err := LoadRoutesYAML(data, reg)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, view("a"), routes[0].Component)
	assert.Equal(t, []string{"/b", "/c"}, routes[0].Alias)
	assert.Equal(t, "Unknown", routes[1].Component)

	_, err = BuildTable(routes, WithTableLogger(NopLogger{}))
	require.Error(t, err)
	assert.Equal(t, TextCodeRouteComponentID, TextCode(err))
}

func TestRegistryResolvers(t *testing.T) {
	data := []byte(`
- path: /a
  before_enter: dynamic
  redirect_func: dynamic
`)
	resolved := map[string]int{}
	reg := Registry{
		ResolveGuard: func(name string) NavigationGuard {
			resolved["guard:"+name]++
			return func(_, _ *Route, next Next) { next() }
		},
		ResolveRedirect: func(name string) RedirectFunc {
			resolved["redirect:"+name]++
			return func(*Route) RawLocation { return Path("/") }
		},
	}

	routes, err := LoadRoutesYAML(data, reg)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.NotNil(t, routes[0].BeforeEnter)
	assert.NotNil(t, routes[0].Redirect)
	assert.Equal(t, map[string]int{"guard:dynamic": 1, "redirect:dynamic": 1}, resolved)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: hash\nroutes:\n  - path: /a\n"), 0o600))

	cfg, err := LoadConfigFile(path, Registry{})
	require.NoError(t, err)
	assert.Equal(t, ModeHash, cfg.Mode)
	require.Len(t, cfg.Routes, 1)

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"), Registry{})
	require.Error(t, err)
	assert.Equal(t, TextCodeRouteConfigInvalid, TextCode(err))
}
