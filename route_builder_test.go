package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteBuilder_Build(t *testing.T) {
	guard := func(_, _ *Route, next Next) { next() }

	b := NewRouteBuilder()
	b.NewRoute().Path("/").Name("home").Component(view("home"))

	users := b.NewRoute().
		Path("/users").
		Component(view("layout")).
		Meta("section", "admin").
		Meta("order", 2)
	users.Children().
		NewRoute().Path("").Component(view("list")).
		End().
		NewRoute().Path(":id").Name("user").
		View("default", view("user")).
		View("side", view("side")).
		Props(true).
		BeforeEnter(guard)

	b.NewRoute().Path("/old").Redirect("/users").Alias("/legacy", "/older")
	b.NewRoute().Path("/Docs").CaseSensitive(true).PathOptions(PathOptions{Strict: true})

	routes, err := b.Build()
	require.NoError(t, err)
	require.Len(t, routes, 4)

	assert.Equal(t, "home", routes[0].Name)
	assert.Equal(t, map[string]any{"section": "admin", "order": 2}, routes[1].Meta)
	require.Len(t, routes[1].Children, 2)
	assert.Equal(t, "", routes[1].Children[0].Path)
	assert.Equal(t, map[string]any{"default": view("user"), "side": view("side")}, routes[1].Children[1].Components)
	assert.Equal(t, true, routes[1].Children[1].Props)
	assert.NotNil(t, routes[1].Children[1].BeforeEnter)
	assert.Equal(t, "/users", routes[2].Redirect)
	assert.Equal(t, []string{"/legacy", "/older"}, routes[2].Alias)
	require.NotNil(t, routes[3].CaseSensitive)
	assert.True(t, *routes[3].CaseSensitive)
	require.NotNil(t, routes[3].PathToRegexpOptions)
	assert.True(t, routes[3].PathToRegexpOptions.Strict)

	table, err := BuildTable(routes, WithTableLogger(NopLogger{}))
	require.NoError(t, err)

	list, ok := table.Lookup("/users")
	require.True(t, ok)
	assert.Equal(t, view("list"), list.Components()[DefaultView])

	user, ok := table.ByName("user")
	require.True(t, ok)
	assert.Equal(t, "/users/:id", user.Path())
}

func TestRouteBuilder_Errors(t *testing.T) {
	t.Run("empty builder", func(t *testing.T) {
		_, err := NewRouteBuilder().Build()
		assert.EqualError(t, err, "no routes to build")
	})

	t.Run("missing path", func(t *testing.T) {
		b := NewRouteBuilder()
		b.NewRoute().Name("nopath")
		b.NewRoute().Path("/ok")

		routes, err := b.Build()
		require.Error(t, err)
		assert.Equal(t, TextCodeRoutePathRequired, TextCode(err))
		require.Len(t, routes, 1)
		assert.Equal(t, "/ok", routes[0].Path)
	})

	t.Run("errors are joined", func(t *testing.T) {
		b := NewRouteBuilder()
		b.NewRoute().Name("nopath")
		b.NewRoute().Path("/a").Component("A")

		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"path" is required`)
		assert.Contains(t, err.Error(), "failed to build route /a")
	})

	t.Run("child errors carry the parent", func(t *testing.T) {
		b := NewRouteBuilder()
		b.NewRoute().Path("/users").Name("users").
			Children().NewRoute().Path(":id").Name("user").View("side", "Side")

		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build children of /users (users)")
		assert.Contains(t, err.Error(), "failed to build route :id (user)")
		assert.Equal(t, TextCodeRouteComponentID, TextCode(err))
	})

	t.Run("empty children", func(t *testing.T) {
		b := NewRouteBuilder()
		b.NewRoute().Path("/a").Children()

		routes, err := b.Build()
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Empty(t, routes[0].Children)
	})
}

func TestRouteBuilder_MustBuild(t *testing.T) {
	assert.Panics(t, func() {
		NewRouteBuilder().MustBuild()
	})

	b := NewRouteBuilder()
	b.NewRoute().Path("/a")
	assert.NotPanics(t, func() {
		routes := b.MustBuild()
		assert.Len(t, routes, 1)
	})
}
