package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	router "github.com/goliatone/go-spa-router"
	"github.com/goliatone/go-spa-router/guards/metagate"
	"github.com/goliatone/go-spa-router/guards/routecontext"
	"github.com/goliatone/go-spa-router/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type View struct {
	Title string
}

// UserView guards leaving an edit form with unsaved changes.
type UserView struct {
	View
	dirty bool
}

func (v *UserView) BeforeRouteLeave(to, from *router.Route, next router.Next) {
	if v.dirty {
		next(router.Abort())
		return
	}
	next()
}

type Session struct {
	LoggedIn bool
}

func main() {
	z, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer z.Sync()
	logger := router.NewZapLogger(z)

	session := &Session{}
	userView := &UserView{View: View{Title: "User"}}

	builder := router.NewRouteBuilder()
	builder.NewRoute().
		Path("/").
		Name("home").
		Component(&View{Title: "Home"})
	builder.NewRoute().
		Path("/login").
		Name("login").
		Component(&View{Title: "Login"})

	users := builder.NewRoute().
		Path("/users").
		Component(&View{Title: "Users"}).
		Meta("requiresAuth", true)
	users.Children().NewRoute().
		Path(":id").
		Name("user").
		Component(userView)
	users.Children().NewRoute().
		Path("").
		Name("users").
		Component(&View{Title: "User list"})

	builder.NewRoute().
		Path("/people/:id").
		Redirect("/users/:id")
	builder.NewRoute().
		Path("*").
		Component(&View{Title: "Not found"})

	routes, err := builder.Build()
	if err != nil {
		log.Fatalf("building routes: %v", err)
	}

	browser := router.NewMemoryBrowser("http://localhost:8080/")
	app, err := router.New(router.Config{},
		router.WithRoutes(routes...),
		router.WithMode(router.ModeHash),
		router.WithBrowser(browser),
		router.WithLogger(logger),
		router.WithScrollBehavior(func(to, from *router.Route, saved *router.Position) router.ScrollTarget {
			if saved != nil {
				return *saved
			}
			if to.Hash() != "" {
				return router.SelectorTarget{Selector: to.Hash()}
			}
			return router.Position{}
		}),
	)
	if err != nil {
		log.Fatalf("creating router: %v", err)
	}
	defer app.Teardown()

	app.BeforeEach(metagate.MustNew(metagate.Config{
		Paths:      []string{"/users/**"},
		Allow:      func(*router.Route) bool { return session.LoggedIn },
		RedirectTo: "/login",
		Logger:     logger,
	}))

	store := routecontext.NewMapStore()
	app.AfterEach(routecontext.New(store))

	collector := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	collector.Attach(app)

	app.OnSettled(func(res router.NavigationResult) {
		fmt.Printf("%-10s %s -> %s (%s)\n", res.Outcome, res.From.FullPath(), res.To.FullPath(), res.Duration)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, timeout := context.WithTimeout(ctx, 5*time.Second)
	defer timeout()

	if _, err := app.Start(ctx); err != nil {
		log.Fatalf("starting router: %v", err)
	}

	// not logged in: redirected to /login
	if _, err := app.Push(ctx, router.Path("/users/42")); err != nil {
		fmt.Println("push:", err)
	}

	session.LoggedIn = true
	if _, err := app.Push(ctx, router.Location{Name: "user", Params: map[string]string{"id": "42"}}); err != nil {
		fmt.Println("push:", err)
	}

	userView.dirty = true
	if _, err := app.Push(ctx, router.Path("/")); err != nil {
		fmt.Println("leave blocked:", err)
	}
	userView.dirty = false

	if _, err := app.Push(ctx, router.Path("/people/7")); err != nil {
		fmt.Println("push:", err)
	}

	browser.Back()
	fmt.Println("after back:", app.CurrentRoute().FullPath(), "url:", browser.Href())

	if tpl, ok := store.Get("template_context"); ok {
		fmt.Printf("template context: %v\n", tpl)
	}

	res := app.Resolve(router.Location{Name: "user", Params: map[string]string{"id": "1"}}, nil, false)
	fmt.Println("href for user 1:", res.Href)

	app.Table().PrintRoutes(os.Stdout)
}
