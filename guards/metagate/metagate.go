package metagate

import (
	"fmt"

	"github.com/gobwas/glob"
	goerrors "github.com/goliatone/go-errors"
	router "github.com/goliatone/go-spa-router"
)

// TextCodeDenied is the text code of the error strict guards fail with.
const TextCodeDenied = "NAVIGATION_DENIED"

type Config struct {
	Skip func(to, from *router.Route) bool
	// Paths are glob patterns with '/' as separator, "/admin/**" covers
	// every path below /admin.
	Paths []string
	// MetaKey names the meta flag a matched record must carry.
	MetaKey string
	// Allow decides whether a gated navigation may proceed. A nil Allow
	// denies every gated navigation.
	Allow func(to *router.Route) bool
	// RedirectTo is where denied navigations go. Empty aborts instead.
	RedirectTo string

	// RedirectQueryKey carries the denied full path on the redirect.
	RedirectQueryKey string
	Strict           bool
	Logger           router.Logger
}

var ConfigDefault = Config{
	Skip:             nil,
	Paths:            []string{"/**"},
	MetaKey:          "requiresAuth",
	RedirectQueryKey: "redirect",
	Logger:           router.NopLogger{},
}

// New returns a guard for Router.BeforeEach or a route's BeforeEnter.
func New(config ...Config) (router.NavigationGuard, error) {
	cfg := configDefault(config...)

	patterns := make([]glob.Glob, 0, len(cfg.Paths))
	for _, path := range cfg.Paths {
		g, err := glob.Compile(path, '/')
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation,
				fmt.Sprintf("metagate: invalid path pattern %q", path)).
				WithTextCode("METAGATE_PATTERN_INVALID")
		}
		patterns = append(patterns, g)
	}

	return func(to, from *router.Route, next router.Next) {
		if cfg.Skip != nil && cfg.Skip(to, from) {
			next()
			return
		}

		if !inScope(patterns, to.Path()) || !flagged(to, cfg.MetaKey) {
			next()
			return
		}

		if cfg.Allow != nil && cfg.Allow(to) {
			next()
			return
		}

		cfg.Logger.Debug("metagate: denied navigation to %s", to.FullPath())

		if cfg.Strict {
			next(router.Fail(goerrors.New("navigation denied by metagate", goerrors.CategoryRouting).
				WithTextCode(TextCodeDenied).
				WithMetadata(map[string]any{
					"to":       to.FullPath(),
					"from":     from.FullPath(),
					"meta_key": cfg.MetaKey,
				})))
			return
		}

		if cfg.RedirectTo == "" || cfg.RedirectTo == to.Path() {
			next(router.Abort())
			return
		}

		location := router.Location{Path: cfg.RedirectTo}
		if cfg.RedirectQueryKey != "" {
			location.Query = map[string]any{cfg.RedirectQueryKey: to.FullPath()}
		}
		next(router.Redirect(location))
	}, nil
}

// MustNew is like New but panics on an invalid path pattern.
func MustNew(config ...Config) router.NavigationGuard {
	guard, err := New(config...)
	if err != nil {
		panic(err)
	}
	return guard
}

func inScope(patterns []glob.Glob, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// flagged reports whether any record in the matched chain carries a truthy
// meta value under key, so children inherit the flag of their parent.
func flagged(to *router.Route, key string) bool {
	for _, record := range to.Matched() {
		if truthy(record.Meta()[key]) {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	case int:
		return t != 0
	default:
		return true
	}
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Paths == nil {
		cfg.Paths = ConfigDefault.Paths
	}

	if cfg.MetaKey == "" {
		cfg.MetaKey = ConfigDefault.MetaKey
	}

	if cfg.RedirectQueryKey == "" {
		cfg.RedirectQueryKey = ConfigDefault.RedirectQueryKey
	}

	if cfg.Logger == nil {
		cfg.Logger = ConfigDefault.Logger
	}

	return cfg
}
