package main

import (
	"os"

	router "github.com/goliatone/go-spa-router"
	"go.uber.org/zap"
)

type globalOptions struct {
	file    string
	verbose bool
}

// placeholder stands in for the components named in a route file.
type placeholder struct {
	ID string
}

func (p placeholder) String() string { return p.ID }

func passGuard(to, from *router.Route, next router.Next) { next() }

var placeholderRegistry = router.Registry{
	ResolveComponent: func(id string) any { return placeholder{ID: id} },
	ResolveGuard:     func(string) router.NavigationGuard { return passGuard },
	ResolveRedirect: func(string) router.RedirectFunc {
		return func(to *router.Route) router.RawLocation { return router.Path("/") }
	},
}

func newLogger(verbose bool) (router.Logger, func(), error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return router.NewZapLogger(z), func() { _ = z.Sync() }, nil
}

// loadConfig reads either a router config or a bare route list.
func loadConfig(path string) (router.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return router.Config{}, err
	}

	cfg, err := router.LoadConfigYAML(data, placeholderRegistry)
	if err == nil && len(cfg.Routes) > 0 {
		return cfg, nil
	}

	routes, listErr := router.LoadRoutesYAML(data, placeholderRegistry)
	if listErr != nil {
		if err != nil {
			return router.Config{}, err
		}
		return router.Config{}, listErr
	}
	return router.Config{Routes: routes}, nil
}
