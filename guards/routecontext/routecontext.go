package routecontext

import (
	"sync"

	router "github.com/goliatone/go-spa-router"
)

// Store receives the exported values. Views read them back to render
// breadcrumbs, active links and the like.
type Store interface {
	Set(key string, value any)
}

type Config struct {
	Skip                func(to, from *router.Route) bool
	TemplateContextKey  string
	CurrentRouteNameKey string
	CurrentPathKey      string
	CurrentParamsKey    string
	CurrentQueryKey     string
	ExportAsMap         bool
}

var ConfigDefault = Config{
	Skip:                nil,
	TemplateContextKey:  "template_context",
	CurrentRouteNameKey: "current_route_name",
	CurrentPathKey:      "current_path",
	CurrentParamsKey:    "current_params",
	CurrentQueryKey:     "current_query",
	ExportAsMap:         true,
}

// New returns an after hook that exports the committed route into store.
// Register it with Router.AfterEach.
func New(store Store, config ...Config) router.AfterHook {
	cfg := configDefault(config...)

	return func(to, from *router.Route) {
		if store == nil || (cfg.Skip != nil && cfg.Skip(to, from)) {
			return
		}

		values := map[string]any{
			cfg.CurrentRouteNameKey: to.Name(),
			cfg.CurrentPathKey:      to.Path(),
			cfg.CurrentParamsKey:    to.Params(),
			cfg.CurrentQueryKey:     to.Query(),
		}

		if cfg.ExportAsMap {
			store.Set(cfg.TemplateContextKey, values)
			return
		}

		for key, value := range values {
			store.Set(key, value)
		}
	}
}

// MapStore is a Store safe for concurrent use.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]any)}
}

func (s *MapStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MapStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.TemplateContextKey == "" {
		cfg.TemplateContextKey = ConfigDefault.TemplateContextKey
	}

	if cfg.CurrentRouteNameKey == "" {
		cfg.CurrentRouteNameKey = ConfigDefault.CurrentRouteNameKey
	}

	if cfg.CurrentPathKey == "" {
		cfg.CurrentPathKey = ConfigDefault.CurrentPathKey
	}

	if cfg.CurrentParamsKey == "" {
		cfg.CurrentParamsKey = ConfigDefault.CurrentParamsKey
	}

	if cfg.CurrentQueryKey == "" {
		cfg.CurrentQueryKey = ConfigDefault.CurrentQueryKey
	}

	return cfg
}
