package router

import (
	"fmt"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v2"
)

// Registry resolves the identifiers used in YAML route files. The resolver
// funcs, when set, are asked for identifiers missing from the maps.
type Registry struct {
	Components map[string]any
	Guards     map[string]NavigationGuard
	Redirects  map[string]RedirectFunc

	ResolveComponent func(id string) any
	ResolveGuard     func(name string) NavigationGuard
	ResolveRedirect  func(name string) RedirectFunc
}

type yamlConfig struct {
	Mode       Mode        `yaml:"mode"`
	Base       string      `yaml:"base"`
	NoFallback bool        `yaml:"no_fallback"`
	Routes     []yamlRoute `yaml:"routes"`
}

type yamlRoute struct {
	Path                *string                `yaml:"path"`
	Name                string                 `yaml:"name"`
	Component           string                 `yaml:"component"`
	Components          map[string]string      `yaml:"components"`
	Redirect            interface{}            `yaml:"redirect"`
	RedirectFunc        string                 `yaml:"redirect_func"`
	Alias               yamlAlias              `yaml:"alias"`
	Children            []yamlRoute            `yaml:"children"`
	BeforeEnter         string                 `yaml:"before_enter"`
	Meta                map[string]interface{} `yaml:"meta"`
	Props               interface{}            `yaml:"props"`
	CaseSensitive       *bool                  `yaml:"case_sensitive"`
	PathToRegexpOptions *PathOptions           `yaml:"path_to_regexp_options"`
}

// yamlAlias accepts a single alias or a list.
type yamlAlias []string

func (a *yamlAlias) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*a = yamlAlias{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*a = list
	return nil
}

// LoadConfigYAML decodes a router configuration with its routes.
func LoadConfigYAML(data []byte, reg Registry) (Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, newYAMLError(err)
	}

	routes, err := reg.routes(raw.Routes)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Mode:       raw.Mode,
		Base:       raw.Base,
		NoFallback: raw.NoFallback,
		Routes:     routes,
	}, nil
}

// LoadConfigFile reads and decodes a YAML router configuration.
func LoadConfigFile(path string, reg Registry) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read router config").
			WithTextCode(TextCodeRouteConfigInvalid).
			WithMetadata(map[string]any{"file": path})
	}
	return LoadConfigYAML(data, reg)
}

// LoadRoutesYAML decodes a top level list of route definitions.
func LoadRoutesYAML(data []byte, reg Registry) ([]RouteConfig, error) {
	var raw []yamlRoute
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, newYAMLError(err)
	}
	return reg.routes(raw)
}

func newYAMLError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid route configuration YAML").
		WithTextCode(TextCodeRouteConfigInvalid)
}

func (reg Registry) routes(raw []yamlRoute) ([]RouteConfig, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]RouteConfig, 0, len(raw))
	for _, r := range raw {
		route, err := reg.route(r)
		if err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	return out, nil
}

func (reg Registry) route(raw yamlRoute) (RouteConfig, error) {
	if raw.Path == nil {
		return RouteConfig{}, newPathRequiredError(raw.Name)
	}

	route := RouteConfig{
		Path:                *raw.Path,
		Name:                raw.Name,
		Alias:               []string(raw.Alias),
		Meta:                normalizeYAMLMap(raw.Meta),
		Props:               normalizeYAMLValue(raw.Props),
		CaseSensitive:       raw.CaseSensitive,
		PathToRegexpOptions: raw.PathToRegexpOptions,
	}

	if raw.Component != "" {
		route.Component = reg.component(raw.Component)
	}
	if len(raw.Components) > 0 {
		route.Components = make(map[string]any, len(raw.Components))
		for view, id := range raw.Components {
			route.Components[view] = reg.component(id)
		}
	}

	if raw.BeforeEnter != "" {
		guard, ok := reg.Guards[raw.BeforeEnter]
		if !ok && reg.ResolveGuard != nil {
			guard = reg.ResolveGuard(raw.BeforeEnter)
			ok = guard != nil
		}
		if !ok {
			return RouteConfig{}, NewRouteConfigError(TextCodeRouteConfigInvalid,
				fmt.Sprintf("unknown guard %q for route %q", raw.BeforeEnter, *raw.Path),
				map[string]any{"guard": raw.BeforeEnter, "path": *raw.Path})
		}
		route.BeforeEnter = guard
	}

	redirect, err := reg.redirect(raw)
	if err != nil {
		return RouteConfig{}, err
	}
	route.Redirect = redirect

	if len(raw.Children) > 0 {
		children, err := reg.routes(raw.Children)
		if err != nil {
			return RouteConfig{}, err
		}
		route.Children = children
	}

	return route, nil
}

// component resolves id. Unknown ids stay strings and are rejected when the
// route table is built.
func (reg Registry) component(id string) any {
	if c, ok := reg.Components[id]; ok {
		return c
	}
	if reg.ResolveComponent != nil {
		if c := reg.ResolveComponent(id); c != nil {
			return c
		}
	}
	return id
}

func (reg Registry) redirect(raw yamlRoute) (any, error) {
	if raw.RedirectFunc != "" {
		fn, ok := reg.Redirects[raw.RedirectFunc]
		if !ok && reg.ResolveRedirect != nil {
			fn = reg.ResolveRedirect(raw.RedirectFunc)
			ok = fn != nil
		}
		if !ok {
			return nil, NewRouteConfigError(TextCodeRouteConfigInvalid,
				fmt.Sprintf("unknown redirect func %q for route %q", raw.RedirectFunc, *raw.Path),
				map[string]any{"redirect_func": raw.RedirectFunc, "path": *raw.Path})
		}
		return fn, nil
	}

	switch r := raw.Redirect.(type) {
	case nil:
		return nil, nil
	case string:
		return r, nil
	case map[interface{}]interface{}:
		return yamlLocation(normalizeYAMLMap(r)), nil
	default:
		return nil, NewRouteConfigError(TextCodeRouteConfigInvalid,
			fmt.Sprintf("invalid redirect for route %q", *raw.Path),
			map[string]any{"path": *raw.Path})
	}
}

func yamlLocation(m map[string]any) Location {
	var loc Location
	loc.Name, _ = m["name"].(string)
	loc.Path, _ = m["path"].(string)
	loc.Hash, _ = m["hash"].(string)
	if q, ok := m["query"].(map[string]any); ok {
		loc.Query = q
	}
	if p, ok := m["params"].(map[string]any); ok {
		loc.Params = make(map[string]string, len(p))
		for k, v := range p {
			loc.Params[k] = fmt.Sprint(v)
		}
	}
	return loc
}

// normalizeYAMLMap converts the map[interface{}]interface{} values produced
// by yaml.v2 into map[string]any, recursively.
func normalizeYAMLMap(in interface{}) map[string]any {
	switch m := in.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = normalizeYAMLValue(v)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = normalizeYAMLValue(v)
		}
		return out
	default:
		return nil
	}
}

func normalizeYAMLValue(v interface{}) any {
	switch t := v.(type) {
	case map[interface{}]interface{}, map[string]interface{}:
		return normalizeYAMLMap(t)
	case []interface{}:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return t
	}
}
