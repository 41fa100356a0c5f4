package router

import (
	"fmt"
	"regexp"
	"strings"
)

// WildcardPath is the catch-all path. Wildcard records always sort last.
const WildcardPath = "*"

var nonASCIIRE = regexp.MustCompile(`[^\x00-\x7F]+`)

// Table is the route table: paths in match priority order plus lookups by
// path and by name. A table is never modified after it is built, Extend
// returns a new one.
type Table struct {
	pathList []string
	pathMap  map[string]*RouteRecord
	nameMap  map[string]*RouteRecord
	logger   Logger
}

// TableOption configures BuildTable.
type TableOption func(*Table)

// WithTableLogger sets the logger that receives reportable conditions.
func WithTableLogger(logger Logger) TableOption {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// BuildTable compiles route definitions into a table. A definition without a
// path or with a string component aborts the build.
func BuildTable(routes []RouteConfig, opts ...TableOption) (*Table, error) {
	t := &Table{
		pathMap: make(map[string]*RouteRecord),
		nameMap: make(map[string]*RouteRecord),
		logger:  &defaultLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t.Extend(routes)
}

// Extend returns a new table holding the records of t followed by routes.
// On error t is left untouched.
func (t *Table) Extend(routes []RouteConfig) (*Table, error) {
	next := t.clone()
	for i := range routes {
		if err := next.addRouteRecord(&routes[i], nil, ""); err != nil {
			return nil, err
		}
	}
	next.moveWildcardsLast()

	for _, path := range next.pathList {
		warn(next.logger, path == "" || path[0] == '*' || path[0] == '/',
			"non-nested routes must include a leading slash character. Fix the following routes: %q", path)
	}

	return next, nil
}

func (t *Table) clone() *Table {
	next := &Table{
		pathList: make([]string, len(t.pathList)),
		pathMap:  make(map[string]*RouteRecord, len(t.pathMap)),
		nameMap:  make(map[string]*RouteRecord, len(t.nameMap)),
		logger:   t.logger,
	}
	copy(next.pathList, t.pathList)
	for k, v := range t.pathMap {
		next.pathMap[k] = v
	}
	for k, v := range t.nameMap {
		next.nameMap[k] = v
	}
	if next.logger == nil {
		next.logger = &defaultLogger{}
	}
	return next
}

func (t *Table) addRouteRecord(route *RouteConfig, parent *RouteRecord, matchAs string) error {
	if route.Path == "" && parent == nil {
		return newPathRequiredError(route.Name)
	}
	if err := validateComponents(route); err != nil {
		return err
	}
	warn(t.logger, !nonASCIIRE.MatchString(route.Path),
		"route with path %q contains unencoded characters, make sure your path is correctly encoded before passing it to the router", route.Path)

	var options PathOptions
	if route.PathToRegexpOptions != nil {
		options = *route.PathToRegexpOptions
	}
	normalizedPath := normalizePath(route.Path, parent, options.Strict)
	if strings.TrimSuffix(route.Path, "/") == "" && parent != nil && !options.Strict {
		// default child, shares the parent path
		normalizedPath = parent.path
	}
	if route.CaseSensitive != nil {
		options.Sensitive = *route.CaseSensitive
	}

	regex, err := t.compileRouteRegex(normalizedPath, options)
	if err != nil {
		return err
	}

	record := &RouteRecord{
		path:        normalizedPath,
		regex:       regex,
		components:  recordComponents(route),
		alias:       append([]string(nil), route.Alias...),
		name:        route.Name,
		parent:      parent,
		matchAs:     matchAs,
		redirect:    route.Redirect,
		beforeEnter: route.BeforeEnter,
		meta:        recordMeta(route),
		props:       recordProps(route),
	}

	t.registerPath(record)

	if len(route.Children) > 0 {
		if route.Name != "" && route.Redirect == nil && hasDefaultChild(route.Children) {
			t.logger.Warn("named route %q has a default child route. When navigating to this named route "+
				"the default child route will not be rendered. Remove the name from this route and use "+
				"the name of the default child route for named links instead.", route.Name)
		}
		for i := range route.Children {
			child := &route.Children[i]
			childMatchAs := ""
			if matchAs != "" {
				childMatchAs = cleanPath(matchAs + "/" + child.Path)
			}
			if err := t.addRouteRecord(child, record, childMatchAs); err != nil {
				return err
			}
		}
	}

	for _, alias := range route.Alias {
		if alias == route.Path {
			t.logger.Warn("found an alias with the same value as the path: %q. You have to remove that alias. It will be ignored in development.", route.Path)
			continue
		}
		aliasMatchAs := record.path
		if aliasMatchAs == "" {
			aliasMatchAs = "/"
		}
		aliasRoute := &RouteConfig{
			Path:     alias,
			Children: route.Children,
		}
		if err := t.addRouteRecord(aliasRoute, parent, aliasMatchAs); err != nil {
			return err
		}
	}

	if route.Name != "" {
		if _, exists := t.nameMap[route.Name]; !exists {
			t.nameMap[route.Name] = record
		} else if matchAs == "" {
			t.logger.Warn("duplicate named routes definition: { name: %q, path: %q }", route.Name, record.path)
		}
	}

	return nil
}

// registerPath appends record unless its path is taken. A default child
// replaces its parent so that navigating to the shared path renders it.
func (t *Table) registerPath(record *RouteRecord) {
	existing, exists := t.pathMap[record.path]
	if !exists {
		t.pathList = append(t.pathList, record.path)
		t.pathMap[record.path] = record
		return
	}
	if record.parent != nil && existing == record.parent {
		t.pathMap[record.path] = record
	}
}

func (t *Table) compileRouteRegex(path string, options PathOptions) (*PathRegexp, error) {
	regex, err := CompilePath(path, options)
	if err != nil {
		return nil, newPatternError(path, err)
	}
	seen := make(map[string]bool, len(regex.keys))
	for _, key := range regex.keys {
		warn(t.logger, !seen[key.Name], "duplicate param keys in route with path: %q", path)
		seen[key.Name] = true
	}
	return regex, nil
}

// moveWildcardsLast is a stable pass moving every "*" to the end.
func (t *Table) moveWildcardsLast() {
	list := make([]string, 0, len(t.pathList))
	wildcards := 0
	for _, path := range t.pathList {
		if path == WildcardPath {
			wildcards++
			continue
		}
		list = append(list, path)
	}
	for i := 0; i < wildcards; i++ {
		list = append(list, WildcardPath)
	}
	t.pathList = list
}

func validateComponents(route *RouteConfig) error {
	if _, ok := route.Component.(string); ok {
		return newComponentIDError(route.Path, route.Name, DefaultView)
	}
	for view, component := range route.Components {
		if _, ok := component.(string); ok {
			return newComponentIDError(route.Path, route.Name, view)
		}
	}
	return nil
}

// DefaultView is the name of the unnamed view.
const DefaultView = "default"

func recordComponents(route *RouteConfig) map[string]any {
	if route.Components != nil {
		out := make(map[string]any, len(route.Components))
		for k, v := range route.Components {
			out[k] = v
		}
		return out
	}
	return map[string]any{DefaultView: route.Component}
}

func recordMeta(route *RouteConfig) map[string]any {
	out := make(map[string]any, len(route.Meta))
	for k, v := range route.Meta {
		out[k] = v
	}
	return out
}

func recordProps(route *RouteConfig) map[string]any {
	if route.Props == nil {
		return map[string]any{}
	}
	if route.Components != nil {
		if perView, ok := route.Props.(map[string]any); ok {
			out := make(map[string]any, len(perView))
			for k, v := range perView {
				out[k] = v
			}
			return out
		}
	}
	return map[string]any{DefaultView: route.Props}
}

func hasDefaultChild(children []RouteConfig) bool {
	for _, child := range children {
		if child.Path == "" || child.Path == "/" {
			return true
		}
	}
	return false
}

// PathList returns the registered paths in match priority order.
func (t *Table) PathList() []string {
	out := make([]string, len(t.pathList))
	copy(out, t.pathList)
	return out
}

// PathMap returns a copy of the path lookup.
func (t *Table) PathMap() map[string]*RouteRecord {
	out := make(map[string]*RouteRecord, len(t.pathMap))
	for k, v := range t.pathMap {
		out[k] = v
	}
	return out
}

// NameMap returns a copy of the name lookup.
func (t *Table) NameMap() map[string]*RouteRecord {
	out := make(map[string]*RouteRecord, len(t.nameMap))
	for k, v := range t.nameMap {
		out[k] = v
	}
	return out
}

// Lookup returns the record registered for path.
func (t *Table) Lookup(path string) (*RouteRecord, bool) {
	r, ok := t.pathMap[path]
	return r, ok
}

// ByName returns the record registered under name.
func (t *Table) ByName(name string) (*RouteRecord, bool) {
	r, ok := t.nameMap[name]
	return r, ok
}

// Records returns the records in match priority order.
func (t *Table) Records() []*RouteRecord {
	out := make([]*RouteRecord, 0, len(t.pathList))
	for _, path := range t.pathList {
		out = append(out, t.pathMap[path])
	}
	return out
}

// Len returns the number of registered paths.
func (t *Table) Len() int {
	return len(t.pathList)
}

func (t *Table) String() string {
	return fmt.Sprintf("Table[%s]", strings.Join(t.pathList, ", "))
}
