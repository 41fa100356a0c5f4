package router

import (
	"fmt"
	"sort"
	"strings"
)

// Route is a resolved location. It is created once per navigation and never
// changes afterwards: accessors hand out copies of the nested structures.
type Route struct {
	name           string
	path           string
	hash           string
	query          map[string]any
	params         map[string]string
	fullPath       string
	redirectedFrom string
	meta           map[string]any
	matched        []*RouteRecord
}

var startRoute = createRoute(nil, Location{Path: "/"}, nil, nil)

// StartRoute returns the current route of every history before its first
// navigation completes. It is only equal to itself.
func StartRoute() *Route {
	return startRoute
}

// createRoute builds the Route for location resolved against record. A nil
// record produces an unmatched route.
func createRoute(record *RouteRecord, location Location, redirectedFrom *Location, stringify QueryStringifier) *Route {
	route := &Route{
		name:   location.Name,
		path:   location.Path,
		hash:   location.Hash,
		query:  cloneQuery(location.Query),
		params: copyParams(location.Params),
		meta:   map[string]any{},
	}

	if route.name == "" && record != nil {
		route.name = record.name
	}
	if route.path == "" {
		route.path = "/"
	}
	if record != nil {
		if record.meta != nil {
			route.meta = record.meta
		}
		route.matched = formatMatch(record)
	}

	route.fullPath = getFullPath(location, stringify)
	if redirectedFrom != nil {
		route.redirectedFrom = getFullPath(*redirectedFrom, stringify)
	}

	return route
}

func formatMatch(record *RouteRecord) []*RouteRecord {
	var res []*RouteRecord
	for r := record; r != nil; r = r.parent {
		res = append(res, r)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

func getFullPath(location Location, stringify QueryStringifier) string {
	if stringify == nil {
		stringify = StringifyQuery
	}
	path := location.Path
	if path == "" {
		path = "/"
	}
	return path + stringify(location.Query) + location.Hash
}

// Name returns the route name, empty when the route is anonymous.
func (r *Route) Name() string { return r.name }

// Path returns the resolved path, "/" when none was given.
func (r *Route) Path() string { return r.path }

// Hash returns the fragment including its "#".
func (r *Route) Hash() string { return r.hash }

// FullPath returns path, serialized query and hash.
func (r *Route) FullPath() string {
	if r == nil {
		return ""
	}
	return r.fullPath
}

// RedirectedFrom returns the full path of the location that redirected here.
func (r *Route) RedirectedFrom() string { return r.redirectedFrom }

// Query returns a deep copy of the query.
func (r *Route) Query() map[string]any { return cloneQuery(r.query) }

// Params returns a copy of the path params.
func (r *Route) Params() map[string]string { return copyParams(r.params) }

// Param returns a single path param.
func (r *Route) Param(name string) string { return r.params[name] }

// QueryValue returns a query value as a string. For repeated keys the first
// value is returned.
func (r *Route) QueryValue(key string) string {
	switch v := r.query[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
		return ""
	case []any:
		if len(v) > 0 && v[0] != nil {
			return fmt.Sprint(v[0])
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Meta returns the meta of the matched record.
func (r *Route) Meta() map[string]any {
	out := make(map[string]any, len(r.meta))
	for k, v := range r.meta {
		out[k] = v
	}
	return out
}

// Matched returns the ancestor chain of the resolved record, root first.
func (r *Route) Matched() []*RouteRecord {
	out := make([]*RouteRecord, len(r.matched))
	copy(out, r.matched)
	return out
}

// Record returns the deepest matched record or nil.
func (r *Route) Record() *RouteRecord {
	if len(r.matched) == 0 {
		return nil
	}
	return r.matched[len(r.matched)-1]
}

// IsMatched reports whether any record matched.
func (r *Route) IsMatched() bool {
	return len(r.matched) > 0
}

// Location returns a Location that resolves back to this route.
func (r *Route) Location() Location {
	return Location{
		Path:  r.path,
		Hash:  r.hash,
		Query: cloneQuery(r.query),
	}
}

func (r *Route) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.name != "" {
		return fmt.Sprintf("%s (%s)", r.fullPath, r.name)
	}
	return r.fullPath
}

// IsSameRoute reports whether a and b point at the same location. The start
// route is only equal to itself.
func IsSameRoute(a, b *Route) bool {
	return isSameRoute(a, b, false)
}

// IsSamePath is like IsSameRoute but ignores hash, query and params.
func IsSamePath(a, b *Route) bool {
	return isSameRoute(a, b, true)
}

func isSameRoute(a, b *Route, onlyPath bool) bool {
	if a == startRoute || b == startRoute {
		return a == b
	}
	if a == nil || b == nil {
		return false
	}

	switch {
	case a.path != "" && b.path != "":
		return strings.TrimSuffix(a.path, "/") == strings.TrimSuffix(b.path, "/") &&
			(onlyPath || a.hash == b.hash && isObjectEqual(a.query, b.query))
	case a.name != "" && b.name != "":
		return a.name == b.name &&
			(onlyPath || a.hash == b.hash &&
				isObjectEqual(a.query, b.query) &&
				isObjectEqual(paramsToAny(a.params), paramsToAny(b.params)))
	default:
		return false
	}
}

// IsIncludedRoute reports whether current is target or nested under it, with
// target's hash and query keys present on current.
func IsIncludedRoute(current, target *Route) bool {
	if current == nil || target == nil {
		return false
	}
	if !strings.HasPrefix(withTrailingSlash(current.path), withTrailingSlash(target.path)) {
		return false
	}
	if target.hash != "" && current.hash != target.hash {
		return false
	}
	for key := range target.query {
		if _, ok := current.query[key]; !ok {
			return false
		}
	}
	return true
}

func paramsToAny(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// isObjectEqual compares two objects by sorted keys. Nested objects recurse,
// scalars are compared by their string form so 1 and "1" are equal.
func isObjectEqual(a, b map[string]any) bool {
	if a == nil {
		a = map[string]any{}
	}
	if b == nil {
		b = map[string]any{}
	}
	if len(a) != len(b) {
		return false
	}

	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		bVal, ok := b[key]
		if !ok {
			return false
		}
		if !isValueEqual(a[key], bVal) {
			return false
		}
	}
	return true
}

func isValueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	aObj, aIsObj := asObject(a)
	bObj, bIsObj := asObject(b)
	if aIsObj && bIsObj {
		return isObjectEqual(aObj, bObj)
	}
	return scalarString(a) == scalarString(b)
}

// asObject views maps and slices as index keyed objects.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		return paramsToAny(t), true
	case []string:
		out := make(map[string]any, len(t))
		for i, s := range t {
			out[fmt.Sprint(i)] = s
		}
		return out, true
	case []any:
		out := make(map[string]any, len(t))
		for i, s := range t {
			out[fmt.Sprint(i)] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
