package router

import (
	"regexp"
	"strings"
)

var repeatedSlashRE = regexp.MustCompile(`/+`)

// cleanPath collapses every run of slashes into a single one.
func cleanPath(path string) string {
	return repeatedSlashRE.ReplaceAllString(path, "/")
}

// normalizePath turns a route definition path into the absolute form stored
// in the route table. Absolute paths are never rewritten, relative ones are
// joined to the parent record path.
func normalizePath(path string, parent *RouteRecord, strict bool) string {
	if !strict {
		path = strings.TrimSuffix(path, "/")
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	if parent == nil {
		return path
	}
	return cleanPath(parent.path + "/" + path)
}

// resolvePath resolves relative against base the way a browser resolves a
// relative link. With appendTo the last base segment is kept.
func resolvePath(relative, base string, appendTo bool) string {
	if relative == "" {
		return base
	}
	switch relative[0] {
	case '/':
		return relative
	case '?', '#':
		return base + relative
	}

	stack := strings.Split(base, "/")

	// remove trailing segment if:
	// - not appending
	// - appending to trailing slash (last segment is empty)
	if !appendTo || stack[len(stack)-1] == "" {
		stack = stack[:len(stack)-1]
	}

	segments := strings.Split(strings.TrimPrefix(relative, "/"), "/")
	for _, segment := range segments {
		switch segment {
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ".":
		default:
			stack = append(stack, segment)
		}
	}

	// ensure leading slash
	if len(stack) == 0 || stack[0] != "" {
		stack = append([]string{""}, stack...)
	}

	return strings.Join(stack, "/")
}

// parsePath splits a raw location string into path, query (without "?") and
// hash (with "#").
func parsePath(path string) (string, string, string) {
	hash := ""
	query := ""

	if i := strings.Index(path, "#"); i >= 0 {
		hash = path[i:]
		path = path[:i]
	}

	if i := strings.Index(path, "?"); i >= 0 {
		query = path[i+1:]
		path = path[:i]
	}

	return path, query, hash
}

// withTrailingSlash ensures path ends in exactly one slash.
func withTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/") + "/"
}

// PathParam returns a parameter segment (e.g., ":id").
func PathParam(name string) string {
	return ":" + name
}

// ConstrainedPathParam returns a parameter segment with a custom pattern,
// e.g. ConstrainedPathParam("id", `\d+`) yields ":id(\d+)".
func ConstrainedPathParam(name, pattern string) string {
	if pattern == "" {
		return ":" + name
	}
	return ":" + name + "(" + pattern + ")"
}
