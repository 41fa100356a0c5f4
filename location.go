package router

// RawLocation is any navigation target accepted by Push, Replace, Match and
// Resolve: a Path string or a Location descriptor.
type RawLocation interface {
	toLocation() Location
}

// Path is a navigation target given as a string, e.g. Path("/users/1?tab=2#top").
type Path string

func (p Path) toLocation() Location {
	return Location{Path: string(p)}
}

// Location is an unresolved navigation target.
type Location struct {
	Name    string
	Path    string
	Hash    string
	Query   map[string]any
	Params  map[string]string
	Append  bool
	Replace bool

	normalized bool
}

func (l Location) toLocation() Location {
	return l
}

func toLocation(raw RawLocation) Location {
	if raw == nil {
		return Location{}
	}
	return raw.toLocation()
}

// normalizeLocation resolves relative params and relative paths of raw
// against current. Named locations are copied and returned untouched.
func normalizeLocation(raw RawLocation, current *Route, appendTo bool, parse QueryParser, fill paramFiller, logger Logger) Location {
	next := toLocation(raw)
	if next.normalized {
		return next
	}

	if next.Name != "" {
		next.Params = copyParams(next.Params)
		return next
	}

	// relative params
	if next.Path == "" && next.Params != nil && current != nil {
		next.normalized = true
		params := copyParams(current.params)
		for k, v := range next.Params {
			params[k] = v
		}

		switch {
		case current.name != "":
			next.Name = current.name
			next.Params = params
		case len(current.matched) > 0:
			rawPath := current.matched[len(current.matched)-1].path
			next.Path = fill(rawPath, params, "path "+current.path)
		default:
			warn(logger, false, "relative params navigation requires a current route.")
		}
		return next
	}

	parsedPath, parsedQuery, parsedHash := parsePath(next.Path)

	basePath := "/"
	if current != nil && current.path != "" {
		basePath = current.path
	}

	path := basePath
	if parsedPath != "" {
		path = resolvePath(parsedPath, basePath, appendTo || next.Append)
	}

	query := resolveQuery(parsedQuery, next.Query, parse)

	hash := next.Hash
	if hash == "" {
		hash = parsedHash
	}
	if hash != "" && hash[0] != '#' {
		hash = "#" + hash
	}

	return Location{
		Path:       path,
		Query:      query,
		Hash:       hash,
		Replace:    next.Replace,
		normalized: true,
	}
}

func copyParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
