package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// QueryParser parses a raw query string (without the leading "?").
type QueryParser func(query string) map[string]any

// QueryStringifier serializes a query map, including the leading "?" when
// the result is not empty.
type QueryStringifier func(query map[string]any) string

// ParseQuery decodes a query string. Keys without "=" map to nil and repeated
// keys collect into a []string.
func ParseQuery(query string) map[string]any {
	res := map[string]any{}

	query = strings.TrimSpace(query)
	query = strings.TrimLeft(query, "?#&")
	if query == "" {
		return res
	}

	for _, param := range strings.Split(query, "&") {
		if param == "" {
			continue
		}
		parts := strings.Split(strings.ReplaceAll(param, "+", " "), "=")
		key := decodeQueryComponent(parts[0])

		var val any
		if len(parts) > 1 {
			val = decodeQueryComponent(strings.Join(parts[1:], "="))
		}

		existing, seen := res[key]
		switch {
		case !seen:
			res[key] = val
		default:
			res[key] = appendQueryValue(existing, val)
		}
	}

	return res
}

// appendQueryValue collects a repeated key. Values stay strings unless a
// bare key is involved, which switches the collection to []any holding nil.
func appendQueryValue(existing, val any) any {
	switch t := existing.(type) {
	case []string:
		if s, ok := val.(string); ok {
			return append(t, s)
		}
		out := make([]any, 0, len(t)+1)
		for _, s := range t {
			out = append(out, s)
		}
		return append(out, val)
	case []any:
		return append(t, val)
	}
	if existing == nil || val == nil {
		return []any{existing, val}
	}
	return []string{queryValueString(existing), queryValueString(val)}
}

func queryValueString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func decodeQueryComponent(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// encodeQueryComponent mirrors encodeURIComponent with "!'()*" escaped and
// commas kept readable.
func encodeQueryComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '~' || c == ',':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// StringifyQuery serializes query with keys in sorted order. Nil values
// render as a bare key.
func StringifyQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if part := stringifyQueryPair(key, query[key]); part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

func stringifyQueryPair(key string, val any) string {
	switch t := val.(type) {
	case nil:
		return encodeQueryComponent(key)
	case []string:
		result := make([]string, 0, len(t))
		for _, v := range t {
			result = append(result, encodeQueryComponent(key)+"="+encodeQueryComponent(v))
		}
		return strings.Join(result, "&")
	case []any:
		result := make([]string, 0, len(t))
		for _, v := range t {
			if v == nil {
				result = append(result, encodeQueryComponent(key))
				continue
			}
			result = append(result, encodeQueryComponent(key)+"="+encodeQueryComponent(queryValueString(v)))
		}
		return strings.Join(result, "&")
	default:
		return encodeQueryComponent(key) + "=" + encodeQueryComponent(queryValueString(t))
	}
}

// resolveQuery parses query and overlays extra on top. Scalar extra values
// are cast to strings, nil and composite values are kept as given.
func resolveQuery(query string, extra map[string]any, parse QueryParser) map[string]any {
	if parse == nil {
		parse = ParseQuery
	}
	parsed := parse(query)
	if parsed == nil {
		parsed = map[string]any{}
	}
	for key, value := range extra {
		parsed[key] = castQueryParamValue(value)
	}
	return parsed
}

func castQueryParamValue(value any) any {
	switch t := value.(type) {
	case nil, string, []string, map[string]any, map[string]string:
		return t
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = castQueryParamValue(v)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}

// cloneQuery deep copies the composite values of a query. Values it does not
// know how to copy are shared as is.
func cloneQuery(query map[string]any) map[string]any {
	if query == nil {
		return map[string]any{}
	}
	out, ok := cloneValue(query).(map[string]any)
	if !ok {
		return query
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
