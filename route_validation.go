package router

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// LintOptions configures Table.Lint.
type LintOptions struct {
	PathConflictMode PathConflictMode
}

// Lint reports routes that can never be reached because an earlier, more
// general path matches first. In PathConflictModeStrict it also reports
// every overlapping pair and bare ":id" params next to static siblings.
// Lint never changes the table.
func (t *Table) Lint(opts LintOptions) []error {
	mode := opts.PathConflictMode.normalize()
	records := t.Records()
	var errs []error

	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			earlier := records[i]
			later := records[j]

			if pathShadows(earlier.path, later.path) {
				errs = append(errs, newRouteShadowedError(earlier, later))
				continue
			}

			if mode != PathConflictModeStrict {
				continue
			}

			if conflict := detectPathConflict(earlier.path, later.path, mode); conflict != nil {
				conflict.existing = earlier
				errs = append(errs, newRouteConflictError(later.path, conflict, mode))
			}

			if lintErr := detectBareIDParamLint(earlier, later); lintErr != nil {
				errs = append(errs, lintErr)
			}
			if lintErr := detectBareIDParamLint(later, earlier); lintErr != nil {
				errs = append(errs, lintErr)
			}
		}
	}

	return errs
}

// pathShadows reports whether every URL matched by later is matched by
// earlier first. The wildcard path never shadows, it is always last.
func pathShadows(earlier, later string) bool {
	if earlier == WildcardPath || later == WildcardPath {
		return false
	}
	if compareRouteSpecificity(earlier, later) >= 0 {
		return false
	}

	earlierParts := splitPathSegments(earlier)
	laterParts := splitPathSegments(later)

	for i, segment := range earlierParts {
		kind := classifySegment(segment)
		if kind == segmentCatchAll {
			return true
		}
		if i >= len(laterParts) {
			return false
		}
		other := laterParts[i]
		switch kind {
		case segmentStatic:
			if segment != other {
				return false
			}
		case segmentParam:
			_, constraint, _ := parseParamSegment(segment)
			if constraint != "" || strings.HasSuffix(segment, "?") {
				return false
			}
			if classifySegment(other) == segmentCatchAll {
				return false
			}
		}
	}

	return len(earlierParts) == len(laterParts)
}

func detectBareIDParamLint(paramRoute, staticRoute *RouteRecord) error {
	paramParts := splitPathSegments(paramRoute.path)
	staticParts := splitPathSegments(staticRoute.path)
	if len(paramParts) != len(staticParts) {
		return nil
	}

	for i, paramSegment := range paramParts {
		name, constraint, ok := parseParamSegment(paramSegment)
		if !ok || name != "id" || constraint != "" {
			continue
		}
		if classifySegment(staticParts[i]) != segmentStatic {
			continue
		}

		for k := 0; k < len(paramParts); k++ {
			if k == i {
				continue
			}
			if paramParts[k] != staticParts[k] {
				return nil
			}
		}

		return newRouteLintError(paramRoute.path, staticRoute.path, name)
	}

	return nil
}

// parseParamSegment splits ":name(pattern)" into name and pattern. Modifiers
// are dropped from the name.
func parseParamSegment(segment string) (name string, constraint string, ok bool) {
	if !strings.HasPrefix(segment, ":") {
		return "", "", false
	}
	raw := strings.TrimPrefix(segment, ":")
	raw = strings.TrimRight(raw, "?*+")
	if raw == "" {
		return "", "", false
	}
	if idx := strings.Index(raw, "("); idx >= 0 && strings.HasSuffix(raw, ")") {
		return raw[:idx], raw[idx+1 : len(raw)-1], true
	}
	return raw, "", true
}

func newRouteShadowedError(earlier, later *RouteRecord) error {
	message := fmt.Sprintf("route lint: %s can never match, %s is declared first and matches the same locations", later.path, earlier.path)
	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(TextCodeRouteShadowed).
		WithMetadata(map[string]any{
			"path":           later.path,
			"shadowed_by":    earlier.path,
			"shadowed_by_as": earlier.name,
		})
}

func newRouteLintError(path, siblingPath, param string) error {
	message := fmt.Sprintf("route lint: %s uses bare :%s with static sibling %s; consider constraining the param", path, param, siblingPath)
	metadata := map[string]any{
		"path":         path,
		"sibling_path": siblingPath,
		"param":        param,
	}

	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(TextCodeRouteLint).
		WithMetadata(metadata)
}
