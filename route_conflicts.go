package router

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type routeConflict struct {
	existing        *RouteRecord
	reason          string
	index           int
	existingSegment string
	newSegment      string
}

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// classifySegment understands the route path syntax: ":id", ":id(\\d+)",
// ":path*", ":path+", "(.*)" and "*".
func classifySegment(segment string) segmentKind {
	switch {
	case strings.HasPrefix(segment, "*"):
		return segmentCatchAll
	case strings.Contains(segment, "(.*)"):
		return segmentCatchAll
	case strings.HasPrefix(segment, ":") && (strings.HasSuffix(segment, "*") || strings.HasSuffix(segment, "+")):
		return segmentCatchAll
	case strings.HasPrefix(segment, ":"), strings.HasPrefix(segment, "("):
		return segmentParam
	default:
		return segmentStatic
	}
}

// detectPathConflict reports where two paths can match the same URL. In
// PathConflictModePreferStatic a static segment next to a param is not a
// conflict since declaration order decides.
func detectPathConflict(existingPath, newPath string, mode PathConflictMode) *routeConflict {
	existingParts := splitPathSegments(existingPath)
	newParts := splitPathSegments(newPath)

	minLen := len(existingParts)
	if len(newParts) < minLen {
		minLen = len(newParts)
	}

	for i := 0; i < minLen; i++ {
		existingSegment := existingParts[i]
		newSegment := newParts[i]
		existingKind := classifySegment(existingSegment)
		newKind := classifySegment(newSegment)

		if existingKind == segmentStatic && newKind == segmentStatic {
			if existingSegment != newSegment {
				return nil
			}
			continue
		}

		if existingKind == segmentCatchAll || newKind == segmentCatchAll {
			return &routeConflict{
				reason:          "catch-all segment overlaps existing route",
				index:           i,
				existingSegment: existingSegment,
				newSegment:      newSegment,
			}
		}

		if existingKind == segmentParam && newKind == segmentParam {
			if i == len(existingParts)-1 && i == len(newParts)-1 {
				return &routeConflict{
					reason:          "param segment overlaps existing route",
					index:           i,
					existingSegment: existingSegment,
					newSegment:      newSegment,
				}
			}
			continue
		}

		if mode.normalize() == PathConflictModePreferStatic {
			return nil
		}
		if len(existingParts) != len(newParts) {
			return nil
		}
		return &routeConflict{
			reason:          "static segment overlaps param segment",
			index:           i,
			existingSegment: existingSegment,
			newSegment:      newSegment,
		}
	}

	return nil
}

func newRouteConflictError(path string, conflict *routeConflict, mode PathConflictMode) error {
	message := fmt.Sprintf("route conflict: %s overlaps %s", path, conflict.existing.path)
	if conflict.reason != "" {
		message = fmt.Sprintf("%s (%s)", message, conflict.reason)
	}

	metadata := map[string]any{
		"path":          path,
		"existing_path": conflict.existing.path,
		"mode":          mode.String(),
		"reason":        conflict.reason,
	}

	if conflict.index >= 0 {
		metadata["segment_index"] = conflict.index
		metadata["segment"] = conflict.newSegment
		metadata["existing_segment"] = conflict.existingSegment
	}

	return goerrors.New(message, goerrors.CategoryConflict).
		WithTextCode(TextCodeRouteConflict).
		WithMetadata(metadata)
}
