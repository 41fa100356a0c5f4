package router

// PathConflictMode controls which overlaps between route paths Lint reports.
type PathConflictMode string

const (
	// PathConflictModeStrict reports every static/param sibling pair on top of
	// shadowed routes.
	PathConflictModeStrict PathConflictMode = "strict"
	// PathConflictModePreferStatic only reports routes that can never match
	// because an earlier, more general route wins first.
	PathConflictModePreferStatic PathConflictMode = "prefer_static"
)

func (m PathConflictMode) normalize() PathConflictMode {
	switch m {
	case PathConflictModeStrict:
		return PathConflictModeStrict
	default:
		return PathConflictModePreferStatic
	}
}

func (m PathConflictMode) String() string {
	return string(m.normalize())
}

// ParsePathConflictMode maps a flag value to a mode, defaulting to
// PathConflictModePreferStatic.
func ParsePathConflictMode(value string) PathConflictMode {
	return PathConflictMode(value).normalize()
}
