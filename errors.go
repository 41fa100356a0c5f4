package router

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to every error produced by this package.
const (
	TextCodeRoutePathRequired    = "ROUTE_PATH_REQUIRED"
	TextCodeRouteComponentID     = "ROUTE_COMPONENT_ID"
	TextCodeRouteConfigInvalid   = "ROUTE_CONFIG_INVALID"
	TextCodeRoutePatternInvalid  = "ROUTE_PATTERN_INVALID"
	TextCodeRouteConflict        = "ROUTE_CONFLICT"
	TextCodeRouteShadowed        = "ROUTE_SHADOWED"
	TextCodeRouteLint            = "ROUTE_LINT"
	TextCodeNavigationDuplicated = "NAVIGATION_DUPLICATED"
	TextCodeNavigationAborted    = "NAVIGATION_ABORTED"
	TextCodeNavigationCancelled  = "NAVIGATION_CANCELLED"
	TextCodeNavigationRedirected = "NAVIGATION_REDIRECTED"
	TextCodeNavigationPanic      = "NAVIGATION_GUARD_PANIC"
	TextCodeRouterReloading      = "ROUTER_RELOADING"
)

var navigationFailureCodes = map[string]bool{
	TextCodeNavigationDuplicated: true,
	TextCodeNavigationAborted:    true,
	TextCodeNavigationCancelled:  true,
	TextCodeNavigationRedirected: true,
}

// NewRouteConfigError builds the fatal error returned when a route definition
// violates a construction time contract.
func NewRouteConfigError(textCode, message string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func newPathRequiredError(name string) error {
	return NewRouteConfigError(TextCodeRoutePathRequired,
		`"path" is required in a route configuration`,
		map[string]any{"name": name})
}

func newComponentIDError(path, name, view string) error {
	label := path
	if label == "" {
		label = name
	}
	return NewRouteConfigError(TextCodeRouteComponentID,
		fmt.Sprintf(`route config "component" for path: %s cannot be a string id, use an actual component instead`, label),
		map[string]any{"path": path, "name": name, "view": view})
}

func newPatternError(path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("invalid route pattern %q", path)).
		WithTextCode(TextCodeRoutePatternInvalid).
		WithMetadata(map[string]any{"path": path})
}

// NewNavigationFailure builds one of the expected navigation outcomes that are
// not errors: duplicated, aborted, cancelled or redirected transitions.
func NewNavigationFailure(textCode string, from, to *Route, message string) *goerrors.Error {
	metadata := map[string]any{}
	if from != nil {
		metadata["from"] = from.FullPath()
	}
	if to != nil {
		metadata["to"] = to.FullPath()
	}
	return goerrors.New(message, goerrors.CategoryRouting).
		WithTextCode(textCode).
		WithMetadata(metadata)
}

func newDuplicatedFailure(from, to *Route) error {
	return NewNavigationFailure(TextCodeNavigationDuplicated, from, to,
		fmt.Sprintf("avoided redundant navigation to current location: %q", to.FullPath()))
}

func newAbortedFailure(from, to *Route) error {
	return NewNavigationFailure(TextCodeNavigationAborted, from, to,
		fmt.Sprintf("navigation aborted from %q to %q via a navigation guard", from.FullPath(), to.FullPath()))
}

func newCancelledFailure(from, to *Route) error {
	return NewNavigationFailure(TextCodeNavigationCancelled, from, to,
		fmt.Sprintf("navigation cancelled from %q to %q with a new navigation", from.FullPath(), to.FullPath()))
}

func newRedirectedFailure(from, to *Route) error {
	return NewNavigationFailure(TextCodeNavigationRedirected, from, to,
		fmt.Sprintf("redirected when going from %q to %q via a navigation guard", from.FullPath(), to.FullPath()))
}

func newGuardPanicError(recovered any, from, to *Route) error {
	var cause error
	switch v := recovered.(type) {
	case error:
		cause = v
	default:
		cause = fmt.Errorf("%v", v)
	}
	return goerrors.Wrap(cause, goerrors.CategoryRouting, "navigation guard panicked").
		WithTextCode(TextCodeNavigationPanic).
		WithMetadata(map[string]any{"from": from.FullPath(), "to": to.FullPath()})
}

func newReloadingError(href string) error {
	return goerrors.New("page is reloading into the fragment form of its URL", goerrors.CategoryRouting).
		WithTextCode(TextCodeRouterReloading).
		WithMetadata(map[string]any{"href": href})
}

// IsNavigationFailure reports whether err is an expected navigation outcome.
// With text codes it only matches those kinds.
func IsNavigationFailure(err error, textCodes ...string) bool {
	var rich *goerrors.Error
	if !errors.As(err, &rich) || !navigationFailureCodes[rich.TextCode] {
		return false
	}
	if len(textCodes) == 0 {
		return true
	}
	for _, code := range textCodes {
		if rich.TextCode == code {
			return true
		}
	}
	return false
}

// TextCode returns the goerrors text code carried by err, if any.
func TextCode(err error) string {
	var rich *goerrors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}
