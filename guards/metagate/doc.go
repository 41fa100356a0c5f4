// Package metagate provides a navigation guard that protects routes flagged
// in their meta (for example requiresAuth) and scoped by path globs. When
// the predicate denies a navigation the guard redirects to a fallback
// location, aborts, or in strict mode fails the navigation with an error.
package metagate
