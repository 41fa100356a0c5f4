package router

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-spa-router"

// Navigation outcomes reported on spans and in NavigationResult.
const (
	OutcomeCompleted  = "completed"
	OutcomeDuplicated = "duplicated"
	OutcomeAborted    = "aborted"
	OutcomeRedirected = "redirected"
	OutcomeCancelled  = "cancelled"
	OutcomeError      = "error"
)

// NavigationResult describes a settled navigation.
type NavigationResult struct {
	ID       string
	From     *Route
	To       *Route
	Err      error
	Outcome  string
	Started  time.Time
	Duration time.Duration
}

// navigation tracks one confirmTransition run from start to settle.
type navigation struct {
	id      string
	from    *Route
	to      *Route
	started time.Time
	span    trace.Span
	rc      *routerContext
	once    sync.Once
}

func (rc *routerContext) startNavigation(to, from *Route) *navigation {
	nav := &navigation{
		id:      rc.newID(),
		from:    from,
		to:      to,
		started: rc.clock(),
		rc:      rc,
	}

	_, nav.span = rc.tracer.Start(context.Background(), "router.navigate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(nav.started),
		trace.WithAttributes(
			attribute.String("router.navigation_id", nav.id),
			attribute.String("router.from", from.FullPath()),
			attribute.String("router.to", to.FullPath()),
			attribute.String("router.to_name", to.Name()),
			attribute.Bool("router.matched", to.IsMatched()),
		),
	)

	rc.logger.Debug("navigation %s: %s -> %s", nav.id, from.FullPath(), to.FullPath())
	return nav
}

// finish settles the navigation once. Later calls are ignored.
func (n *navigation) finish(err error) {
	n.once.Do(func() {
		ended := n.rc.clock()
		outcome := navigationOutcome(err)

		n.span.SetAttributes(attribute.String("router.outcome", outcome))
		if outcome == OutcomeError {
			n.span.RecordError(err)
			n.span.SetStatus(codes.Error, err.Error())
		} else {
			n.span.SetStatus(codes.Ok, "")
		}
		n.span.End(trace.WithTimestamp(ended))

		n.rc.logger.Debug("navigation %s: %s", n.id, outcome)

		result := NavigationResult{
			ID:       n.id,
			From:     n.from,
			To:       n.to,
			Err:      err,
			Outcome:  outcome,
			Started:  n.started,
			Duration: ended.Sub(n.started),
		}
		for _, cb := range n.rc.settled.snapshot() {
			cb(result)
		}
	})
}

func navigationOutcome(err error) string {
	if err == nil {
		return OutcomeCompleted
	}
	switch TextCode(err) {
	case TextCodeNavigationDuplicated:
		return OutcomeDuplicated
	case TextCodeNavigationAborted:
		return OutcomeAborted
	case TextCodeNavigationRedirected:
		return OutcomeRedirected
	case TextCodeNavigationCancelled:
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
