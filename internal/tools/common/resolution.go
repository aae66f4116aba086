package common

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
)

// RecordResolution feeds a resolution into the match-tier metrics, the
// running tool span and the audit record of the running tool call.
func RecordResolution(ctx context.Context, sc *server.ServerContext, identifiers []string, res members.Resolution) {
	trace.SpanFromContext(ctx).SetAttributes(instrumentation.NewSpanAttributeBuilder().
		WithResolution(len(identifiers), len(res.IDs)).
		Build()...)

	if inv := InvocationFromContext(ctx); inv != nil {
		inv.WithIdentifiers(identifiers, len(res.IDs))
	}
	m := sc.Metrics()
	if m == nil {
		return
	}
	tiers := make(map[string]int)
	for _, o := range res.Outcomes {
		tiers[o.Match]++
	}
	for match, count := range tiers {
		m.RecordMemberResolutions(ctx, match, count)
	}
}
