package security

import "context"

type contextKey string

// actorKey is the context key under which the authenticated actor is stored.
const actorKey contextKey = "actor"

// AnonymousActor is used for audit stamping when no identity is available.
const AnonymousActor = "anonymous"

// WithActor returns a context carrying the authenticated actor name.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor name from ctx,
// falling back to AnonymousActor when none is present.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(actorKey); v != nil {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}
	return AnonymousActor
}
