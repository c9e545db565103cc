// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// SystemActor is recorded as logged_by when no authenticated actor is present
// (worker jobs, repair tooling).
const SystemActor = "system"

// ActorContext identifies who performs an operation. Authentication happens
// upstream; the core only carries the resolved id.
type ActorContext struct {
	ActorID string
	Name    string
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return ""
}

// ActorOr returns explicit when set, else the actor from ctx, else SystemActor.
func ActorOr(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if a := GetActorID(ctx); a != "" {
		return a
	}
	return SystemActor
}
