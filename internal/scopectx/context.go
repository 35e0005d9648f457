package scopectx

import (
	"context"

	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
)

// ScopeContextKey is the request context key for the resolved access scope.
type ScopeContextKey struct{}

// WithScope stores the resolved scope in the context.
func WithScope(ctx context.Context, sc scopedomain.Scope) context.Context {
	return context.WithValue(ctx, ScopeContextKey{}, sc)
}

// FromContext returns the resolved scope from context, if set.
func FromContext(ctx context.Context) (scopedomain.Scope, bool) {
	if ctx == nil {
		return scopedomain.Scope{}, false
	}
	sc, ok := ctx.Value(ScopeContextKey{}).(scopedomain.Scope)
	if !ok || sc.Role == "" {
		return scopedomain.Scope{}, false
	}
	return sc, true
}
