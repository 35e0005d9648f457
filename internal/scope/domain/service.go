package domain

import "context"

// Service derives the caller's role and tenant scope. Every other
// component consumes its output as a mandatory filter.
type Service interface {
	Resolve(ctx context.Context, identity Identity, route RouteContext) (Scope, error)
}
