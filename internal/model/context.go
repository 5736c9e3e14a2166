package model

import "context"

// ContextManager stores and retrieves the authenticated identity of a request.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}
