// internal/auth/context.go
//
// Request-context carrier for the resolved authorization.
//
// Usage
// -----
//     // Middleware attaches the resolved identity after the session check.
//     ctx = auth.WithAuthorization(ctx, authz)
//
//     // Handlers retrieve it downstream.
//     authz := auth.FromContext(ctx)
//     if id, ok := authz.UserID(); ok { … }
//
// Notes
// -----
// • The key is unexported to avoid context-key collisions.
// • A request that never passed the middleware yields the unauthorized
//   zero value, so handlers need no nil checks.

package auth

import "context"

type authzKey struct{}

// WithAuthorization returns a new context carrying authz.
func WithAuthorization(ctx context.Context, authz Authorization) context.Context {
	return context.WithValue(ctx, authzKey{}, authz)
}

// FromContext extracts the Authorization from ctx, or the unauthorized
// zero value when none was attached.
func FromContext(ctx context.Context) Authorization {
	v, _ := ctx.Value(authzKey{}).(Authorization)
	return v
}
