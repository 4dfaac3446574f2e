package auth

import "context"

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal on ctx, or Anonymous.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}

// RequireAdmin fails with ErrAdminRequired unless the caller holds the
// admin capability.
func RequireAdmin(ctx context.Context) error {
	if !FromContext(ctx).IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
