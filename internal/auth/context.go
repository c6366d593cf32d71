package auth

import (
	"context"

	pkgauth "github.com/pattarapol-dev/srisawat-pos-backend/pkg/auth"
)

type contextKey struct{}

var claimsKey contextKey

// ContextWithClaims stashes verified token claims for downstream handlers.
func ContextWithClaims(ctx context.Context, claims *pkgauth.AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims set by the auth middleware, if any.
func ClaimsFromContext(ctx context.Context) (*pkgauth.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*pkgauth.AccessTokenClaims)
	return claims, ok && claims != nil
}

func claimsFromContext(ctx context.Context) (*pkgauth.AccessTokenClaims, bool) {
	return ClaimsFromContext(ctx)
}
