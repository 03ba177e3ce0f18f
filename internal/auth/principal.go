package auth

import "context"

// PrincipalKind tags which account collection the principal came from.
// It is decided exactly once, at login, and carried in the token claims.
type PrincipalKind string

const (
	KindCustomer PrincipalKind = "customer"
	KindUser     PrincipalKind = "user"
)

// Principal is the authenticated identity handed to authorization checks.
type Principal struct {
	Kind PrincipalKind
	ID   uint
	Role string
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
