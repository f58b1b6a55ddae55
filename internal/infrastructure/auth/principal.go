package auth

import (
	"context"
)

// Principal is the request-scoped projection of "who is making this call".
// Built fresh per request, never persisted or shared across requests.
type Principal struct {
	Subject     string
	Authorities []string
}

func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Outcome is the closed set of authentication results for one request.
type Outcome interface{ outcome() }

type Authenticated struct{ Principal Principal }

// Unauthenticated means no usable credentials were presented; the request
// proceeds without a principal since many endpoints are public.
type Unauthenticated struct{}

type Rejected struct{ Reason string }

func (Authenticated) outcome()   {}
func (Unauthenticated) outcome() {}
func (Rejected) outcome()        {}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
