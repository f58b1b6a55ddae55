package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushq/course-service/internal/infrastructure/observability"
	"github.com/campushq/course-service/internal/token"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
)

const (
	reasonExpired          = "Token has expired"
	reasonMalformed        = "Invalid JWT Token"
	reasonSignatureInvalid = "Invalid JWT signature"
	reasonGeneric          = "Authentication failed"
)

// IdentityResolver is the external collaborator that turns a token subject
// into a live principal. Invoked at most once per request, never cached here.
type IdentityResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (*Principal, error)
}

// Gate authenticates requests from their Authorization header. A request
// without credentials proceeds unauthenticated; a request with a bad token is
// rejected outright with a 401 and a short reason, never a stack trace.
type Gate struct {
	validator *token.Validator
	resolver  IdentityResolver

	// strictHeader rejects Authorization headers that are present but not of
	// the form "Bearer <token>". The default is permissive: such headers are
	// ignored and the request proceeds unauthenticated.
	strictHeader bool
}

func NewGate(validator *token.Validator, resolver IdentityResolver, strictHeader bool) *Gate {
	return &Gate{validator: validator, resolver: resolver, strictHeader: strictHeader}
}

// Authenticate inspects a single request and produces the authentication
// outcome. It does not touch the response; Middleware applies the outcome.
func (g *Gate) Authenticate(r *http.Request) Outcome {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Unauthenticated{}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		if g.strictHeader {
			return Rejected{Reason: reasonMalformed}
		}
		return Unauthenticated{}
	}

	claims, err := g.validator.Validate(parts[1], "")
	if err != nil {
		return Rejected{Reason: ReasonForError(err)}
	}
	if claims.Kind != token.KindAccess {
		slog.Warn("non-access token presented on protected request", "kind", claims.Kind)
		return Rejected{Reason: reasonMalformed}
	}

	principal, err := g.resolver.ResolvePrincipal(r.Context(), claims.Subject)
	if err != nil {
		slog.Error("failed to resolve principal", "subject", claims.Subject, "error", err)
		return Rejected{Reason: reasonGeneric}
	}

	return Authenticated{Principal: *principal}
}

// Middleware installs the authenticated principal into the request context or
// writes the rejection. Downstream handlers read the context; no global state
// is touched.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch out := g.Authenticate(r).(type) {
		case Authenticated:
			observability.AuthOutcomes.WithLabelValues("authenticated").Inc()
			ctx := WithPrincipal(r.Context(), out.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		case Rejected:
			observability.AuthOutcomes.WithLabelValues("rejected").Inc()
			http.Error(w, out.Reason, http.StatusUnauthorized)
		default:
			observability.AuthOutcomes.WithLabelValues("anonymous").Inc()
			next.ServeHTTP(w, r)
		}
	})
}

// RequireAuthenticated rejects requests that reached a protected route
// without a principal.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			http.Error(w, reasonGeneric, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthority gates a route on a single permission string in the
// principal's claim set.
func RequireAuthority(authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				http.Error(w, reasonGeneric, http.StatusUnauthorized)
				return
			}
			if !p.HasAuthority(authority) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ReasonForError maps a token failure to the short client-facing reason.
// Expiry is distinguished so clients know to refresh; everything unexpected
// collapses to a generic message.
func ReasonForError(err error) string {
	switch {
	case errors.Is(err, pkgerrors.ErrTokenExpired):
		return reasonExpired
	case errors.Is(err, pkgerrors.ErrSignatureInvalid):
		return reasonSignatureInvalid
	case errors.Is(err, pkgerrors.ErrTokenMalformed):
		return reasonMalformed
	default:
		return reasonGeneric
	}
}
