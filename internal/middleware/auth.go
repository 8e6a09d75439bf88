package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const identityKey contextKey = "identity"

var (
	ErrNoCredential = errors.New("no credential")
	ErrNoEmail      = errors.New("identity has no email")
)

// Identity is the authenticated caller. Email is the principal, exactly as the
// provider reported it; it is also the document key.
type Identity struct {
	UID   string
	Email string
}

// Credential is the raw session material found on a request.
type Credential struct {
	Token      string
	FromCookie bool
}

// Authenticator resolves a session credential into an identity.
// Verification itself belongs to the identity provider.
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credential) (Identity, error)
}

// Authenticate attaches the caller's identity to the request context when the
// request carries a valid session. Requests without one pass through
// unchanged; handlers decide how to answer them.
func Authenticate(authn Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, ok := credentialFrom(r, cookieName)
			if !ok || authn == nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := authn.Authenticate(r.Context(), cred)
			if err == nil && strings.TrimSpace(id.Email) == "" {
				err = ErrNoEmail
			}
			if err != nil {
				log.Printf("[auth] %s %s: session rejected: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the caller's identity from context
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.Email == "" {
		return Identity{}, false
	}
	return id, true
}

// GetUserEmail returns the principal, or "" for anonymous requests.
func GetUserEmail(ctx context.Context) string {
	id, _ := GetIdentity(ctx)
	return id.Email
}

// GetUserID returns the provider's user id, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	id, _ := GetIdentity(ctx)
	return id.UID
}

// credentialFrom prefers an Authorization bearer token over the session cookie.
func credentialFrom(r *http.Request, cookieName string) (Credential, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return Credential{Token: token}, true
			}
		}
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return Credential{Token: c.Value, FromCookie: true}, true
		}
	}
	return Credential{}, false
}
