package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Identity is the caller as seen by the forum: the upstream JWT and its
// subject. The zero value is an anonymous caller.
type Identity struct {
	Subject string
	Token   string
}

// LoggedIn reports whether the caller presented a usable token.
func (id Identity) LoggedIn() bool { return id.Subject != "" }

// CacheScope partitions cached responses so logged-in and anonymous
// results are never cross-served.
func (id Identity) CacheScope() string {
	if !id.LoggedIn() {
		return "anon"
	}
	return "user:" + id.Subject
}

type ctxKeyIdentity struct{}

func IdentityFromContext(ctx context.Context) Identity {
	v, _ := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v
}

// WithIdentity injects id into context. Useful for testing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

type Claims struct {
	jwt.RegisteredClaims
}

// JWTVerifier parses upstream forum tokens. With a Secret the HS256
// signature is checked; without one the token is only decoded, which is
// enough to scope caches because the upstream API authenticates every call.
type JWTVerifier struct {
	Secret []byte
}

func (v JWTVerifier) Parse(tokenString string) (*Claims, error) {
	if len(v.Secret) == 0 {
		claims := &Claims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Identify is an optional-auth middleware: requests without a bearer token
// continue anonymously, requests with a bad one are rejected.
func Identify(verifier JWTVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(parts[1])
			claims, err := verifier.Parse(token)
			if err != nil || strings.TrimSpace(claims.Subject) == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := WithIdentity(r.Context(), Identity{Subject: claims.Subject, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
