// Package auth resolves the caller of a request and decides what they may do.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fabcatalogue/store"
)

// UserLookup loads the user named by a token subject.
type UserLookup interface {
	GetUserByUsername(username string) (*store.User, error)
}

// Gate turns a bearer token (or the session cookie) into a freshly loaded user.
// Nothing is cached, so role changes apply on the next request.
type Gate struct {
	users    UserLookup
	tokens   *Tokens
	revoker  Revoker
	sessions *Sessions
}

func NewGate(users UserLookup, tokens *Tokens, revoker Revoker, sessions *Sessions) *Gate {
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &Gate{users: users, tokens: tokens, revoker: revoker, sessions: sessions}
}

func (g *Gate) Tokens() *Tokens     { return g.tokens }
func (g *Gate) Revoker() Revoker    { return g.revoker }
func (g *Gate) Sessions() *Sessions { return g.sessions }

// TokenFromRequest reads "Authorization: Bearer" first, then the session cookie.
func (g *Gate) TokenFromRequest(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if len(bearer) > 0 && bearer != "null" {
		if len(bearer) >= 8 && strings.ToLower(bearer[:7]) == "bearer " {
			return strings.TrimSpace(bearer[7:])
		}
		return bearer
	}
	if g.sessions != nil {
		return g.sessions.Token(r)
	}
	return ""
}

// ResolveCaller verifies the request's token and loads its user.
func (g *Gate) ResolveCaller(r *http.Request) (*store.User, *Claims, error) {
	tokenString := g.TokenFromRequest(r)
	if tokenString == "" {
		return nil, nil, ErrUnauthenticated
	}
	claims, err := g.tokens.Verify(tokenString)
	if err != nil {
		return nil, nil, err
	}
	revoked, err := g.revoker.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}
	user, err := g.users.GetUserByUsername(claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: unknown user %q", ErrUnauthenticated, claims.Subject)
	}
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

type callerKey struct{}
type claimsKey struct{}

func ContextWithCaller(ctx context.Context, user *store.User, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, callerKey{}, user)
	return context.WithValue(ctx, claimsKey{}, claims)
}

// CallerFromContext returns the user resolved for this request, or nil.
func CallerFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(callerKey{}).(*store.User)
	return u
}

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
