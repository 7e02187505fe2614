package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"fabcatalogue/config"
)

// Claims is the access token payload. Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(cfg config.AuthConfig) *Tokens {
	return &Tokens{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// Issue returns a signed token for username.
func (t *Tokens) Issue(username string) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses tokenString and checks signature, expiry and issuer.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.Issuer != t.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrUnauthenticated, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	return claims, nil
}
