package middleware

import (
	"Undercover/services/game"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated subject behind a socket connection.
type Identity struct {
	ID   string
	Name string
}

type identityClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IdentityVerifier checks HS256 bearer tokens. The token subject is the identity id.
type IdentityVerifier struct {
	secret []byte
}

func NewIdentityVerifier(secret string) *IdentityVerifier {
	return &IdentityVerifier{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured.
func (v *IdentityVerifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Verify accepts "Bearer <token>" or a bare token. Errors wrap game.ErrUnauthorized.
func (v *IdentityVerifier) Verify(authorization string) (Identity, error) {
	if !v.Enabled() {
		return Identity{}, fmt.Errorf("%w: no signing secret configured", game.ErrUnauthorized)
	}
	raw := strings.TrimSpace(authorization)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty token", game.ErrUnauthorized)
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", game.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", game.ErrUnauthorized)
	}
	return Identity{ID: claims.Subject, Name: claims.Name}, nil
}

// Sign issues a token for id. Used by tooling and tests.
func (v *IdentityVerifier) Sign(id, name string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = id
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{Name: name, RegisteredClaims: claims})
	return token.SignedString(v.secret)
}
