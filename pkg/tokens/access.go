package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/omerfaruksaribal/ShopKit/pkg/identity"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return accessSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// IdentityFromToken verifies the token and converts its subject and role.
func IdentityFromToken(tokenStr string, accessSecret []byte) (identity.Identity, error) {
	claims, err := AccessClaimsFromToken(tokenStr, accessSecret)
	if err != nil {
		return identity.Identity{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return identity.Identity{ID: id, Role: role}, nil
}

// SignAccessToken is used by tests and local tooling; tokens are issued by the auth service.
func SignAccessToken(id identity.Identity, secret []byte, ttl time.Duration) (string, error) {
	claims := AccessClaims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
