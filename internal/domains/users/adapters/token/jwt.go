// Package token implements session tokens as signed JWTs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/envioslab/shipment-api/internal/domains/users/ports"
)

// DefaultTTL matches the one-hour session lifetime of the login tokens.
const DefaultTTL = time.Hour

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

type sessionClaims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int64  `json:"role_id"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
}

func (i *JWTIssuer) Issue(claims ports.Claims) (string, error) {
	if len(i.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		RoleID: claims.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return token.SignedString(i.secret)
}

func (i *JWTIssuer) Verify(raw string) (ports.Claims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return ports.Claims{}, ports.ErrInvalidToken
	}
	return ports.Claims{UserID: claims.UserID, Email: claims.Email, RoleID: claims.RoleID}, nil
}
