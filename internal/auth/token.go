package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry only the session id; identity stays in the session store.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func SignSessionToken(sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry.
func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	return parse(tokenStr, secret)
}

// parseIgnoringExpiry still verifies the signature. Logout uses it so an
// expired cookie can clean up its store entry.
func parseIgnoringExpiry(tokenStr, secret string) (*Claims, error) {
	return parse(tokenStr, secret, jwt.WithoutClaimsValidation())
}

func parse(tokenStr, secret string, extra ...jwt.ParserOption) (*Claims, error) {
	opts := append([]jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}, extra...)
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.SessionID == "" {
		return nil, errors.New("invalid session token")
	}
	return c, nil
}
