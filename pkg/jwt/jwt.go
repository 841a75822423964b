package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client never holds the backend's signing key, so tokens are only
// inspected for their claims. Signature checks stay on the server.

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

func Inspect(tokenString string) (*Claims, error) {
	claims := &sessionClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	out := &Claims{UserID: userID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether the token expires within leeway. Tokens without an
// exp claim never expire client side.
func Expired(tokenString string, leeway time.Duration) bool {
	claims, err := Inspect(tokenString)
	if err != nil {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(leeway).After(claims.ExpiresAt)
}

// Sign builds an HS256 token. Used by tests and the dev fake backend.
func Sign(userID string, ttl time.Duration, secret []byte) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
