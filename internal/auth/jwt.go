package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ProgressClaims are the JWT claims for progress-stream subscription tokens.
// The token scopes a subscriber to the user workspace it asked about; the
// stream itself carries no per-command addressing.
type ProgressClaims struct {
	jwt.RegisteredClaims
	UserName string `json:"user_name"`
}

// JWTIssuer creates and validates progress-subscription tokens.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer creates a new issuer with the given shared secret.
func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret)}
}

// IssueProgressToken creates a short-lived token for the progress socket.
func (j *JWTIssuer) IssueProgressToken(userName string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ProgressClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "pibridge",
		},
		UserName: userName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateProgressToken parses and validates a progress token.
func (j *JWTIssuer) ValidateProgressToken(tokenStr string) (*ProgressClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ProgressClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*ProgressClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
