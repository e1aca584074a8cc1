package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, signed with a
// different secret or missing the username claim.
var ErrInvalidToken = errors.New("invalid token")

const usernameClaim = "username"

// TokenIssuer mints and verifies stateless bearer tokens whose only claim
// is the username. Tokens carry no expiry; rotating the secret revokes all
// of them at once.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

func (ti *TokenIssuer) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("username is required")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		usernameClaim: username,
	})
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the username carried by a validly signed token.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	username, _ := claims[usernameClaim].(string)
	if username == "" {
		return "", fmt.Errorf("%w: missing %s claim", ErrInvalidToken, usernameClaim)
	}
	return username, nil
}
