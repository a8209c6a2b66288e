// Package identity extracts the current user's identity from the opaque
// bearer token issued at login. The token is never validated here: signature
// and expiry checks are strictly a backend responsibility, the client only
// needs to know who it is acting as.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrEmptyToken     = errors.New("token is empty")
	ErrMalformedToken = errors.New("token is malformed")
	ErrMissingUserID  = errors.New("token carries no user id")
)

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// DecodeClaims extracts the claims segment of a bearer token without
// verifying it.
func DecodeClaims(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrEmptyToken
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrMalformedToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Claims{}, ErrMissingUserID
	}
	return claims, nil
}

// UserIDFromToken is the common lookup: just the current user's id.
func UserIDFromToken(token string) (string, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
