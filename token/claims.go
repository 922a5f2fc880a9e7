package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token payload the client cares about.
// The client never verifies signatures (that is the backend's job); it only
// peeks at expiry and role to avoid sending requests it knows will bounce.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Peek decodes an access token without verifying it. Malformed tokens
// return an error; the caller should treat that the same as an expired one.
func Peek(accessToken string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresWithin reports whether the token expires before now+leeway. Tokens
// without an exp claim never report as expiring.
func (c *Claims) ExpiresWithin(now time.Time, leeway time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(now.Add(leeway))
}
