package sweep

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errTokenExpired = errors.New("access token already expired")

// tokenInfo describes a JWT access token without verifying its signature.
// The sweep only needs to know who it is acting as and for how long.
type tokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// inspectToken decodes the claims of a JWT access token. ok is false for
// opaque tokens, which are used as-is.
func inspectToken(raw string, now time.Time) (info tokenInfo, ok bool, err error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tokenInfo{}, false, nil
	}
	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
		if !info.ExpiresAt.After(now) {
			return info, true, fmt.Errorf("%w at %s", errTokenExpired, info.ExpiresAt.Format(time.RFC3339))
		}
	}
	return info, true, nil
}
