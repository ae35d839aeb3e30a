// Package authtoken classifies stored access tokens as usable or expired.
// Classification is fail-closed: a token that cannot be parsed, or that
// carries no expiry claim, is treated as expired.
package authtoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// parser decodes without verifying the signature. The client cannot hold the
// signing key; trust is established server-side, this check only decides
// whether a refresh is needed before spending a round trip.
var parser = jwt.NewParser()

// Expired reports whether token is unusable at instant now.
func Expired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !exp.After(now)
}
