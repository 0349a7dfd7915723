package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation is the outcome of a local access-token check.  Reason is
// set only when Valid is false.
type Validation struct {
	Valid  bool
	Reason string
}

// Validator decides whether the stored access token is still usable
// without a network round trip.  Expiry is compared against Now with no
// grace period: a token expiring this instant is already invalid.
type Validator struct {
	Store TokenStore
	Now   func() time.Time // defaults to time.Now
}

// ValidateAccessToken checks presence, structure and expiry of the
// stored access token.  It never verifies the signature (only the
// server can do that), so a valid result means "worth presenting", not
// "guaranteed accepted".
func (v *Validator) ValidateAccessToken() Validation {
	pair, ok := v.Store.Load()
	if !ok {
		return Validation{Valid: false, Reason: "missing tokens"}
	}

	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, jwt.MapClaims{}); err != nil {
		return Validation{Valid: false, Reason: "malformed access token"}
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if pair.AccessExpiry.IsZero() || !pair.AccessExpiry.After(now()) {
		return Validation{Valid: false, Reason: "access token expired"}
	}
	return Validation{Valid: true}
}
