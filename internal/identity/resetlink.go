package identity

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arvachan/solestore/internal/models"
)

// ResetTokens are the provider-issued tokens carried in a password-reset
// link's URL fragment.
type ResetTokens struct {
	AccessToken  string
	RefreshToken string
}

// ParseResetFragment extracts the reset tokens from a redirect URL fragment
// such as "access_token=...&refresh_token=...&type=recovery". A leading '#'
// is tolerated. A fragment carrying neither token is an invalid or expired
// link.
func ParseResetFragment(fragment string) (*ResetTokens, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return nil, models.E(models.KindInvalidResetLink, "This password reset link is invalid or has expired.", err)
	}

	tokens := &ResetTokens{
		AccessToken:  values.Get("access_token"),
		RefreshToken: values.Get("refresh_token"),
	}
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		return nil, models.E(models.KindInvalidResetLink, "This password reset link is invalid or has expired.", nil)
	}

	if tokens.AccessToken != "" && tokenExpired(tokens.AccessToken) {
		return nil, models.E(models.KindInvalidResetLink, "This password reset link is invalid or has expired.", nil)
	}

	return tokens, nil
}

// tokenExpired reports whether the JWT's exp claim is in the past. The token
// signature is the provider's concern; only the expiry is inspected here.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Not a JWT; leave the final verdict to the provider.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
