// Package identity talks to the remote identity provider: password sign-in,
// sign-up, sign-out, session restore, and the password-reset flow.
package identity

import (
	"context"

	"github.com/arvachan/solestore/internal/models"
)

// Grant is an established provider session: the authenticated identity plus
// the tokens needed to act on its behalf and to restore it later.
type Grant struct {
	// AccessToken authorizes requests on behalf of the identity.
	AccessToken string `json:"access_token"`
	// RefreshToken restores the session after a restart.
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
	// Identity is the authenticated user.
	Identity models.Identity `json:"user"`
}

// Provider defines the identity provider operations required by the session
// service. Every method converts provider failures into classified
// models.Error values.
type Provider interface {
	// SignIn exchanges credentials for a Grant.
	// Fails with KindInvalidCredentials or KindEmailUnconfirmed when the
	// provider rejects the attempt, KindRemoteFailure otherwise.
	SignIn(ctx context.Context, email, password string) (*Grant, error)

	// SignUp registers a new identity. The returned identity is pending
	// email confirmation; no session is established.
	SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, error)

	// SignOut revokes the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// Refresh exchanges a refresh token for a fresh Grant. Used to restore
	// a prior session at startup.
	Refresh(ctx context.Context, refreshToken string) (*Grant, error)

	// RequestPasswordReset asks the provider to mail a reset link that
	// redirects to redirectTo with tokens in the URL fragment.
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error

	// UpdatePassword sets a new password for the identity behind
	// accessToken, as found in a reset link.
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}
