package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arvachan/solestore/internal/models"
)

// SessionReader exposes the current session state.
type SessionReader interface {
	// Identity returns the authenticated identity, or nil.
	Identity() *models.Identity
	// Profile returns the loaded profile, or nil.
	Profile() *models.Profile
	// Loading reports whether the session is still resolving.
	Loading() bool
}

// SessionService defines the session operations required by the HTTP
// handlers.
type SessionService interface {
	SessionReader

	// SignIn authenticates and establishes the session.
	SignIn(ctx context.Context, email, password string) error
	// SignUp registers a new identity; confirmation pending, not logged in.
	SignUp(ctx context.Context, email, password, fullName string) error
	// SignOut clears the session.
	SignOut(ctx context.Context)
	// RequestPasswordReset dispatches a reset email.
	RequestPasswordReset(ctx context.Context, email string) error
	// CompletePasswordReset applies a new password from a reset link.
	CompletePasswordReset(ctx context.Context, fragment, newPassword, confirm string) error
}

// SessionHandler handles HTTP requests for session state and transitions.
type SessionHandler struct {
	// Sessions performs the underlying session operations.
	Sessions SessionService
}

// sessionPayload is the session state surfaced to the UI.
type sessionPayload struct {
	Identity *models.Identity `json:"identity"`
	Profile  *models.Profile  `json:"profile"`
	Loading  bool             `json:"loading"`
	Notice   *models.Notice   `json:"notice,omitempty"`
}

// State handles GET /api/session.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionPayload{
		Identity: h.Sessions.Identity(),
		Profile:  h.Sessions.Profile(),
		Loading:  h.Sessions.Loading(),
	})
}

// SignIn handles POST /api/session/signin.
// It expects a JSON body with "email" and "password".
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Sessions.SignIn(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionPayload{
		Identity: h.Sessions.Identity(),
		Profile:  h.Sessions.Profile(),
		Loading:  h.Sessions.Loading(),
		Notice: &models.Notice{
			Title:       "Welcome back!",
			Description: "You have been successfully logged in.",
			Variant:     models.NoticeInfo,
		},
	})
}

// SignUp handles POST /api/session/signup.
// Success means confirmation is pending; no session is returned.
func (h *SessionHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Sessions.SignUp(r.Context(), req.Email, req.Password, req.FullName); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionPayload{
		Loading: h.Sessions.Loading(),
		Notice: &models.Notice{
			Title:       "Account Created!",
			Description: "Please check your email to verify your account.",
			Variant:     models.NoticeInfo,
		},
	})
}

// SignOut handles POST /api/session/signout.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.Sessions.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Recover handles POST /api/session/recover, dispatching a password-reset
// email.
func (h *SessionHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Sessions.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionPayload{
		Loading: h.Sessions.Loading(),
		Notice: &models.Notice{
			Title:       "Reset Link Sent",
			Description: "Check your email for a link to reset your password.",
			Variant:     models.NoticeInfo,
		},
	})
}

// Reset handles POST /api/session/reset, completing a password reset from
// the link's URL fragment.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fragment        string `json:"fragment"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Sessions.CompletePasswordReset(r.Context(), req.Fragment, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionPayload{
		Loading: h.Sessions.Loading(),
		Notice: &models.Notice{
			Title:       "Password Updated",
			Description: "You can now sign in with your new password.",
			Variant:     models.NoticeInfo,
		},
	})
}
