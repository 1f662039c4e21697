// Package http provides the HTTP surface the storefront UI consumes:
// session, cart, catalog, and navigation-resolution endpoints.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/arvachan/solestore/internal/guard"
	"github.com/arvachan/solestore/internal/models"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every failed operation: the classification,
// a user-presentable notice, and an optional navigation decision (used by
// the invalid-reset-link flow to send the visitor back to the auth view).
type errorBody struct {
	Kind   models.ErrorKind `json:"kind"`
	Notice models.Notice    `json:"notice"`

	Decision     *guard.Decision `json:"decision,omitempty"`
	DelaySeconds int             `json:"delay_seconds,omitempty"`
}

// writeError converts err into a status code and an errorBody. Unclassified
// errors are surfaced as remote failures; nothing leaks a raw fault.
func writeError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	if kind == "" {
		kind = models.KindRemoteFailure
	}

	var status int
	title := "Error"
	switch kind {
	case models.KindUnauthenticated:
		status = http.StatusUnauthorized
		title = "Please login"
	case models.KindInvalidCredentials:
		status = http.StatusUnauthorized
		title = "Login Failed"
	case models.KindEmailUnconfirmed:
		status = http.StatusForbidden
		title = "Email Not Confirmed"
	case models.KindValidation:
		status = http.StatusBadRequest
		title = "Invalid Input"
	case models.KindInvalidResetLink:
		status = http.StatusGone
		title = "Invalid Reset Link"
	default:
		status = http.StatusBadGateway
	}

	body := errorBody{
		Kind: kind,
		Notice: models.Notice{
			Title:       title,
			Description: err.Error(),
			Variant:     models.NoticeDestructive,
		},
	}
	if kind == models.KindInvalidResetLink {
		// The UI shows the notice, waits, then applies the redirect.
		d := guard.RedirectTo(guard.AuthView)
		body.Decision = &d
		body.DelaySeconds = 3
	}

	writeJSON(w, status, body)
}
