package http

import (
	"net/http"

	"github.com/arvachan/solestore/internal/guard"
)

// NavHandler resolves navigation intents for the UI router: given the
// requested path and its gate parameters, it answers stay-or-redirect from
// the current session state.
type NavHandler struct {
	// Sessions supplies the session state the guard evaluates.
	Sessions SessionReader
}

// Resolve handles GET /api/navigation?path=&require_auth=&admin_only=.
// The UI applies the returned decision; the gateway never navigates itself.
func (h *NavHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req := guard.Requirements{
		RequireAuth: q.Get("require_auth") == "true",
		AdminOnly:   q.Get("admin_only") == "true",
	}

	state := guard.StateFor(h.Sessions.Loading(), h.Sessions.Identity(), h.Sessions.Profile())
	writeJSON(w, http.StatusOK, guard.Evaluate(state, req, path))
}
