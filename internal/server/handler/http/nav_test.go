package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arvachan/solestore/internal/guard"
	"github.com/arvachan/solestore/internal/models"
)

func TestNavHandler_Resolve(t *testing.T) {
	customer := &fakeSessionService{
		identity: &models.Identity{ID: "u1", Email: "carol@example.com"},
		profile:  &models.Profile{ID: "u1", Role: models.RoleCustomer},
	}
	admin := &fakeSessionService{
		identity: &models.Identity{ID: "u2", Email: "root@example.com"},
		profile:  &models.Profile{ID: "u2", Role: models.RoleAdmin},
	}

	tests := []struct {
		name     string
		sessions *fakeSessionService
		url      string
		expected guard.Decision
	}{
		{
			name:     "loading never redirects",
			sessions: &fakeSessionService{loading: true},
			url:      "/api/navigation?path=/admin&require_auth=true&admin_only=true",
			expected: guard.Stay(),
		},
		{
			name:     "identity without profile is still loading",
			sessions: &fakeSessionService{identity: &models.Identity{ID: "u1"}},
			url:      "/api/navigation?path=/orders&require_auth=true",
			expected: guard.Stay(),
		},
		{
			name:     "anonymous hits a gated view",
			sessions: &fakeSessionService{},
			url:      "/api/navigation?path=/orders&require_auth=true",
			expected: guard.RedirectTo(guard.AuthView),
		},
		{
			name:     "anonymous browses an open view",
			sessions: &fakeSessionService{},
			url:      "/api/navigation?path=/products",
			expected: guard.Stay(),
		},
		{
			name:     "customer hits the admin view",
			sessions: customer,
			url:      "/api/navigation?path=/admin&require_auth=true&admin_only=true",
			expected: guard.RedirectTo(guard.DefaultView),
		},
		{
			name:     "admin passes the admin view",
			sessions: admin,
			url:      "/api/navigation?path=/admin&require_auth=true&admin_only=true",
			expected: guard.Stay(),
		},
		{
			name:     "signed-in customer lands on the auth view",
			sessions: customer,
			url:      "/api/navigation?path=/auth",
			expected: guard.RedirectTo(guard.DefaultView),
		},
		{
			name:     "signed-in admin lands on the auth view",
			sessions: admin,
			url:      "/api/navigation?path=/auth",
			expected: guard.RedirectTo(guard.DefaultView),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := &NavHandler{Sessions: tc.sessions}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)

			handler.Resolve(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want 200", rec.Code)
			}
			var decision guard.Decision
			if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if decision != tc.expected {
				t.Errorf("decision = %+v; want %+v", decision, tc.expected)
			}
		})
	}
}

func TestNavHandler_Resolve_MissingPath(t *testing.T) {
	handler := &NavHandler{Sessions: &fakeSessionService{}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/navigation", nil)

	handler.Resolve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}
