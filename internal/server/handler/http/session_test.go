package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arvachan/solestore/internal/models"
)

// fakeSessionService implements SessionService for testing.
type fakeSessionService struct {
	identity *models.Identity
	profile  *models.Profile
	loading  bool

	signInErr  error
	signUpErr  error
	recoverErr error
	resetErr   error

	signedOut bool
}

func (f *fakeSessionService) Identity() *models.Identity { return f.identity }
func (f *fakeSessionService) Profile() *models.Profile   { return f.profile }
func (f *fakeSessionService) Loading() bool              { return f.loading }

func (f *fakeSessionService) SignIn(ctx context.Context, email, password string) error {
	if f.signInErr == nil {
		f.identity = &models.Identity{ID: "u1", Email: email}
		f.profile = &models.Profile{ID: "u1", Email: email, Role: models.RoleCustomer}
	}
	return f.signInErr
}

func (f *fakeSessionService) SignUp(ctx context.Context, email, password, fullName string) error {
	return f.signUpErr
}

func (f *fakeSessionService) SignOut(ctx context.Context) { f.signedOut = true }

func (f *fakeSessionService) RequestPasswordReset(ctx context.Context, email string) error {
	return f.recoverErr
}

func (f *fakeSessionService) CompletePasswordReset(ctx context.Context, fragment, newPassword, confirm string) error {
	return f.resetErr
}

func TestSessionHandler_SignIn(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeSessionService
		expectedCode int
		check        func(t *testing.T, body []byte)
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeSessionService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "success",
			body:         `{"email":"carol@example.com","password":"pw"}`,
			service:      &fakeSessionService{},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp sessionPayload
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Identity == nil || resp.Identity.Email != "carol@example.com" {
					t.Errorf("unexpected identity: %+v", resp.Identity)
				}
				if resp.Notice == nil || resp.Notice.Title != "Welcome back!" {
					t.Errorf("unexpected notice: %+v", resp.Notice)
				}
			},
		},
		{
			name:         "invalid credentials",
			body:         `{"email":"carol@example.com","password":"wrong"}`,
			service:      &fakeSessionService{signInErr: models.E(models.KindInvalidCredentials, "Invalid login credentials", nil)},
			expectedCode: http.StatusUnauthorized,
			check: func(t *testing.T, body []byte) {
				var resp errorBody
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Kind != models.KindInvalidCredentials {
					t.Errorf("kind = %q; want invalid_credentials", resp.Kind)
				}
				if resp.Notice.Variant != models.NoticeDestructive {
					t.Errorf("variant = %q; want destructive", resp.Notice.Variant)
				}
			},
		},
		{
			name:         "email unconfirmed",
			body:         `{"email":"carol@example.com","password":"pw"}`,
			service:      &fakeSessionService{signInErr: models.E(models.KindEmailUnconfirmed, "Email not confirmed", nil)},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := &SessionHandler{Sessions: tc.service}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/session/signin", strings.NewReader(tc.body))

			handler.SignIn(rec, req)

			if rec.Code != tc.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tc.expectedCode)
			}
			if tc.check != nil {
				tc.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestSessionHandler_SignUp_ConfirmationPending(t *testing.T) {
	service := &fakeSessionService{}
	handler := &SessionHandler{Sessions: service}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session/signup",
		strings.NewReader(`{"email":"erin@example.com","password":"Str0ng!pass","full_name":"Erin S"}`))

	handler.SignUp(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp sessionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Identity != nil {
		t.Errorf("sign-up must not establish a session, got identity %+v", resp.Identity)
	}
	if resp.Notice == nil || !strings.Contains(resp.Notice.Description, "verify your account") {
		t.Errorf("unexpected notice: %+v", resp.Notice)
	}
}

func TestSessionHandler_SignOut(t *testing.T) {
	service := &fakeSessionService{identity: &models.Identity{ID: "u1"}}
	handler := &SessionHandler{Sessions: service}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session/signout", nil)

	handler.SignOut(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want 204", rec.Code)
	}
	if !service.signedOut {
		t.Error("expected SignOut to be called on the service")
	}
}

func TestSessionHandler_State(t *testing.T) {
	service := &fakeSessionService{loading: true}
	handler := &SessionHandler{Sessions: service}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)

	handler.State(rec, req)

	var resp sessionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Loading || resp.Identity != nil {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestSessionHandler_Reset_InvalidLinkRedirects(t *testing.T) {
	service := &fakeSessionService{
		resetErr: models.E(models.KindInvalidResetLink, "This password reset link is invalid or has expired.", nil),
	}
	handler := &SessionHandler{Sessions: service}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session/reset",
		strings.NewReader(`{"fragment":"type=recovery","password":"Str0ng!pass","confirm_password":"Str0ng!pass"}`))

	handler.Reset(rec, req)

	if rec.Code != http.StatusGone {
		t.Fatalf("status = %d; want 410", rec.Code)
	}
	var resp errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Decision == nil || !resp.Decision.Redirect || resp.Decision.Target != "/auth" {
		t.Errorf("expected redirect decision to /auth, got %+v", resp.Decision)
	}
	if resp.DelaySeconds == 0 {
		t.Error("expected a redirect delay")
	}
}
