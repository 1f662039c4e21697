package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arvachan/solestore/internal/models"
)

// defaultTimeout bounds every provider call; the provider itself imposes none.
const defaultTimeout = 10 * time.Second

// Client is an HTTP client for a GoTrue-style identity provider REST API.
type Client struct {
	// BaseURL is the provider's auth endpoint root, without trailing slash.
	BaseURL string
	// APIKey is the public API key sent with every request.
	APIKey string
	// HTTPClient performs the requests.
	HTTPClient *http.Client
}

// NewClient constructs a Client for the provider at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// providerError is the provider's JSON error body. Field names vary across
// endpoint generations, so all known spellings are accepted.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// text returns the first non-empty message field.
func (e providerError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignIn exchanges credentials for a Grant via the password grant endpoint.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	body := map[string]string{"email": email, "password": password}
	var grant Grant
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// SignUp registers a new identity. The identity is pending confirmation.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*models.Identity, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}
	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		User  *models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	// Providers with autoconfirm disabled return the user at top level.
	if resp.User != nil {
		return resp.User, nil
	}
	return &models.Identity{ID: resp.ID, Email: resp.Email}, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// Refresh exchanges a refresh token for a fresh Grant.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Grant, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var grant Grant
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// RequestPasswordReset asks the provider to mail a reset link for email.
// The provider appends its tokens to redirectTo as a URL fragment.
func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover?redirect_to=" + url.QueryEscape(redirectTo)
	return c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

// UpdatePassword sets a new password for the identity behind accessToken.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/user", accessToken, map[string]string{"password": newPassword}, nil)
}

// do performs one provider request and decodes the response into out when
// out is non-nil. Non-2xx responses are classified.
func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return models.E(models.KindRemoteFailure, "encode request", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return models.E(models.KindRemoteFailure, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.E(models.KindRemoteFailure, "identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classify(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return models.E(models.KindRemoteFailure, "decode response", err)
		}
	}
	return nil
}

// classify converts a provider error response into a models.Error.
func classify(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var pe providerError
	_ = json.Unmarshal(raw, &pe)
	msg := pe.text()
	if msg == "" {
		msg = fmt.Sprintf("identity provider returned %d", resp.StatusCode)
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		return models.E(models.KindInvalidCredentials, msg, nil)
	case strings.Contains(lower, "email not confirmed"):
		return models.E(models.KindEmailUnconfirmed, msg, nil)
	case resp.StatusCode == http.StatusUnauthorized:
		return models.E(models.KindUnauthenticated, msg, nil)
	default:
		return models.E(models.KindRemoteFailure, msg, nil)
	}
}
