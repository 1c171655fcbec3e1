package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/auth/provider"
)

// Client talks to a GoTrue-compatible identity API (Supabase Auth).
// Admin endpoints are authenticated with the service-role key; token
// verification forwards the end user's own bearer token.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

const requestTimeout = 10 * time.Second

func New(baseURL, serviceKey string) (*Client, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, errors.New("gotrue config missing required fields")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// GoTrue reports failures as human-readable messages, not stable codes.
// Every known signature is matched here and nowhere else; matching is
// case-insensitive substring.
var failureSignatures = []struct {
	substr string
	class  provider.FailureClass
}{
	{"already been registered", provider.ClassDuplicateEmail},
	{"already registered", provider.ClassDuplicateEmail},
	{"unique constraint", provider.ClassDuplicateEmail},
	{"duplicate key", provider.ClassDuplicateEmail},
	{"password should be at least", provider.ClassWeakPassword},
	{"weak password", provider.ClassWeakPassword},
	{"invalid login credentials", provider.ClassInvalidCredentials},
	{"invalid_grant", provider.ClassInvalidCredentials},
	{"invalid grant", provider.ClassInvalidCredentials},
}

func classify(msg string) provider.FailureClass {
	lower := strings.ToLower(msg)
	for _, sig := range failureSignatures {
		if strings.Contains(lower, sig.substr) {
			return sig.class
		}
	}
	return provider.ClassOther
}

// gotrueUser is the wire shape of a GoTrue user object.
type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *gotrueUser) identity() *auth.Identity {
	return &auth.Identity{
		ID:       u.ID,
		Email:    u.Email,
		Metadata: u.UserMetadata,
	}
}

// gotrueError covers the error body shapes GoTrue has used across
// versions; whichever field is populated wins.
type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, bearer string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gotrue: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gotrue: build request: %w", err)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gotrue: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var ge gotrueError
		_ = json.Unmarshal(data, &ge)

		msg := ge.text()
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}

		return &provider.AccountError{
			Class: classify(msg),
			Msg:   msg,
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gotrue: decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) CreateAccount(
	ctx context.Context,
	email, password string,
	metadata map[string]any,
) (*auth.Identity, error) {

	// The provider would reject this anyway; failing before the network
	// call keeps the message under our control.
	if len(password) < provider.MinPasswordLength {
		return nil, &provider.AccountError{
			Class: provider.ClassWeakPassword,
			Msg:   fmt.Sprintf("password should be at least %d characters", provider.MinPasswordLength),
		}
	}

	payload := map[string]any{
		"email":         email,
		"password":      password,
		"user_metadata": metadata,
		"email_confirm": true,
	}

	var u gotrueUser
	if err := c.do(ctx, http.MethodPost, "/admin/users", c.serviceKey, payload, &u); err != nil {
		return nil, err
	}

	if u.ID == "" {
		return nil, &provider.AccountError{
			Class: provider.ClassOther,
			Msg:   "create account returned no user id",
		}
	}

	return u.identity(), nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+id, c.serviceKey, nil, nil)
}

func (c *Client) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	var u gotrueUser
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &u); err != nil {
		return nil, err
	}

	if u.ID == "" {
		return nil, &provider.AccountError{
			Class: provider.ClassInvalidCredentials,
			Msg:   "token resolved to no user",
		}
	}

	return u.identity(), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.Identity, string, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	var result struct {
		AccessToken string     `json:"access_token"`
		User        gotrueUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.serviceKey, payload, &result); err != nil {
		return nil, "", err
	}

	if result.AccessToken == "" || result.User.ID == "" {
		return nil, "", &provider.AccountError{
			Class: provider.ClassInvalidCredentials,
			Msg:   "sign in returned no token or user",
		}
	}

	return result.User.identity(), result.AccessToken, nil
}

func (c *Client) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error {
	payload := map[string]any{
		"user_metadata": metadata,
	}
	return c.do(ctx, http.MethodPut, "/admin/users/"+id, c.serviceKey, payload, nil)
}
