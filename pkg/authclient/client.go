package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// User is the profile returned by login and /v1/me.  Roles keep the
// server's order; the first role in the fixed precedence decides the
// landing portal (see RouteForRoles).
type User struct {
	ID        uint64   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Roles     []string `json:"roles"`
}

// HasRole applies the platform capability rule: true when the user holds
// the role directly or holds admin.
func (u User) HasRole(role string) bool {
	want := strings.ToLower(strings.TrimSpace(role))
	for _, r := range u.Roles {
		r = strings.ToLower(r)
		if r == want || r == "admin" {
			return true
		}
	}
	return false
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Client wraps the platform's auth endpoints and owns every side effect
// on the token store: exactly one pair write per successful login or
// refresh, a guaranteed clear on logout.  Refresh is serialized behind a
// mutex so a concurrent profile fetch never races a token rotation.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Store   TokenStore

	refreshMu sync.Mutex
}

// New builds a Client for the given API base URL ("https://host" without
// trailing slash) persisting tokens into store.
func New(baseURL string, store TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Store:   store,
	}
}

// ----- wire DTOs, mirroring the server handlers -----

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    User      `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a token pair.  On success the pair is
// saved (one write) and the user returned.  Invalid credentials surface
// as *AuthError, connectivity failures as *NetworkError.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp authResp
	err := c.post(ctx, "/v1/auth/login", map[string]string{"email": email, "password": password}, &resp, "")
	if err != nil {
		return User{}, err
	}
	if err := c.Store.Save(pairOf(resp)); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Register creates an account.  It does not authenticate the caller and
// writes nothing to the store.  Bad input surfaces as *ValidationError.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.post(ctx, "/v1/auth/register", in, nil, "")
}

// Logout revokes the session server-side on a best-effort basis and
// always clears the local store: the caller ends up logged out locally
// even when the backend is unreachable.  The only reported failure is a
// store clear error.
func (c *Client) Logout(ctx context.Context) error {
	if pair, ok := c.Store.Load(); ok {
		// Ignore the outcome; local logout must not depend on it.
		_ = c.post(ctx, "/v1/auth/logout",
			map[string]string{"refresh_token": pair.RefreshToken}, nil, pair.AccessToken)
	}
	return c.Store.Clear()
}

// RefreshTokens exchanges the stored refresh token for a new pair.  On
// an auth rejection the store is cleared before returning: an invalid
// refresh token must never leave a half-usable pair behind.
func (c *Client) RefreshTokens(ctx context.Context) (TokenPair, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, ok := c.Store.Load()
	if !ok {
		return TokenPair{}, &AuthError{Status: http.StatusUnauthorized, Message: "no refresh token"}
	}

	var resp authResp
	err := c.post(ctx, "/v1/auth/refresh", map[string]string{"refresh_token": pair.RefreshToken}, &resp, "")
	if err != nil {
		if _, isAuth := err.(*AuthError); isAuth {
			_ = c.Store.Clear()
		}
		return TokenPair{}, err
	}
	fresh := pairOf(resp)
	if err := c.Store.Save(fresh); err != nil {
		return TokenPair{}, err
	}
	return fresh, nil
}

// Profile fetches /v1/me with the stored access token.  A server-side
// rejection is an *AuthError distinct from transient *NetworkError so
// the session layer knows whether to clear tokens.
func (c *Client) Profile(ctx context.Context) (User, error) {
	pair, ok := c.Store.Load()
	if !ok {
		return User{}, &AuthError{Status: http.StatusUnauthorized, Message: "no access token"}
	}
	var resp struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/v1/me", &resp, pair.AccessToken); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

func pairOf(resp authResp) TokenPair {
	return TokenPair{
		AccessToken:  resp.Access.Token,
		RefreshToken: resp.Refresh.Token,
		AccessExpiry: resp.Access.Expires,
	}
}

// ----- transport -----

func (c *Client) post(ctx context.Context, path string, body any, out any, bearer string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, bearer)
}

func (c *Client) get(ctx context.Context, path string, out any, bearer string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, bearer)
}

func (c *Client) do(req *http.Request, out any, bearer string) error {
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Op: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(req, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: req.Method, URL: req.URL.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError maps an HTTP error response onto the taxonomy.
func statusError(req *http.Request, resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: msg}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = resp.Status
		}
		return &ValidationError{Message: msg}
	case resp.StatusCode >= 500:
		return &NetworkError{Op: req.Method, URL: req.URL.String(), Err: fmt.Errorf("server error: %s", resp.Status)}
	default:
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("unexpected response %d: %s", resp.StatusCode, msg)
	}
}
