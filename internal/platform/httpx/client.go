// Package httpx is the single outbound boundary to the Pre-View API. It
// owns the response envelope convention, bearer credential attachment, and
// the one-shot token renewal that every other component relies on.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "preview/internal/platform/errors"
	"preview/internal/platform/id"
)

// Credentials is the access/refresh pair persisted between runs. The store
// is the only cross-component mutable shared resource; everything else
// treats it as read-only.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether no credential pair is held.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// CredentialStore persists the credential pair. Save replaces the whole
// pair atomically; a partially-updated pair must never be observable.
type CredentialStore interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// envelope is the body convention shared by every endpoint. Success
// responses carry data; error responses carry the domain code instead.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

const reissuePath = "/auth/reissue"

// Client wraps every outbound request with bearer attachment and renewal.
//
// On an authorization failure the client reissues the pair once using the
// refresh credential and replays the original request exactly once;
// concurrent renewals coalesce into a single in-flight reissue call. A
// reissue failure clears the stored pair and fires the forced-logout
// callbacks.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
	ids     id.Generator
	renew   singleflight.Group

	mu       sync.Mutex
	onLogout []func()
}

func New(baseURL string, timeout time.Duration, creds CredentialStore, ids id.Generator) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		ids:     ids,
	}
}

// OnForcedLogout registers a callback fired when credential renewal fails
// unrecoverably. Callbacks run once per logout, outside the renewal path.
func (c *Client) OnForcedLogout(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLogout = append(c.onLogout, fn)
}

func (c *Client) fireForcedLogout() {
	c.mu.Lock()
	callbacks := make([]func(), len(c.onLogout))
	copy(callbacks, c.onLogout)
	c.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// Get issues an authenticated GET and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST. body may be nil for ack endpoints.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	origErr := c.send(ctx, method, path, body, out)
	if origErr == nil || !apperrors.IsAuthFailure(origErr) {
		return origErr
	}

	// One renewal attempt per logical request, never more.
	creds, err := c.loadCredentials(ctx)
	if err != nil || creds.RefreshToken == "" {
		// No refresh credential: the original failure stands.
		return origErr
	}
	if _, err := c.reissue(ctx, creds.RefreshToken); err != nil {
		_ = c.creds.Clear(ctx)
		c.fireForcedLogout()
		return fmt.Errorf("renew credentials: %w", err)
	}

	// Replay once with the new access credential; whatever comes back is
	// the caller's result.
	return c.send(ctx, method, path, body, out)
}

// send performs a single round trip, re-reading the store so a replay
// picks up the renewed access credential.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ids != nil {
		req.Header.Set("X-Request-Id", c.ids.New())
	}
	if creds, err := c.loadCredentials(ctx); err == nil && creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeEnvelope(resp, out)
}

// loadCredentials reads the pair, treating a malformed store as absent and
// clearing it defensively so a broken token never reaches the wire.
func (c *Client) loadCredentials(ctx context.Context) (Credentials, error) {
	creds, err := c.creds.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotLoggedIn) {
			_ = c.creds.Clear(ctx)
		}
		return Credentials{}, err
	}
	return creds, nil
}

// reissue exchanges the refresh credential for a new pair. Concurrent
// authorization failures share one in-flight call; every waiter sees the
// same outcome. The reissue endpoint itself is unauthenticated.
func (c *Client) reissue(ctx context.Context, refreshToken string) (Credentials, error) {
	v, err, _ := c.renew.Do(refreshToken, func() (any, error) {
		payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
		if err != nil {
			return Credentials{}, fmt.Errorf("encode reissue body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reissuePath, bytes.NewReader(payload))
		if err != nil {
			return Credentials{}, fmt.Errorf("build reissue request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return Credentials{}, fmt.Errorf("reissue request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		var fresh Credentials
		if err := decodeEnvelope(resp, &fresh); err != nil {
			return Credentials{}, err
		}
		if fresh.AccessToken == "" || fresh.RefreshToken == "" {
			return Credentials{}, fmt.Errorf("reissue returned an incomplete credential pair")
		}
		if err := c.creds.Save(ctx, fresh); err != nil {
			return Credentials{}, fmt.Errorf("save renewed credentials: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		return Credentials{}, err
	}
	return v.(Credentials), nil
}

// decodeEnvelope maps a response onto the caller's output or an APIError.
// success=false is a domain error even on HTTP 200; error bodies carry the
// server's code and message verbatim.
func decodeEnvelope(resp *http.Response, out any) error {
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &env); err != nil {
			if resp.StatusCode >= 400 {
				return &apperrors.APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("decode response envelope: %w", err)
		}
	}

	if resp.StatusCode >= 400 || (len(payload) > 0 && !env.Success) {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &apperrors.APIError{Status: resp.StatusCode, Code: env.Code, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
