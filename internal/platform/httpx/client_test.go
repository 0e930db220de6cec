package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apperrors "preview/internal/platform/errors"
	"preview/internal/platform/httpx"
	"preview/internal/platform/id"
)

type memoryStore struct {
	mu    sync.Mutex
	creds httpx.Credentials
	saves int
}

func (s *memoryStore) Load(context.Context) (httpx.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.Empty() {
		return httpx.Credentials{}, apperrors.ErrNotLoggedIn
	}
	return s.creds, nil
}

func (s *memoryStore) Save(_ context.Context, creds httpx.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.saves++
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = httpx.Credentials{}
	return nil
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRenewalReplaysOriginalRequestOnce(t *testing.T) {
	t.Parallel()
	var protectedCalls, reissueCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/interviews/7", func(w http.ResponseWriter, r *http.Request) {
		protectedCalls++
		if r.Header.Get("Authorization") != "Bearer fresh-access" {
			writeEnvelope(w, http.StatusUnauthorized, map[string]any{
				"success": false, "code": "AUTH003", "message": "expired token",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true, "data": map[string]any{"id": 7, "title": "Backend mock"},
		})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, r *http.Request) {
		reissueCalls++
		if r.Header.Get("Authorization") != "" {
			t.Errorf("reissue must be unauthenticated, got %q", r.Header.Get("Authorization"))
		}
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != "valid-refresh" {
			writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH004", "message": "bad refresh"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"accessToken": "fresh-access", "refreshToken": "fresh-refresh"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memoryStore{creds: httpx.Credentials{AccessToken: "stale-access", RefreshToken: "valid-refresh"}}
	client := httpx.New(srv.URL, time.Second, store, id.RandomHex{})

	var out struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	if err := client.Get(context.Background(), "/interviews/7", &out); err != nil {
		t.Fatalf("get after renewal: %v", err)
	}
	if out.Title != "Backend mock" {
		t.Fatalf("expected payload delivered to original caller, got %+v", out)
	}
	if reissueCalls != 1 {
		t.Fatalf("expected exactly one reissue call, got %d", reissueCalls)
	}
	if protectedCalls != 2 {
		t.Fatalf("expected original call + one replay, got %d calls", protectedCalls)
	}
	if store.creds.AccessToken != "fresh-access" || store.creds.RefreshToken != "fresh-refresh" {
		t.Fatalf("expected both credentials replaced, got %+v", store.creds)
	}
	if store.saves != 1 {
		t.Fatalf("pair must be saved in a single atomic write, got %d saves", store.saves)
	}
}

func TestReplayFailureIsNotRetriedAgain(t *testing.T) {
	t.Parallel()
	var protectedCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/interviews/1/questions", func(w http.ResponseWriter, _ *http.Request) {
		protectedCalls++
		// Still 401 even after renewal: the replay result must be returned
		// as-is, never renewed a second time.
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH002", "message": "invalid token"})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"accessToken": "a2", "refreshToken": "r2"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memoryStore{creds: httpx.Credentials{AccessToken: "a1", RefreshToken: "r1"}}
	client := httpx.New(srv.URL, time.Second, store, id.RandomHex{})

	err := client.Get(context.Background(), "/interviews/1/questions", nil)
	if !apperrors.IsAuthFailure(err) {
		t.Fatalf("expected auth failure from replay, got %v", err)
	}
	if protectedCalls != 2 {
		t.Fatalf("expected exactly two calls (original + single replay), got %d", protectedCalls)
	}
}

func TestMissingRefreshPropagatesOriginalFailure(t *testing.T) {
	t.Parallel()
	var reissueCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/interviews/3", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH003", "message": "expired token"})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, _ *http.Request) {
		reissueCalls++
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memoryStore{creds: httpx.Credentials{AccessToken: "stale-access"}}
	client := httpx.New(srv.URL, time.Second, store, id.RandomHex{})

	err := client.Get(context.Background(), "/interviews/3", nil)
	apiErr, ok := apperrors.AsAPIError(err)
	if !ok || apiErr.Code != "AUTH003" {
		t.Fatalf("expected the original AUTH003 failure, got %v", err)
	}
	if reissueCalls != 0 {
		t.Fatalf("reissue must not be attempted without a refresh credential")
	}
}

func TestReissueFailureClearsStoreAndFiresForcedLogout(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/interviews/9/result", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH003", "message": "expired token"})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH004", "message": "invalid refresh token"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memoryStore{creds: httpx.Credentials{AccessToken: "a", RefreshToken: "r"}}
	client := httpx.New(srv.URL, time.Second, store, id.RandomHex{})

	var logouts int
	client.OnForcedLogout(func() { logouts++ })

	err := client.Get(context.Background(), "/interviews/9/result", nil)
	apiErr, ok := apperrors.AsAPIError(err)
	if !ok || apiErr.Code != "AUTH004" {
		t.Fatalf("expected the renewal error (not the original 401), got %v", err)
	}
	if !store.creds.Empty() {
		t.Fatalf("expected both credentials cleared, got %+v", store.creds)
	}
	if logouts != 1 {
		t.Fatalf("expected forced logout to fire once, got %d", logouts)
	}
}

func TestConcurrentRenewalsCoalesce(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var reissueCalls int
	renewed := false

	mux := http.NewServeMux()
	mux.HandleFunc("/interviews/5", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := renewed && r.Header.Get("Authorization") == "Bearer fresh"
		mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "AUTH003", "message": "expired token"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 5}})
	})
	mux.HandleFunc("/auth/reissue", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		reissueCalls++
		renewed = true
		mu.Unlock()
		time.Sleep(50 * time.Millisecond) // widen the coalescing window
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"accessToken": "fresh", "refreshToken": "fresh-r"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := &memoryStore{creds: httpx.Credentials{AccessToken: "stale", RefreshToken: "shared-refresh"}}
	client := httpx.New(srv.URL, 5*time.Second, store, id.RandomHex{})

	const parallel = 4
	errs := make(chan error, parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			errs <- client.Get(context.Background(), "/interviews/5", nil)
		}()
	}
	for i := 0; i < parallel; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("parallel request %d: %v", i, err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if reissueCalls != 1 {
		t.Fatalf("expected coalesced renewal (1 reissue), got %d", reissueCalls)
	}
}

func TestDomainErrorOnSuccessFalse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"success": false, "message": "question not found", "code": "Q001"})
	}))
	defer srv.Close()

	client := httpx.New(srv.URL, time.Second, &memoryStore{}, id.RandomHex{})
	err := client.Post(context.Background(), "/interviews/1/questions/99/answers", map[string]string{"content": "hi"}, nil)
	apiErr, ok := apperrors.AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != "Q001" || apiErr.Message != "question not found" {
		t.Fatalf("expected server code and message surfaced verbatim, got %+v", apiErr)
	}
}

func TestAccountLockedCodeIsDistinguishable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusTooManyRequests, map[string]any{
			"success": false, "code": "AUTH007", "message": "too many login attempts",
		})
	}))
	defer srv.Close()

	client := httpx.New(srv.URL, time.Second, &memoryStore{}, id.RandomHex{})
	err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.c", "password": "x"}, nil)
	if !apperrors.IsAccountLocked(err) {
		t.Fatalf("expected account-locked classification, got %v", err)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	t.Parallel()
	client := httpx.New("http://127.0.0.1:1", time.Second, &memoryStore{}, id.RandomHex{})
	err := client.Get(context.Background(), "/interviews/1", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if _, ok := apperrors.AsAPIError(err); ok {
		t.Fatalf("transport failure must not classify as APIError: %v", err)
	}
}
