package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	authout "preview/internal/modules/auth/port/out"
	apperrors "preview/internal/platform/errors"
	"preview/internal/platform/httpx"
)

// FileCredentialStore persists the credential pair as a single JSON file.
// Save always writes the whole pair so readers never observe a half
// renewed state.
type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(path string) authout.CredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Load(_ context.Context) (httpx.Credentials, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return httpx.Credentials{}, apperrors.ErrNotLoggedIn
		}
		return httpx.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	var creds httpx.Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return httpx.Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.Empty() {
		return httpx.Credentials{}, apperrors.ErrNotLoggedIn
	}
	return creds, nil
}

func (s *FileCredentialStore) Save(_ context.Context, creds httpx.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	payload, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
