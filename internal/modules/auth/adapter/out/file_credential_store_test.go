package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "preview/internal/platform/errors"
	"preview/internal/platform/httpx"
)

func TestLoadMissingFileIsNotLoggedIn(t *testing.T) {
	t.Parallel()

	store := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileCredentialStore(path)
	ctx := context.Background()

	pair := httpx.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}
	if err := store.Save(ctx, pair); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != pair {
		t.Fatalf("loaded %+v, want %+v", got, pair)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}
}

func TestSaveReplacesWholePair(t *testing.T) {
	t.Parallel()

	store := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	ctx := context.Background()

	if err := store.Save(ctx, httpx.Credentials{AccessToken: "old-a", RefreshToken: "old-r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	renewed := httpx.Credentials{AccessToken: "new-a", RefreshToken: "new-r"}
	if err := store.Save(ctx, renewed); err != nil {
		t.Fatalf("Save renewed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != renewed {
		t.Fatalf("loaded %+v, want both tokens replaced", got)
	}
}

func TestClearRemovesPairAndToleratesMissing(t *testing.T) {
	t.Parallel()

	store := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}

	if err := store.Save(ctx, httpx.Credentials{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn after clear", err)
	}
}

func TestLoadEmptyPairIsNotLoggedIn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"accessToken":"","refreshToken":""}`), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileCredentialStore(path)
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("err = %v, want ErrNotLoggedIn", err)
	}
}
