package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/reddish/internal/models"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls := New(filepath.Join(t.TempDir(), "state.json"))
	if err := ls.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	return ls
}

func TestLoad_MissingFile(t *testing.T) {
	ls := newTestStorage(t)
	if ls.CachedUser() != nil {
		t.Errorf("expected no cached user on cold start")
	}
	if ls.GetToken() != "" {
		t.Errorf("expected no token on cold start, got %q", ls.GetToken())
	}
}

func TestStoreUser_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ls := New(path)
	if err := ls.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	user := &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}
	if err := ls.StoreUser(user); err != nil {
		t.Fatalf("StoreUser: %v", err)
	}

	// A fresh instance reading the same file sees the cached record.
	reloaded := New(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reloaded.CachedUser()
	if got == nil || got.ID != 7 || got.Username != "alice" {
		t.Errorf("CachedUser after reload = %+v; want id=7 username=alice", got)
	}
}

func TestRemoveUser(t *testing.T) {
	ls := newTestStorage(t)
	if err := ls.StoreUser(&models.User{ID: 1}); err != nil {
		t.Fatalf("StoreUser: %v", err)
	}
	if err := ls.RemoveUser(); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	if ls.CachedUser() != nil {
		t.Errorf("expected cached user to be removed")
	}
}

func TestToken_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ls := New(path)
	if err := ls.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ls.StoreToken("tok1"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}
	if got := ls.GetToken(); got != "tok1" {
		t.Errorf("GetToken = %q; want %q", got, "tok1")
	}

	reloaded := New(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.GetToken(); got != "tok1" {
		t.Errorf("GetToken after reload = %q; want %q", got, "tok1")
	}

	if err := ls.RemoveToken(); err != nil {
		t.Fatalf("RemoveToken: %v", err)
	}
	if got := ls.GetToken(); got != "" {
		t.Errorf("GetToken after remove = %q; want empty", got)
	}
}

func TestStateFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ls := New(path)
	if err := ls.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := ls.StoreToken("secret"); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("state file permissions = %o; want 600", perm)
	}
}
