// Package storage persists client-side session artifacts between runs:
// the cached user record and the bearer credential. It is the analogue of
// the browser's localStorage, backed by a single JSON file.
package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/atinyakov/reddish/internal/models"
)

// LocalStorage is a mutex-guarded key/value store saved to disk on every
// mutation. Both entries are plain opaque values with no versioning or
// expiry.
type LocalStorage struct {
	User  *models.User `json:"user,omitempty"`
	Token string       `json:"auth_token,omitempty"`

	path string
	mu   sync.Mutex
}

// New returns a LocalStorage persisted at path. Call Load before use.
func New(path string) *LocalStorage {
	return &LocalStorage{path: path}
}

// Load reads the state file. A missing file is not an error: the store
// starts empty (cold start).
func (ls *LocalStorage) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	f, err := os.Open(ls.path)
	if err != nil {
		if os.IsNotExist(err) {
			ls.User = nil
			ls.Token = ""
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(ls)
}

// save writes the state file. Callers must hold ls.mu.
func (ls *LocalStorage) save() error {
	f, err := os.OpenFile(ls.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(ls)
}

// StoreUser caches the user record.
func (ls *LocalStorage) StoreUser(u *models.User) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.User = u
	return ls.save()
}

// CachedUser returns the cached user record, or nil.
func (ls *LocalStorage) CachedUser() *models.User {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.User
}

// RemoveUser deletes the cached user record.
func (ls *LocalStorage) RemoveUser() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.User = nil
	return ls.save()
}

// StoreToken persists the bearer credential.
func (ls *LocalStorage) StoreToken(token string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.Token = token
	return ls.save()
}

// GetToken returns the persisted bearer credential, or "".
func (ls *LocalStorage) GetToken() string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.Token
}

// RemoveToken deletes the bearer credential.
func (ls *LocalStorage) RemoveToken() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.Token = ""
	return ls.save()
}
