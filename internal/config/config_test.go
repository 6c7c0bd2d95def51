package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"ServerURL":"http://example.com:8000","TimeoutSeconds":15}`), 0o600)
	require.NoError(t, err)

	opts := &Options{
		ServerURL:   "http://localhost:12000",
		StoragePath: "reddish.json",
		Config:      path,
	}
	applyConfigFile(opts)

	assert.Equal(t, "http://example.com:8000", opts.ServerURL)
	assert.Equal(t, 15, opts.TimeoutSeconds)
	assert.Equal(t, "reddish.json", opts.StoragePath, "keys absent from the file keep their values")
}

func TestApplyConfigFile_Missing(t *testing.T) {
	opts := &Options{
		ServerURL: "http://localhost:12000",
		Config:    filepath.Join(t.TempDir(), "nope.json"),
	}
	applyConfigFile(opts)

	assert.Equal(t, "http://localhost:12000", opts.ServerURL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SERVER_URL", "http://env.example.com")
	t.Setenv("STORAGE_PATH", "/tmp/state.json")

	opts := &Options{ServerURL: "http://localhost:12000", StoragePath: "reddish.json"}
	applyEnv(opts)

	assert.Equal(t, "http://env.example.com", opts.ServerURL)
	assert.Equal(t, "/tmp/state.json", opts.StoragePath)
}

func TestApplyEnv_Unset(t *testing.T) {
	t.Setenv("SERVER_URL", "")
	t.Setenv("STORAGE_PATH", "")

	opts := &Options{ServerURL: "http://localhost:12000", StoragePath: "reddish.json"}
	applyEnv(opts)

	assert.Equal(t, "http://localhost:12000", opts.ServerURL)
	assert.Equal(t, "reddish.json", opts.StoragePath)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"ServerURL":"http://file.example.com"}`), 0o600)
	require.NoError(t, err)
	t.Setenv("SERVER_URL", "http://env.example.com")

	opts := &Options{ServerURL: "http://localhost:12000", Config: path}
	applyConfigFile(opts)
	applyEnv(opts)

	assert.Equal(t, "http://env.example.com", opts.ServerURL)
}
