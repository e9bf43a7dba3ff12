package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/actctl/internal/config"
)

// testStoreContract runs the behaviour every backend must share
func testStoreContract(t *testing.T, s Store) {
	t.Helper()

	require.NoError(t, s.Remove(), "removing a missing token")
	_, ok := s.Get()
	assert.False(t, ok)
	assert.False(t, s.Has())

	require.NoError(t, s.Set("first"))
	token, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "first", token)

	require.NoError(t, s.Set("second"))
	token, _ = s.Get()
	assert.Equal(t, "second", token, "set replaces the previous token")

	assert.Error(t, s.Set(""))
	assert.True(t, s.Has(), "rejected set leaves the token in place")

	require.NoError(t, s.Remove())
	assert.False(t, s.Has())
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), ".actctl")))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".actctl")

	require.NoError(t, NewFileStore(dir).Set("persisted"))

	reopened := NewFileStore(dir)
	token, ok := reopened.Get()
	require.True(t, ok)
	assert.Equal(t, "persisted", token)

	info, err := os.Stat(reopened.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreEmptyFileMeansNoToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenKey), nil, 0o600))

	assert.False(t, NewFileStore(dir).Has())
}

func TestFileStoreKeepsTokenVerbatim(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	for _, token := range []string{" padded token ", "line\n", "\t"} {
		require.NoError(t, s.Set(token))

		got, ok := NewFileStore(dir).Get()
		require.True(t, ok, "%q", token)
		assert.Equal(t, token, got)

		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, []byte(token), data, "written byte-for-byte")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("ACTCTL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ACTCTL_TEST_REDIS_ADDR not set")
	}

	s, err := NewRedisStore(config.RedisConfig{Addr: addr}, "actctl:test:token")
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		want    interface{}
		wantErr bool
	}{
		{backend: "file", want: &FileStore{}},
		{backend: "memory", want: &MemoryStore{}},
		{backend: "redis", want: &RedisStore{}},
		{backend: "cookie", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(
				config.TokenConfig{Backend: tt.backend, Dir: t.TempDir(), Key: "actctl:token"},
				config.RedisConfig{Addr: "127.0.0.1:6379"},
			)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}
