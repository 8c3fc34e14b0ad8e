package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(map[string]string{"a": "1"})

	require.NoError(t, s.Set("b", "2"))
	v, ok := s.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", v)
	require.Equal(t, []string{"a", "b"}, s.Keys())

	require.NoError(t, s.Delete("a", "missing"))
	_, ok = s.Get("a")
	require.False(t, ok)
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	require.Empty(t, s.Keys())

	require.NoError(t, s.Set("guestMode", "true"))
	require.NoError(t, s.Set("userRole", "learner"))
	require.NoError(t, s.Delete("userRole"))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get("guestMode")
	require.True(t, ok)
	require.Equal(t, "true", v)
	_, ok = reopened.Get("userRole")
	require.False(t, ok)
}

func TestOpenFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := OpenFileStore(path)
	require.Error(t, err)
}

func TestOpenFileStoreRequiresPath(t *testing.T) {
	_, err := OpenFileStore("")
	require.Error(t, err)
}
