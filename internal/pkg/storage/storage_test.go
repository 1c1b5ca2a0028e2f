package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"matchtrip-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "trips/2026/03/a.jpg", strings.NewReader("jpegdata"), 8, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/trips/2026/03/a.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "trips", "2026", "03", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	require.NoError(t, s.Delete(context.Background(), "trips/2026/03/a.jpg"))
	require.NoError(t, s.Delete(context.Background(), "trips/2026/03/a.jpg"), "deleting twice is fine")
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("avatars", "image/png", time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/2026/07/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = ObjectKey("avatars", "application/pdf", time.Now())
	assert.Error(t, err)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	s, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}
