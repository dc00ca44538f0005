package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageProvider(t *testing.T) {
	p, err := NewStorageProvider(StorageConfig{Provider: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, p)

	_, err = NewStorageProvider(StorageConfig{Provider: "invalid"})
	assert.Error(t, err)
}

func TestNewStorageProvider_S3(t *testing.T) {
	p, err := NewStorageProvider(StorageConfig{
		Provider:  "s3",
		Bucket:    "media",
		Region:    "us-east-1",
		AccessKey: "ak",
		SecretKey: "sk",
		Endpoint:  "http://localhost:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/dishes/a.jpg", p.URL("dishes/a.jpg"))
}

func TestLocalStorage_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(StorageConfig{BasePath: root, URLPrefix: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "avatars/a.png", strings.NewReader("hello"), "image/png"))

	data, err := os.ReadFile(filepath.Join(root, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "/uploads/avatars/a.png", s.URL("avatars/a.png"))

	require.NoError(t, s.Delete(ctx, "avatars/a.png"))
	_, err = os.Stat(filepath.Join(root, "avatars", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// 不存在的对象
	assert.NoError(t, s.Delete(ctx, "avatars/a.png"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(StorageConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	for _, key := range []string{"../escape.png", "/abs.png", "avatars/../../x.png", ""} {
		assert.Error(t, s.Put(context.Background(), key, strings.NewReader("x"), ""), "key %q", key)
	}
}

type failingReader struct {
	n int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n > 0 {
		r.n--
		return copy(p, bytes.Repeat([]byte("x"), len(p))), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestLocalStorage_PartialWriteLeavesNothing(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(StorageConfig{BasePath: root})
	require.NoError(t, err)

	err = s.Put(context.Background(), "dishes/x.jpg", &failingReader{n: 3}, "image/jpeg")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "dishes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(StorageConfig{BasePath: root})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Put(ctx, "dishes/x.jpg", strings.NewReader("data"), "image/jpeg")
	assert.ErrorIs(t, err, context.Canceled)

	entries, _ := os.ReadDir(filepath.Join(root, "dishes"))
	assert.Empty(t, entries)
}

func TestLocalStorage_SweepTemp(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(StorageConfig{BasePath: root})
	require.NoError(t, err)

	dir := filepath.Join(root, "avatars")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, tempPrefix+"old"+tempSuffix)
	fresh := filepath.Join(dir, tempPrefix+"new"+tempSuffix)
	keep := filepath.Join(dir, "real.png")
	for _, p := range []string{stale, fresh, keep} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(keep, old, old))

	removed, err := s.SweepTemp(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, fresh)
	assert.FileExists(t, keep)
}
