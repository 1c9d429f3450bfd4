package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryObjectStorage_PutAndGet(t *testing.T) {
	s := NewInMemoryObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.PutObject(ctx, "faces/u1/photo.jpg", "image/jpeg", []byte("jpeg-bytes")))

	data, exists := s.Get("faces/u1/photo.jpg")
	require.True(t, exists)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestInMemoryObjectStorage_PutObject_RequiresKey(t *testing.T) {
	s := NewInMemoryObjectStorage()
	assert.Error(t, s.PutObject(context.Background(), "", "image/jpeg", []byte("x")))
}

func TestInMemoryObjectStorage_GenerateDownloadURL(t *testing.T) {
	s := NewInMemoryObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.PutObject(ctx, "faces/u1/photo.jpg", "image/jpeg", []byte("jpeg-bytes")))

	url, expiresAt, err := s.GenerateDownloadURL(ctx, "faces/u1/photo.jpg", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "faces/u1/photo.jpg")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestInMemoryObjectStorage_GenerateDownloadURL_Missing(t *testing.T) {
	s := NewInMemoryObjectStorage()

	_, _, err := s.GenerateDownloadURL(context.Background(), "faces/missing.jpg", time.Minute)
	assert.Error(t, err)
}

func TestInMemoryObjectStorage_DeleteObject(t *testing.T) {
	s := NewInMemoryObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.PutObject(ctx, "faces/u1/photo.jpg", "image/jpeg", []byte("jpeg-bytes")))
	require.NoError(t, s.DeleteObject(ctx, "faces/u1/photo.jpg"))

	_, exists := s.Get("faces/u1/photo.jpg")
	assert.False(t, exists)
}
