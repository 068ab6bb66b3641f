package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medid/internal/documents"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New("mem://bucket/")

	url, err := s.Put(ctx, documents.Object{Folder: "certification_requests", Key: "k.pdf", ContentType: "application/pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/certification_requests/k.pdf", url)
	assert.Equal(t, 1, s.Len())

	assert.ErrorIs(t, s.Delete(ctx, "https://elsewhere/k.pdf"), documents.ErrForeignURL)
	require.NoError(t, s.Delete(ctx, url))
	assert.ErrorIs(t, s.Delete(ctx, url), documents.ErrNotFound)
}

func TestPutHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("").Put(ctx, documents.Object{Key: "k"})
	assert.ErrorIs(t, err, context.Canceled)
}
