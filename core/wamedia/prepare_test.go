package wamedia

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/types"
)

type fakeUploader struct {
	mu       sync.Mutex
	calls    int
	lastReq  *UploadRequest
	lastBody []byte
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, size int64, req *UploadRequest) (*UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	f.lastBody = body
	return &UploadResult{
		URL:        "https://mmg.whatsapp.net/d/f/abc",
		DirectPath: "/d/f/abc",
	}, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *memCache) Set(ctx context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = value
}

func TestPrepare_EncryptedDocument(t *testing.T) {
	uploader := &fakeUploader{}
	p := &Preparer{Uploader: uploader, TempDir: t.TempDir()}
	payload := []byte("hello document body")
	frag, err := p.Prepare(context.Background(), &Request{
		Type:     MediaDocument,
		Ref:      Reference{Bytes: payload},
		Dest:     types.NewJID("15551234567", types.DefaultUserServer),
		FileName: "notes.txt",
	})
	require.NoError(t, err)
	doc := frag.DocumentMessage
	require.NotNil(t, doc)
	assert.Equal(t, "notes.txt", *doc.FileName)
	assert.Equal(t, "https://mmg.whatsapp.net/d/f/abc", *doc.URL)
	assert.Equal(t, "/d/f/abc", *doc.DirectPath)
	assert.Len(t, doc.MediaKey, 32)
	assert.Len(t, doc.FileSHA256, 32)
	assert.Len(t, doc.FileEncSHA256, 32)
	assert.Equal(t, uint64(len(payload)), *doc.FileLength)
	assert.NotNil(t, doc.Mimetype)
	assert.NotNil(t, doc.MediaKeyTimestamp)

	// The uploader received ciphertext, not the plaintext.
	assert.Equal(t, 1, uploader.calls)
	assert.NotEqual(t, payload, uploader.lastBody)
	assert.NotEmpty(t, uploader.lastReq.FileEncSHA256B64)
	assert.False(t, uploader.lastReq.Newsletter)
}

func TestPrepare_NewsletterPlaintext(t *testing.T) {
	uploader := &fakeUploader{}
	p := &Preparer{Uploader: uploader, TempDir: t.TempDir()}
	payload := []byte("newsletter doc")
	frag, err := p.Prepare(context.Background(), &Request{
		Type: MediaDocument,
		Ref:  Reference{Bytes: payload},
		Dest: types.NewJID("120363000000000000", types.NewsletterServer),
	})
	require.NoError(t, err)
	doc := frag.DocumentMessage
	require.NotNil(t, doc)
	// No key material on the unencrypted path.
	assert.Nil(t, doc.MediaKey)
	assert.Nil(t, doc.FileEncSHA256)
	assert.Len(t, doc.FileSHA256, 32)
	assert.Equal(t, uint64(len(payload)), *doc.FileLength)

	assert.Equal(t, payload, uploader.lastBody)
	assert.True(t, uploader.lastReq.Newsletter)
	assert.NotEmpty(t, uploader.lastReq.FileSHA256B64)
}

func TestPrepare_CacheHitSkipsUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cacheable payload"))
	}))
	defer server.Close()

	uploader := &fakeUploader{}
	cache := &memCache{}
	p := &Preparer{Uploader: uploader, Cache: cache, TempDir: t.TempDir()}
	req := &Request{
		Type: MediaDocument,
		Ref:  Reference{URL: server.URL},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	}

	first, err := p.Prepare(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, uploader.calls)

	second, err := p.Prepare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, uploader.calls, "second prepare must be served from cache")
	assert.Equal(t, first.DocumentMessage.FileSHA256, second.DocumentMessage.FileSHA256)
	assert.Equal(t, *first.DocumentMessage.URL, *second.DocumentMessage.URL)
}

func TestPrepare_CacheHitAppliesOverrides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake video payload"))
	}))
	defer server.Close()

	uploader := &fakeUploader{}
	p := &Preparer{Uploader: uploader, Cache: &memCache{}, TempDir: t.TempDir()}
	dest := types.NewJID("15551234567", types.DefaultUserServer)

	first, err := p.Prepare(context.Background(), &Request{
		Type: MediaVideo,
		Ref:  Reference{URL: server.URL},
		Dest: dest,
	})
	require.NoError(t, err)
	assert.Nil(t, first.VideoMessage.GifPlayback)

	second, err := p.Prepare(context.Background(), &Request{
		Type:        MediaVideo,
		Ref:         Reference{URL: server.URL},
		Dest:        dest,
		GifPlayback: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, uploader.calls, "override call must still be served from cache")
	require.NotNil(t, second.VideoMessage.GifPlayback)
	assert.True(t, *second.VideoMessage.GifPlayback)

	// The flag must not stick to the cache entry either.
	third, err := p.Prepare(context.Background(), &Request{
		Type: MediaVideo,
		Ref:  Reference{URL: server.URL},
		Dest: dest,
	})
	require.NoError(t, err)
	assert.Nil(t, third.VideoMessage.GifPlayback)
	assert.Equal(t, 1, uploader.calls)
}

func TestPrepare_CacheHitVoiceNoteOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake audio payload"))
	}))
	defer server.Close()

	uploader := &fakeUploader{}
	p := &Preparer{Uploader: uploader, Cache: &memCache{}, TempDir: t.TempDir()}
	dest := types.NewJID("15551234567", types.DefaultUserServer)

	first, err := p.Prepare(context.Background(), &Request{
		Type: MediaAudio,
		Ref:  Reference{URL: server.URL},
		Dest: dest,
	})
	require.NoError(t, err)
	assert.Nil(t, first.AudioMessage.PTT)

	second, err := p.Prepare(context.Background(), &Request{
		Type:      MediaAudio,
		Ref:       Reference{URL: server.URL},
		Dest:      dest,
		VoiceNote: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, uploader.calls)
	require.NotNil(t, second.AudioMessage.PTT)
	assert.True(t, *second.AudioMessage.PTT)
}

func TestPrepare_BytesRefNotCached(t *testing.T) {
	uploader := &fakeUploader{}
	cache := &memCache{}
	p := &Preparer{Uploader: uploader, Cache: cache, TempDir: t.TempDir()}
	req := &Request{
		Type: MediaDocument,
		Ref:  Reference{Bytes: []byte("ephemeral buffer")},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	}
	_, err := p.Prepare(context.Background(), req)
	require.NoError(t, err)
	_, err = p.Prepare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, uploader.calls)
	assert.Empty(t, cache.entries)
}

func TestPrepare_RejectsUnknownType(t *testing.T) {
	p := &Preparer{Uploader: &fakeUploader{}, TempDir: t.TempDir()}
	_, err := p.Prepare(context.Background(), &Request{
		Type: MediaType("gif"),
		Ref:  Reference{Bytes: []byte("x")},
	})
	require.ErrorContains(t, err, `unsupported media type "gif"`)
}

func TestPrepare_MaxFileSize(t *testing.T) {
	p := &Preparer{Uploader: &fakeUploader{}, TempDir: t.TempDir(), MaxFileSize: 8}
	_, err := p.Prepare(context.Background(), &Request{
		Type: MediaDocument,
		Ref:  Reference{Bytes: []byte("way past the limit")},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	})
	require.ErrorContains(t, err, "exceeds the maximum size")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StatusBadRequest, ve.Status)
}

func TestPrepare_EmptyReference(t *testing.T) {
	p := &Preparer{Uploader: &fakeUploader{}, TempDir: t.TempDir()}
	_, err := p.Prepare(context.Background(), &Request{Type: MediaDocument})
	require.ErrorContains(t, err, "media reference is empty")
}

func TestPrepare_CleansUpTempFiles(t *testing.T) {
	tempDir := t.TempDir()
	p := &Preparer{Uploader: &fakeUploader{}, TempDir: tempDir}
	_, err := p.Prepare(context.Background(), &Request{
		Type: MediaDocument,
		Ref:  Reference{Bytes: []byte("scratch me")},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	})
	require.NoError(t, err)

	// Failed prepares must clean up too.
	_, err = p.Prepare(context.Background(), &Request{
		Type: MediaDocument,
		Ref:  Reference{URL: "http://127.0.0.1:1/unreachable"},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrepare_DefaultDocumentFileName(t *testing.T) {
	uploader := &fakeUploader{}
	p := &Preparer{Uploader: uploader, TempDir: t.TempDir()}
	frag, err := p.Prepare(context.Background(), &Request{
		Type: MediaDocument,
		Ref:  Reference{Bytes: []byte("%PDF-1.4 fake pdf body")},
		Dest: types.NewJID("15551234567", types.DefaultUserServer),
	})
	require.NoError(t, err)
	require.NotNil(t, frag.DocumentMessage.FileName)
	assert.Equal(t, "file.pdf", *frag.DocumentMessage.FileName)
}

func TestReadAll(t *testing.T) {
	p := &Preparer{TempDir: t.TempDir()}
	data, err := p.ReadAll(context.Background(), Reference{Bytes: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "image:https://x/y", CacheKey(MediaImage, "https://x/y"))
	assert.NotEqual(t, CacheKey(MediaImage, "u"), CacheKey(MediaVideo, "u"))
}
