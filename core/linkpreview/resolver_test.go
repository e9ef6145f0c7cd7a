package linkpreview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a", FirstURL("see https://example.com/a and more"))
	assert.Equal(t, "http://x.test", FirstURL("http://x.test"))
	assert.Equal(t, "", FirstURL("no links here"))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolve_OpenGraph(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes(t))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head>
			<meta property="og:title" content="Example Page"/>
			<meta property="og:description" content="A test page"/>
			<meta property="og:url" content="https://example.com/canonical"/>
			<meta property="og:image" content="%s/img.png"/>
		</head><body></body></html>`, server.URL)
	})

	resolver := &HTTPResolver{}
	preview, err := resolver.Resolve(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/page", preview.MatchedURL)
	assert.Equal(t, "https://example.com/canonical", preview.CanonicalURL)
	assert.Equal(t, "Example Page", preview.Title)
	assert.Equal(t, "A test page", preview.Description)
	assert.NotEmpty(t, preview.Thumbnail)
}

func TestResolve_FallbackTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Plain Title</title>
			<meta name="description" content="plain description"/>
		</head></html>`))
	}))
	defer server.Close()

	resolver := &HTTPResolver{}
	preview, err := resolver.Resolve(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", preview.Title)
	assert.Equal(t, "plain description", preview.Description)
	assert.Equal(t, server.URL, preview.CanonicalURL)
	assert.Nil(t, preview.Thumbnail)
}

func TestResolve_NoMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>nothing to see</body></html>`))
	}))
	defer server.Close()

	_, err := (&HTTPResolver{}).Resolve(context.Background(), server.URL)
	require.ErrorContains(t, err, "no preview metadata")
}

func TestResolve_BadImageIsNonFatal(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head>
			<meta property="og:title" content="Still Works"/>
			<meta property="og:image" content="%s/img.png"/>
		</head></html>`, server.URL)
	})

	preview, err := (&HTTPResolver{}).Resolve(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Still Works", preview.Title)
	assert.Nil(t, preview.Thumbnail)
}

func TestResolve_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := (&HTTPResolver{}).Resolve(context.Background(), server.URL)
	require.ErrorContains(t, err, "unexpected status code 500")
}
