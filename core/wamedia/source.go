package wamedia

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
)

// resolvedSource is a media reference materialized into a temp file the
// preparer owns. Cleanup must run on every exit path.
type resolvedSource struct {
	path string
	size int64
}

func (rs *resolvedSource) open() (*os.File, error) {
	f, err := os.Open(rs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen media temp file: %w", err)
	}
	return f, nil
}

func (rs *resolvedSource) cleanup() {
	_ = os.Remove(rs.path)
}

// resolve materializes the reference into a temp file. The reference is
// consumed exactly once; streams are drained here.
func (p *Preparer) resolve(ctx context.Context, ref Reference) (*resolvedSource, error) {
	if ref.IsEmpty() {
		return nil, Invalidf("media reference is empty")
	}
	var src io.Reader
	var closeSrc io.Closer
	switch {
	case ref.Bytes != nil:
		src = bytes.NewReader(ref.Bytes)
	case ref.Stream != nil:
		src = ref.Stream
	case ref.Path != "":
		f, err := os.Open(ref.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open media file: %w", err)
		}
		src, closeSrc = f, f
	case ref.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build media fetch request: %w", err)
		}
		resp, err := p.httpClient().Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch media URL: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d fetching media URL", resp.StatusCode)
		}
		src, closeSrc = resp.Body, resp.Body
	}
	if closeSrc != nil {
		defer func() {
			_ = closeSrc.Close()
		}()
	}

	tmp, err := os.CreateTemp(p.tempDir(), "wamedia-"+uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create media temp file: %w", err)
	}
	size, err := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to buffer media stream: %w", err)
	}
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		_ = os.Remove(tmp.Name())
		return nil, Invalidf("media of %d bytes exceeds the maximum size of %d", size, p.MaxFileSize)
	}
	return &resolvedSource{path: tmp.Name(), size: size}, nil
}

// ReadAll materializes a reference fully in memory, going through the
// same temp-file ownership and size checks as Prepare.
func (p *Preparer) ReadAll(ctx context.Context, ref Reference) ([]byte, error) {
	src, err := p.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer src.cleanup()
	data, err := os.ReadFile(src.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolved media: %w", err)
	}
	return data, nil
}

// createTemp makes a scratch file in the preparer's temp dir (used for
// ciphertext staging).
func (p *Preparer) createTemp(pattern string) (*os.File, error) {
	f, err := os.CreateTemp(p.tempDir(), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return f, nil
}

func (p *Preparer) tempDir() string {
	if p.TempDir != "" {
		return p.TempDir
	}
	return os.TempDir()
}

func (p *Preparer) httpClient() *http.Client {
	if p.HTTP != nil {
		return p.HTTP
	}
	return http.DefaultClient
}
