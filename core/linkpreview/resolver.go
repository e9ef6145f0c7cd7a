// Package linkpreview resolves URL previews for extended text messages by
// scraping OpenGraph metadata.
package linkpreview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/wamedia"
)

// Preview is the resolved metadata for a single URL.
type Preview struct {
	MatchedURL   string
	CanonicalURL string
	Title        string
	Description  string
	// Thumbnail is a wire-ready jpegThumbnail, absent when the page has no
	// usable image.
	Thumbnail []byte
}

// Resolver fetches preview metadata for a URL.
type Resolver interface {
	Resolve(ctx context.Context, url string) (*Preview, error)
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// FirstURL returns the first http(s) URL in the text, or "".
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

// HTTPResolver is the default Resolver: fetch the page, scrape OpenGraph
// tags, fetch and downscale the preview image.
type HTTPResolver struct {
	Client *http.Client
	// MaxBodySize bounds how much of the page and image are read.
	// Defaults to 2 MiB.
	MaxBodySize int64
}

func (r *HTTPResolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *HTTPResolver) maxBody() int64 {
	if r.MaxBodySize > 0 {
		return r.MaxBodySize
	}
	return 2 << 20
}

func (r *HTTPResolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build preview request: %w", err)
	}
	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d fetching %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBody()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}

func (r *HTTPResolver) Resolve(ctx context.Context, url string) (*Preview, error) {
	body, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview page: %w", err)
	}

	preview := &Preview{MatchedURL: url, CanonicalURL: url}
	metaContent := func(property string) string {
		content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
		return strings.TrimSpace(content)
	}
	preview.Title = metaContent("og:title")
	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	preview.Description = metaContent("og:description")
	if preview.Description == "" {
		content, _ := doc.Find(`meta[name="description"]`).Attr("content")
		preview.Description = strings.TrimSpace(content)
	}
	if canonical := metaContent("og:url"); canonical != "" {
		preview.CanonicalURL = canonical
	}
	if preview.Title == "" && preview.Description == "" {
		return nil, fmt.Errorf("no preview metadata found at %s", url)
	}

	if imageURL := metaContent("og:image"); imageURL != "" {
		if img, ierr := r.fetch(ctx, imageURL); ierr != nil {
			zerolog.Ctx(ctx).Warn().Err(ierr).Str("image_url", imageURL).
				Msg("Failed to fetch preview image")
		} else if thumb, terr := wamedia.JPEGThumbnail(img); terr != nil {
			zerolog.Ctx(ctx).Warn().Err(terr).Str("image_url", imageURL).
				Msg("Failed to render preview thumbnail")
		} else {
			preview.Thumbnail = thumb
		}
	}
	return preview, nil
}
