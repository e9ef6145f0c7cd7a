// Package wamedia prepares outbound media: it resolves the caller-supplied
// media reference, encrypts and uploads the payload, extracts derived
// metadata, and produces the compiled media fragment of the wire tree.
package wamedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// MediaType selects the key-derivation info string and the fragment shape.
type MediaType string

const (
	MediaImage       MediaType = "image"
	MediaVideo       MediaType = "video"
	MediaAudio       MediaType = "audio"
	MediaDocument    MediaType = "document"
	MediaSticker     MediaType = "sticker"
	MediaStickerPack MediaType = "sticker-pack"
)

// hkdfInfo returns the application info string used to expand the media
// key for this media type.
func (mt MediaType) hkdfInfo() string {
	switch mt {
	case MediaImage, MediaSticker:
		return "WhatsApp Image Keys"
	case MediaVideo:
		return "WhatsApp Video Keys"
	case MediaAudio:
		return "WhatsApp Audio Keys"
	case MediaDocument, MediaStickerPack:
		return "WhatsApp Document Keys"
	default:
		return "WhatsApp Document Keys"
	}
}

// Reference points at the media payload. Exactly one field may be set; it
// is resolved once per prepare and any temporary file created from it is
// owned and deleted by the preparer.
type Reference struct {
	Bytes  []byte
	Stream io.Reader
	Path   string
	URL    string
}

// Cacheable reports whether the reference has a stable identity. Only URL
// references qualify; buffers and streams are opaque.
func (r Reference) Cacheable() bool {
	return r.URL != ""
}

// IsEmpty reports whether no source field is set.
func (r Reference) IsEmpty() bool {
	return r.Bytes == nil && r.Stream == nil && r.Path == "" && r.URL == ""
}

// UploadRequest carries the parameters the uploader needs. Exactly one of
// the hash fields is set: the ciphertext hash on the encrypted path, the
// plaintext hash on the newsletter path.
type UploadRequest struct {
	FileEncSHA256B64 string
	FileSHA256B64    string
	MediaType        MediaType
	Timeout          time.Duration
	Newsletter       bool
}

// UploadResult is the remote locator pair returned by the uploader.
type UploadResult struct {
	URL        string
	DirectPath string
}

// Uploader is the external upload collaborator. It is called at most once
// per prepare.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, req *UploadRequest) (*UploadResult, error)
}

// FragmentCache stores serialized compiled media fragments keyed by
// (mediaType, URL). Concurrent callers may race on a key; the last writer
// wins, which is acceptable because entries are content-derived and
// idempotent.
type FragmentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// ProcessorCaps declares which optional processing operations the
// configured Processor supports.
type ProcessorCaps struct {
	ReencodeWebP   bool
	VideoThumbnail bool
	AudioMetadata  bool
}

// AudioMetadata is the derived metadata for audio payloads. Waveform is
// only populated for voice notes.
type AudioMetadata struct {
	Seconds  uint32
	Waveform []byte
}

// Processor is the optional image/video/audio processing collaborator.
// Callers probe Caps before invoking an operation; a missing capability
// surfaces as ErrCapabilityUnavailable rather than an IO error.
type Processor interface {
	Caps() ProcessorCaps
	ReencodeWebP(ctx context.Context, data []byte, size int) ([]byte, error)
	VideoThumbnail(ctx context.Context, path string) ([]byte, error)
	AudioMetadata(ctx context.Context, path string, waveform bool) (*AudioMetadata, error)
}

// StatusBadRequest is the machine-readable status class carried by every
// input validation error. Validation failures are synchronous and never
// retried; the caller must correct the input.
const StatusBadRequest = 400

// ValidationError reports caller input rejected before any encryption or
// upload is attempted. Distinct from transient IO failures.
type ValidationError struct {
	Status int
	Reason string
}

func (ve *ValidationError) Error() string {
	return ve.Reason
}

// Invalidf builds a 400-class ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{
		Status: StatusBadRequest,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ErrCapabilityUnavailable reports that a required optional processing
// capability is not configured. Distinct from upload/IO failures.
var ErrCapabilityUnavailable = errors.New("media processing capability unavailable")

// CapabilityError wraps ErrCapabilityUnavailable with the missing
// operation name.
func CapabilityError(op string) error {
	return fmt.Errorf("%w: %s", ErrCapabilityUnavailable, op)
}

// CacheKey derives the cache key for a cacheable reference.
func CacheKey(mt MediaType, url string) string {
	return string(mt) + ":" + url
}
