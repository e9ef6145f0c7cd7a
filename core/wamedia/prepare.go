package wamedia

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.mau.fi/util/exmime"
	"go.mau.fi/util/ptr"
	"go.mau.fi/whatsmeow/types"
	"golang.org/x/sync/errgroup"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waid"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// Preparer orchestrates media preparation: resolve, encrypt, upload,
// extract metadata, cache. All collaborators are caller-supplied.
type Preparer struct {
	Uploader  Uploader
	Cache     FragmentCache
	Processor Processor
	HTTP      *http.Client

	TempDir       string
	MaxFileSize   int64
	UploadTimeout time.Duration
}

// Request describes one media payload to prepare.
type Request struct {
	Type MediaType
	Ref  Reference
	// Dest is the destination chat. Newsletter destinations upload
	// plaintext without a media key.
	Dest types.JID

	// MimeType overrides content sniffing when set.
	MimeType string
	FileName string
	// VoiceNote marks audio as push-to-talk and enables waveform
	// extraction.
	VoiceNote      bool
	BackgroundArgb *uint32
	GifPlayback    bool
	// Seconds is a caller-supplied duration override; extraction is
	// skipped when set.
	Seconds *uint32
	// JPEGThumbnail is a caller-supplied thumbnail override; generation is
	// skipped when set.
	JPEGThumbnail []byte
}

// extracted holds the non-fatal derived metadata.
type extracted struct {
	width    *uint32
	height   *uint32
	thumb    []byte
	seconds  *uint32
	waveform []byte
	animated *bool
}

// Prepare resolves, encrypts, uploads and annotates one media payload,
// returning the compiled media fragment with exactly one populated field.
// Cacheable references (URLs) short-circuit through the fragment cache.
func (p *Preparer) Prepare(ctx context.Context, req *Request) (*waproto.Message, error) {
	switch req.Type {
	case MediaImage, MediaVideo, MediaAudio, MediaDocument, MediaSticker, MediaStickerPack:
	default:
		return nil, Invalidf("unsupported media type %q", req.Type)
	}
	log := zerolog.Ctx(ctx).With().Str("media_type", string(req.Type)).Logger()
	ctx = log.WithContext(ctx)

	var cacheKey string
	if req.Ref.Cacheable() && p.Cache != nil {
		cacheKey = CacheKey(req.Type, req.Ref.URL)
		if raw, ok := p.Cache.Get(ctx, cacheKey); ok {
			var frag waproto.Message
			if err := json.Unmarshal(raw, &frag); err == nil {
				applyRequestOverrides(&frag, req)
				log.Debug().Str("cache_key", cacheKey).Msg("Reusing cached media fragment")
				return &frag, nil
			}
			log.Warn().Str("cache_key", cacheKey).Msg("Failed to decode cached media fragment, re-preparing")
		}
	}

	src, err := p.resolve(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	defer src.cleanup()

	frag, err := p.prepareResolved(ctx, req, src)
	if err != nil {
		return nil, err
	}
	if cacheKey != "" {
		if raw, err := json.Marshal(frag); err == nil {
			p.Cache.Set(ctx, cacheKey, raw)
		}
	}
	return frag, nil
}

func (p *Preparer) prepareResolved(ctx context.Context, req *Request, src *resolvedSource) (*waproto.Message, error) {
	log := zerolog.Ctx(ctx)
	mime := req.MimeType
	if mime == "" {
		detected, err := mimetype.DetectFile(src.path)
		if err != nil {
			return nil, fmt.Errorf("failed to sniff media mime type: %w", err)
		}
		mime = detected.String()
	}

	pointer := &waproto.MediaPointer{
		Mimetype:          ptr.Ptr(mime),
		MediaKeyTimestamp: ptr.Ptr(time.Now().Unix()),
	}

	if waid.IsNewsletter(req.Dest) {
		if err := p.uploadPlaintext(ctx, req, src, pointer); err != nil {
			return nil, err
		}
		meta := p.extractMetadata(ctx, req, src)
		return p.buildFragment(req, pointer, meta), nil
	}

	encFile, err := p.createTemp("wamedia-enc-")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(encFile.Name())
	}()

	plain, err := src.open()
	if err != nil {
		return nil, err
	}
	enc, err := encryptStream(plain, encFile, req.Type)
	_ = plain.Close()
	closeErr := encFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt media: %w", err)
	}

	// Upload and metadata extraction run concurrently; the fragment is
	// assembled only after both settle. Metadata failures are non-fatal.
	var meta *extracted
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		encReader, oerr := os.Open(encFile.Name())
		if oerr != nil {
			return fmt.Errorf("failed to reopen ciphertext: %w", oerr)
		}
		defer func() {
			_ = encReader.Close()
		}()
		uploadCtx := egCtx
		if p.UploadTimeout > 0 {
			var cancel context.CancelFunc
			uploadCtx, cancel = context.WithTimeout(egCtx, p.UploadTimeout)
			defer cancel()
		}
		res, uerr := p.Uploader.Upload(uploadCtx, encReader, enc.EncLength, &UploadRequest{
			FileEncSHA256B64: base64.StdEncoding.EncodeToString(enc.FileEncSHA256),
			MediaType:        req.Type,
			Timeout:          p.UploadTimeout,
		})
		if uerr != nil {
			return fmt.Errorf("failed to upload media: %w", uerr)
		}
		pointer.URL = ptr.Ptr(res.URL)
		pointer.DirectPath = ptr.Ptr(res.DirectPath)
		return nil
	})
	eg.Go(func() error {
		meta = p.extractMetadata(egCtx, req, src)
		return nil
	})
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	pointer.MediaKey = enc.MediaKey
	pointer.FileSHA256 = enc.FileSHA256
	pointer.FileEncSHA256 = enc.FileEncSHA256
	pointer.FileLength = ptr.Ptr(enc.FileLength)
	log.Debug().Uint64("file_length", enc.FileLength).Msg("Prepared encrypted media")
	return p.buildFragment(req, pointer, meta), nil
}

func (p *Preparer) uploadPlaintext(ctx context.Context, req *Request, src *resolvedSource, pointer *waproto.MediaPointer) error {
	hashReader, err := src.open()
	if err != nil {
		return err
	}
	plainHash, length, err := hashStream(hashReader)
	_ = hashReader.Close()
	if err != nil {
		return err
	}
	uploadReader, err := src.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = uploadReader.Close()
	}()
	uploadCtx := ctx
	if p.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, p.UploadTimeout)
		defer cancel()
	}
	res, err := p.Uploader.Upload(uploadCtx, uploadReader, int64(length), &UploadRequest{
		FileSHA256B64: base64.StdEncoding.EncodeToString(plainHash),
		MediaType:     req.Type,
		Timeout:       p.UploadTimeout,
		Newsletter:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}
	// No media key or ciphertext hash on the unencrypted path.
	pointer.URL = ptr.Ptr(res.URL)
	pointer.DirectPath = ptr.Ptr(res.DirectPath)
	pointer.FileSHA256 = plainHash
	pointer.FileLength = ptr.Ptr(length)
	return nil
}

// extractMetadata derives thumbnail/dimensions/duration/waveform. All
// failures are logged and leave the corresponding field unset.
func (p *Preparer) extractMetadata(ctx context.Context, req *Request, src *resolvedSource) *extracted {
	log := zerolog.Ctx(ctx)
	meta := &extracted{
		thumb:   req.JPEGThumbnail,
		seconds: req.Seconds,
	}
	switch req.Type {
	case MediaImage, MediaSticker:
		data, err := os.ReadFile(src.path)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read media for metadata extraction")
			return meta
		}
		if req.Type == MediaSticker {
			meta.animated = ptr.Ptr(IsAnimatedWebP(data))
		}
		if width, height, err := imageDimensions(data); err != nil {
			log.Warn().Err(err).Msg("Failed to decode image dimensions")
		} else {
			meta.width, meta.height = ptr.Ptr(width), ptr.Ptr(height)
		}
		if req.Type == MediaImage && meta.thumb == nil {
			if thumb, _, _, err := makeThumbnail(data, false); err != nil {
				log.Warn().Err(err).Msg("Failed to generate image thumbnail")
			} else {
				meta.thumb = thumb
			}
		}
	case MediaVideo:
		if meta.thumb != nil {
			break
		}
		if p.Processor == nil || !p.Processor.Caps().VideoThumbnail {
			log.Debug().Msg("Video thumbnail capability unavailable, skipping")
			break
		}
		if thumb, err := p.Processor.VideoThumbnail(ctx, src.path); err != nil {
			log.Warn().Err(err).Msg("Failed to generate video thumbnail")
		} else {
			meta.thumb = thumb
		}
	case MediaAudio:
		if p.Processor == nil || !p.Processor.Caps().AudioMetadata {
			log.Debug().Msg("Audio metadata capability unavailable, skipping")
			break
		}
		if audio, err := p.Processor.AudioMetadata(ctx, src.path, req.VoiceNote); err != nil {
			log.Warn().Err(err).Msg("Failed to extract audio metadata")
		} else {
			if meta.seconds == nil {
				meta.seconds = ptr.Ptr(audio.Seconds)
			}
			if req.VoiceNote {
				meta.waveform = audio.Waveform
			}
		}
	}
	return meta
}

// buildFragment assembles the compiled media fragment for the request's
// media type.
func (p *Preparer) buildFragment(req *Request, pointer *waproto.MediaPointer, meta *extracted) *waproto.Message {
	if meta == nil {
		meta = &extracted{}
	}
	msg := &waproto.Message{}
	switch req.Type {
	case MediaImage:
		msg.ImageMessage = &waproto.ImageMessage{
			Width:         meta.width,
			Height:        meta.height,
			JPEGThumbnail: meta.thumb,
		}
	case MediaVideo:
		msg.VideoMessage = &waproto.VideoMessage{
			Seconds:       meta.seconds,
			JPEGThumbnail: meta.thumb,
		}
		if req.GifPlayback {
			msg.VideoMessage.GifPlayback = ptr.Ptr(true)
		}
	case MediaAudio:
		msg.AudioMessage = &waproto.AudioMessage{
			Seconds:        meta.seconds,
			Waveform:       meta.waveform,
			BackgroundArgb: req.BackgroundArgb,
		}
		if req.VoiceNote {
			msg.AudioMessage.PTT = ptr.Ptr(true)
		}
	case MediaDocument:
		name := req.FileName
		if name == "" && pointer.Mimetype != nil {
			mime, _, _ := strings.Cut(*pointer.Mimetype, ";")
			name = "file" + exmime.ExtensionFromMimetype(strings.TrimSpace(mime))
		}
		msg.DocumentMessage = &waproto.DocumentMessage{
			FileName:      fileNameOrNil(name),
			JPEGThumbnail: meta.thumb,
		}
	case MediaSticker:
		msg.StickerMessage = &waproto.StickerMessage{
			Width:      meta.width,
			Height:     meta.height,
			IsAnimated: meta.animated,
		}
	case MediaStickerPack:
		msg.StickerPackMessage = &waproto.StickerPackMessage{}
	}
	msg.SetMediaPointer(pointer)
	return msg
}

// applyRequestOverrides reapplies the per-call request fields onto a
// cached fragment. Cache entries are keyed by (type, URL) only, so
// request-scoped fields like gifPlayback or ptt must not leak between
// calls reusing the same payload.
func applyRequestOverrides(frag *waproto.Message, req *Request) {
	switch {
	case frag.ImageMessage != nil:
		if req.JPEGThumbnail != nil {
			frag.ImageMessage.JPEGThumbnail = req.JPEGThumbnail
		}
	case frag.VideoMessage != nil:
		vm := frag.VideoMessage
		vm.GifPlayback = nil
		if req.GifPlayback {
			vm.GifPlayback = ptr.Ptr(true)
		}
		if req.Seconds != nil {
			vm.Seconds = req.Seconds
		}
		if req.JPEGThumbnail != nil {
			vm.JPEGThumbnail = req.JPEGThumbnail
		}
	case frag.AudioMessage != nil:
		am := frag.AudioMessage
		am.PTT = nil
		if req.VoiceNote {
			am.PTT = ptr.Ptr(true)
		}
		am.BackgroundArgb = req.BackgroundArgb
		if req.Seconds != nil {
			am.Seconds = req.Seconds
		}
	case frag.DocumentMessage != nil:
		if req.FileName != "" {
			frag.DocumentMessage.FileName = ptr.Ptr(req.FileName)
		}
		if req.JPEGThumbnail != nil {
			frag.DocumentMessage.JPEGThumbnail = req.JPEGThumbnail
		}
	}
}

func fileNameOrNil(name string) *string {
	if name == "" {
		return nil
	}
	return ptr.Ptr(name)
}
