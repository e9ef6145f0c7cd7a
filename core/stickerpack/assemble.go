// Package stickerpack validates, normalizes and bundles sticker packs
// into a wire-ready sticker pack message.
package stickerpack

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mau.fi/util/ptr"
	"go.mau.fi/whatsmeow/types"
	"golang.org/x/sync/errgroup"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/wamedia"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

const MaxStickers = 60
const maxStickerBytes = 1 << 20

// stickerReencodeSize is the canvas used when a non-WebP sticker is
// converted.
const stickerReencodeSize = 512

// Sticker is one pack entry before normalization.
type Sticker struct {
	Ref                wamedia.Reference
	Emojis             []string
	AccessibilityLabel string
}

// Meta is the caller-supplied pack metadata.
type Meta struct {
	Name        string
	Publisher   string
	Description string
}

// Assembler bundles sticker packs. Conversion of non-WebP stickers needs
// the preparer's Processor; its absence is a capability error.
type Assembler struct {
	Preparer *wamedia.Preparer
}

type normalized struct {
	fileName string
	data     []byte
	animated bool
	emojis   []string
	label    string
}

// Assemble validates the pack, normalizes every sticker and the cover to
// WebP, bundles everything into an uncompressed archive and runs it
// through the media preparer. Pack upload always takes the encrypted
// path, regardless of the destination chat.
func (a *Assembler) Assemble(ctx context.Context, cover wamedia.Reference, stickers []Sticker, meta Meta) (*waproto.Message, error) {
	log := zerolog.Ctx(ctx).With().Str("sticker_pack", meta.Name).Logger()
	ctx = log.WithContext(ctx)

	if len(stickers) == 0 {
		return nil, wamedia.Invalidf("sticker pack must contain at least one sticker")
	}
	if len(stickers) > MaxStickers {
		return nil, wamedia.Invalidf("sticker pack of %d stickers exceeds the maximum limit of %d", len(stickers), MaxStickers)
	}
	if cover.IsEmpty() {
		return nil, wamedia.Invalidf("sticker pack cover must not be empty")
	}

	// One task per sticker, deliberately uncapped: packs are bounded at 60.
	entries := make([]*normalized, len(stickers))
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range stickers {
		eg.Go(func() error {
			entry, err := a.normalize(egCtx, stickers[i].Ref)
			if err != nil {
				return fmt.Errorf("sticker %d: %w", i, err)
			}
			entry.emojis = stickers[i].Emojis
			entry.label = stickers[i].AccessibilityLabel
			entries[i] = entry
			return nil
		})
	}
	var tray *normalized
	eg.Go(func() error {
		var err error
		tray, err = a.normalize(egCtx, cover)
		if err != nil {
			return fmt.Errorf("sticker pack cover: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	archive, err := bundle(entries, tray)
	if err != nil {
		return nil, err
	}

	frag, err := a.Preparer.Prepare(ctx, &wamedia.Request{
		Type: wamedia.MediaStickerPack,
		Ref:  wamedia.Reference{Bytes: archive},
		Dest: types.EmptyJID,
	})
	if err != nil {
		return nil, err
	}
	pack := frag.StickerPackMessage
	if pack == nil {
		return nil, fmt.Errorf("media preparer returned a non-pack fragment")
	}

	pack.StickerPackID = ptr.Ptr(uuid.NewString())
	pack.Name = ptr.Ptr(meta.Name)
	pack.Publisher = ptr.Ptr(meta.Publisher)
	if meta.Description != "" {
		pack.PackDescription = ptr.Ptr(meta.Description)
	}
	pack.TrayIconFileName = ptr.Ptr(tray.fileName)
	pack.StickerPackSize = ptr.Ptr(uint64(len(archive)))
	for _, entry := range entries {
		sticker := &waproto.StickerPackSticker{
			FileName:   ptr.Ptr(entry.fileName),
			IsAnimated: ptr.Ptr(entry.animated),
			Emojis:     entry.emojis,
			MimeType:   ptr.Ptr("image/webp"),
		}
		if entry.label != "" {
			sticker.AccessibilityLabel = ptr.Ptr(entry.label)
		}
		pack.Stickers = append(pack.Stickers, sticker)
	}

	// Tray thumbnail is best effort; the pack ships without one when the
	// cover cannot be rendered.
	if thumb, terr := wamedia.JPEGThumbnail(tray.data); terr != nil {
		log.Warn().Err(terr).Msg("Failed to generate sticker pack thumbnail")
	} else {
		pack.Thumbnail = thumb
	}
	return frag, nil
}

// normalize resolves a sticker and ensures it is WebP. Existing WebP
// buffers are kept as-is, animation flag included; anything else is
// converted to a non-animated WebP through the processing capability.
func (a *Assembler) normalize(ctx context.Context, ref wamedia.Reference) (*normalized, error) {
	data, err := a.Preparer.ReadAll(ctx, ref)
	if err != nil {
		return nil, err
	}
	animated := false
	if wamedia.IsWebP(data) {
		animated = wamedia.IsAnimatedWebP(data)
	} else {
		proc := a.Preparer.Processor
		if proc == nil || !proc.Caps().ReencodeWebP {
			return nil, wamedia.CapabilityError("webp re-encode")
		}
		data, err = proc.ReencodeWebP(ctx, data, stickerReencodeSize)
		if err != nil {
			return nil, fmt.Errorf("failed to convert sticker to webp: %w", err)
		}
	}
	if len(data) > maxStickerBytes {
		return nil, wamedia.Invalidf("converted sticker of %d bytes exceeds the 1 MiB limit", len(data))
	}
	sum := sha256.Sum256(data)
	return &normalized{
		fileName: hex.EncodeToString(sum[:]) + ".webp",
		data:     data,
		animated: animated,
	}, nil
}

// bundle writes the tray icon and every sticker into a single archive
// with uncompressed entries.
func bundle(entries []*normalized, tray *normalized) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("failed to add %s to sticker archive: %w", name, err)
		}
		if _, err = w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s to sticker archive: %w", name, err)
		}
		return nil
	}
	if err := write(tray.fileName, tray.data); err != nil {
		return nil, err
	}
	seen := map[string]bool{tray.fileName: true}
	for _, entry := range entries {
		if seen[entry.fileName] {
			continue
		}
		seen[entry.fileName] = true
		if err := write(entry.fileName, entry.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize sticker archive: %w", err)
	}
	return buf.Bytes(), nil
}
