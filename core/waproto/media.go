package waproto

// ExtendedTextMessage carries text plus optional link-preview fields.
type ExtendedTextMessage struct {
	Text          *string      `json:"text,omitempty"`
	MatchedText   *string      `json:"matchedText,omitempty"`
	CanonicalURL  *string      `json:"canonicalUrl,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Title         *string      `json:"title,omitempty"`
	JPEGThumbnail []byte       `json:"jpegThumbnail,omitempty"`
	ContextInfo   *ContextInfo `json:"contextInfo,omitempty"`
}

type ImageMessage struct {
	URL               *string      `json:"url,omitempty"`
	Mimetype          *string      `json:"mimetype,omitempty"`
	Caption           *string      `json:"caption,omitempty"`
	FileSHA256        []byte       `json:"fileSha256,omitempty"`
	FileLength        *uint64      `json:"fileLength,omitempty"`
	Height            *uint32      `json:"height,omitempty"`
	Width             *uint32      `json:"width,omitempty"`
	MediaKey          []byte       `json:"mediaKey,omitempty"`
	FileEncSHA256     []byte       `json:"fileEncSha256,omitempty"`
	DirectPath        *string      `json:"directPath,omitempty"`
	MediaKeyTimestamp *int64       `json:"mediaKeyTimestamp,omitempty"`
	JPEGThumbnail     []byte       `json:"jpegThumbnail,omitempty"`
	ViewOnce          *bool        `json:"viewOnce,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

type VideoMessage struct {
	URL               *string      `json:"url,omitempty"`
	Mimetype          *string      `json:"mimetype,omitempty"`
	Caption           *string      `json:"caption,omitempty"`
	FileSHA256        []byte       `json:"fileSha256,omitempty"`
	FileLength        *uint64      `json:"fileLength,omitempty"`
	Seconds           *uint32      `json:"seconds,omitempty"`
	MediaKey          []byte       `json:"mediaKey,omitempty"`
	Height            *uint32      `json:"height,omitempty"`
	Width             *uint32      `json:"width,omitempty"`
	FileEncSHA256     []byte       `json:"fileEncSha256,omitempty"`
	DirectPath        *string      `json:"directPath,omitempty"`
	MediaKeyTimestamp *int64       `json:"mediaKeyTimestamp,omitempty"`
	JPEGThumbnail     []byte       `json:"jpegThumbnail,omitempty"`
	GifPlayback       *bool        `json:"gifPlayback,omitempty"`
	ViewOnce          *bool        `json:"viewOnce,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

type AudioMessage struct {
	URL               *string      `json:"url,omitempty"`
	Mimetype          *string      `json:"mimetype,omitempty"`
	FileSHA256        []byte       `json:"fileSha256,omitempty"`
	FileLength        *uint64      `json:"fileLength,omitempty"`
	Seconds           *uint32      `json:"seconds,omitempty"`
	PTT               *bool        `json:"ptt,omitempty"`
	MediaKey          []byte       `json:"mediaKey,omitempty"`
	FileEncSHA256     []byte       `json:"fileEncSha256,omitempty"`
	DirectPath        *string      `json:"directPath,omitempty"`
	MediaKeyTimestamp *int64       `json:"mediaKeyTimestamp,omitempty"`
	Waveform          []byte       `json:"waveform,omitempty"`
	BackgroundArgb    *uint32      `json:"backgroundArgb,omitempty"`
	ViewOnce          *bool        `json:"viewOnce,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

type DocumentMessage struct {
	URL               *string      `json:"url,omitempty"`
	Mimetype          *string      `json:"mimetype,omitempty"`
	Title             *string      `json:"title,omitempty"`
	FileSHA256        []byte       `json:"fileSha256,omitempty"`
	FileLength        *uint64      `json:"fileLength,omitempty"`
	PageCount         *uint32      `json:"pageCount,omitempty"`
	MediaKey          []byte       `json:"mediaKey,omitempty"`
	FileName          *string      `json:"fileName,omitempty"`
	FileEncSHA256     []byte       `json:"fileEncSha256,omitempty"`
	DirectPath        *string      `json:"directPath,omitempty"`
	MediaKeyTimestamp *int64       `json:"mediaKeyTimestamp,omitempty"`
	JPEGThumbnail     []byte       `json:"jpegThumbnail,omitempty"`
	Caption           *string      `json:"caption,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

type StickerMessage struct {
	URL               *string      `json:"url,omitempty"`
	FileSHA256        []byte       `json:"fileSha256,omitempty"`
	FileEncSHA256     []byte       `json:"fileEncSha256,omitempty"`
	MediaKey          []byte       `json:"mediaKey,omitempty"`
	Mimetype          *string      `json:"mimetype,omitempty"`
	Height            *uint32      `json:"height,omitempty"`
	Width             *uint32      `json:"width,omitempty"`
	DirectPath        *string      `json:"directPath,omitempty"`
	FileLength        *uint64      `json:"fileLength,omitempty"`
	MediaKeyTimestamp *int64       `json:"mediaKeyTimestamp,omitempty"`
	IsAnimated        *bool        `json:"isAnimated,omitempty"`
	IsAvatar          *bool        `json:"isAvatar,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

// StickerPackSticker is the per-sticker metadata entry inside a pack.
type StickerPackSticker struct {
	FileName           *string  `json:"fileName,omitempty"`
	IsAnimated         *bool    `json:"isAnimated,omitempty"`
	Emojis             []string `json:"emojis,omitempty"`
	AccessibilityLabel *string  `json:"accessibilityLabel,omitempty"`
	MimeType           *string  `json:"mimetype,omitempty"`
}

type StickerPackMessage struct {
	StickerPackID     *string               `json:"stickerPackId,omitempty"`
	Name              *string               `json:"name,omitempty"`
	Publisher         *string               `json:"publisher,omitempty"`
	Stickers          []*StickerPackSticker `json:"stickers,omitempty"`
	FileLength        *uint64               `json:"fileLength,omitempty"`
	FileSHA256        []byte                `json:"fileSha256,omitempty"`
	FileEncSHA256     []byte                `json:"fileEncSha256,omitempty"`
	MediaKey          []byte                `json:"mediaKey,omitempty"`
	DirectPath        *string               `json:"directPath,omitempty"`
	MediaKeyTimestamp *int64                `json:"mediaKeyTimestamp,omitempty"`
	TrayIconFileName  *string               `json:"trayIconFileName,omitempty"`
	Thumbnail         []byte                `json:"thumbnail,omitempty"`
	PackDescription   *string               `json:"packDescription,omitempty"`
	StickerPackSize   *uint64               `json:"stickerPackSize,omitempty"`
	ContextInfo       *ContextInfo          `json:"contextInfo,omitempty"`
}

// SetMediaPointer writes the upload/encryption fields onto whichever media
// payload is populated in m. It is the single place the preparer touches
// the schema, so the verbatim field names stay in one package.
type MediaPointer struct {
	URL               *string
	DirectPath        *string
	MediaKey          []byte
	FileEncSHA256     []byte
	FileSHA256        []byte
	FileLength        *uint64
	MediaKeyTimestamp *int64
	Mimetype          *string
}

func (m *Message) SetMediaPointer(p *MediaPointer) {
	switch {
	case m.ImageMessage != nil:
		t := m.ImageMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.VideoMessage != nil:
		t := m.VideoMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.PtvMessage != nil:
		t := m.PtvMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.AudioMessage != nil:
		t := m.AudioMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.DocumentMessage != nil:
		t := m.DocumentMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.StickerMessage != nil:
		t := m.StickerMessage
		t.URL, t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp, t.Mimetype =
			p.URL, p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp, p.Mimetype
	case m.StickerPackMessage != nil:
		t := m.StickerPackMessage
		t.DirectPath, t.MediaKey, t.FileEncSHA256, t.FileSHA256, t.FileLength, t.MediaKeyTimestamp =
			p.DirectPath, p.MediaKey, p.FileEncSHA256, p.FileSHA256, p.FileLength, p.MediaKeyTimestamp
	}
}
