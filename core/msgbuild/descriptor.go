package msgbuild

import (
	"go.mau.fi/whatsmeow/types"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/stickerpack"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/wamedia"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// Descriptor is the caller-supplied specification of one outbound message.
// It is read-only and consumed once per compile. The primary-tag fields
// select the message kind; when several are set the classifier picks the
// first in its fixed order. Modifier fields apply orthogonally to
// whichever kind was selected.
type Descriptor struct {
	// Primary tags, in classification order.
	Text               *TextSpec
	Contacts           *ContactsSpec
	Location           *LocationSpec
	React              *ReactSpec
	Delete             *waproto.MessageKey
	Forward            *ForwardSpec
	Disappearing       *DisappearingSpec
	GroupInvite        *GroupInviteSpec
	Stickers           *StickerPackSpec
	Pin                *PinSpec
	Keep               *KeepSpec
	FlowReply          *FlowReplySpec
	ButtonReply        *ButtonReplySpec
	ListReply          *ListReplySpec
	Ptv                *MediaSpec
	Product            *ProductSpec
	Event              *EventSpec
	Poll               *PollSpec
	PollResult         *PollResultSpec
	PollUpdate         *PollUpdateSpec
	SharePhoneNumber   bool
	RequestPhoneNumber bool
	LimitSharing       *LimitSharingSpec
	PaymentInvite      *PaymentInviteSpec
	Order              *OrderSpec
	Album              *AlbumSpec
	Raw                *waproto.Message
	// Media is both the explicit media tag and the fallback when no other
	// tag matches.
	Media *MediaSpec

	// Interactive attachments, compiled onto the built content.
	Interactive *InteractiveSpec

	// Modifiers.
	Mentions        []string
	Quoted          *QuotedRef
	ContextInfo     *waproto.ContextInfo
	ExternalAdReply *waproto.ExternalAdReplyInfo
	Edit            *waproto.MessageKey

	Ephemeral          bool
	EphemeralDuration  uint32
	ViewOnce           bool
	ViewOnceV2         bool
	ViewOnceV2Ext      bool
	GroupStatus        bool
	InteractiveAsTempl bool
	AI                 bool
}

type TextSpec struct {
	Text string
	// DisableLinkPreview suppresses URL preview resolution for this
	// message even when the compiler has a resolver configured.
	DisableLinkPreview bool
}

type ContactSpec struct {
	DisplayName string
	VCard       string
}

type ContactsSpec struct {
	DisplayName string
	Contacts    []ContactSpec
}

type LocationSpec struct {
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
	// Live marks a live-location share.
	Live           bool
	AccuracyMeters uint32
	JPEGThumbnail  []byte
}

type ReactSpec struct {
	Key *waproto.MessageKey
	// Emoji is empty to remove a previous reaction.
	Emoji string
}

type ForwardSpec struct {
	Message *waproto.Message
	// Force marks the message as forwarded even when the score is zero.
	Force bool
}

type DisappearingSpec struct {
	// Duration in seconds; zero turns disappearing messages off.
	Duration uint32
}

type GroupInviteSpec struct {
	JID        string
	Code       string
	Expiration int64
	GroupName  string
	Caption    string
	Thumbnail  []byte
}

// StickerPackSpec is handed to the sticker pack assembler.
type StickerPackSpec struct {
	Cover    wamedia.Reference
	Stickers []stickerpack.Sticker
	Meta     stickerpack.Meta
}

type PinSpec struct {
	Key      *waproto.MessageKey
	Unpin    bool
	Duration uint32
}

type KeepSpec struct {
	Key  *waproto.MessageKey
	Undo bool
}

type FlowReplySpec struct {
	Name       string
	ParamsJSON string
	Body       string
	Version    int32
}

type ButtonReplySpec struct {
	ID          string
	DisplayText string
}

type ListReplySpec struct {
	Title       string
	RowID       string
	Description string
}

type ProductSpec struct {
	BusinessOwnerJID string
	Body             string
	Footer           string

	ID              string
	Title           string
	Description     string
	CurrencyCode    string
	PriceAmount1000 int64
	RetailerID      string
	URL             string
	ImageCount      uint32
	Image           *MediaSpec
}

type EventSpec struct {
	Name               string
	Description        string
	JoinLink           string
	StartTime          int64
	EndTime            int64
	Location           *LocationSpec
	ExtraGuestsAllowed *bool
	Canceled           bool
}

type PollSpec struct {
	Name            string
	Values          []string
	SelectableCount uint32
}

type PollVoteSpec struct {
	Name   string
	Voters []string
}

type PollResultSpec struct {
	Name  string
	Votes []PollVoteSpec
}

type PollUpdateSpec struct {
	Key        *waproto.MessageKey
	EncPayload []byte
	EncIV      []byte
}

type LimitSharingSpec struct {
	Limited bool
	Trigger string
}

type PaymentInviteSpec struct {
	ServiceType     string
	ExpiryTimestamp int64
}

type OrderSpec struct {
	OrderID           string
	Thumbnail         []byte
	ItemCount         int32
	Status            string
	Surface           string
	Message           string
	OrderTitle        string
	SellerJID         string
	Token             string
	TotalAmount1000   int64
	TotalCurrencyCode string
}

type AlbumSpec struct {
	ExpectedImages uint32
	ExpectedVideos uint32
}

// MediaSpec describes a single media payload.
type MediaSpec struct {
	Type     wamedia.MediaType
	Ref      wamedia.Reference
	Caption  string
	FileName string
	Mimetype string

	VoiceNote      bool
	GifPlayback    bool
	Seconds        *uint32
	BackgroundArgb *uint32
	JPEGThumbnail  []byte
}

// QuotedRef links the outgoing message to a quoted one.
//
// For fromMe quotes the Sender JID is used as given; alternate-identifier
// (LID) addressing of own messages is not resolved here.
type QuotedRef struct {
	ID      string
	Sender  types.JID
	FromMe  bool
	Message *waproto.Message
}

// InteractiveSpec carries the button/list/template/native-flow/carousel
// attachments compiled by the interactive compiler.
type InteractiveSpec struct {
	// Buttons builds a classic buttonsMessage.
	Buttons []ButtonSpec
	// Sections builds a listMessage.
	Sections       []SectionSpec
	ListTitle      string
	ListButtonText string
	// TemplateButtons builds a hydrated templateMessage.
	TemplateButtons []TemplateButtonSpec
	// NativeFlowButtons builds an interactiveMessage with a native flow.
	NativeFlowButtons []NativeFlowButtonSpec
	// Cards builds an interactiveMessage carousel.
	Cards []CardSpec

	Title    string
	Subtitle string
	Footer   string
	Header   *HeaderSpec

	// Coupon and OptionsSheet merge into the shared native-flow params
	// blob when present.
	Coupon       *CouponSpec
	OptionsSheet *OptionsSheetSpec
	// AudioFooter is prepared through the media preparer and must resolve
	// to an audio fragment.
	AudioFooter *MediaSpec
}

type ButtonSpec struct {
	ID          string
	DisplayText string
}

type SectionSpec struct {
	Title string
	Rows  []RowSpec
}

type RowSpec struct {
	Title       string
	Description string
	RowID       string
}

type TemplateButtonSpec struct {
	Index       uint32
	DisplayText string
	// Exactly one of ID/URL/PhoneNumber selects quick-reply/url/call.
	ID          string
	URL         string
	PhoneNumber string
}

// NativeFlowButtonSpec is classified by which of ID/CopyCode/URL/Call it
// carries, in that precedence. Buttons carrying none pass through with
// their explicit Name and ParamsJSON.
type NativeFlowButtonSpec struct {
	DisplayText string
	ID          string
	CopyCode    string
	URL         string
	Call        string

	Name       string
	ParamsJSON string
}

type CardSpec struct {
	Title    string
	Subtitle string
	Body     string
	Footer   string
	Header   *HeaderSpec
	Buttons  []NativeFlowButtonSpec
}

// HeaderSpec must resolve to image/video/document/product/location.
type HeaderSpec struct {
	Media    *MediaSpec
	Location *LocationSpec
	Product  *ProductSpec
}

type CouponSpec struct {
	Code           string
	ExpirationTime int64
}

type OptionsSheetSpec struct {
	Title   string
	Options []string
}
