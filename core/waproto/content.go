package waproto

// MessageKey identifies a previously sent message (for reactions, edits,
// revokes, pins and poll updates).
type MessageKey struct {
	RemoteJID   *string `json:"remoteJid,omitempty"`
	FromMe      *bool   `json:"fromMe,omitempty"`
	ID          *string `json:"id,omitempty"`
	Participant *string `json:"participant,omitempty"`
}

// ContextInfo is the side metadata merged into the populated content field.
type ContextInfo struct {
	StanzaID                  *string              `json:"stanzaId,omitempty"`
	Participant               *string              `json:"participant,omitempty"`
	QuotedMessage             *Message             `json:"quotedMessage,omitempty"`
	RemoteJID                 *string              `json:"remoteJid,omitempty"`
	MentionedJID              []string             `json:"mentionedJid,omitempty"`
	ForwardingScore           *uint32              `json:"forwardingScore,omitempty"`
	IsForwarded               *bool                `json:"isForwarded,omitempty"`
	Expiration                *uint32              `json:"expiration,omitempty"`
	EphemeralSettingTimestamp *int64               `json:"ephemeralSettingTimestamp,omitempty"`
	ExternalAdReply           *ExternalAdReplyInfo `json:"externalAdReply,omitempty"`
}

type ExternalAdReplyInfo struct {
	Title                 *string `json:"title,omitempty"`
	Body                  *string `json:"body,omitempty"`
	MediaType             *string `json:"mediaType,omitempty"`
	ThumbnailURL          *string `json:"thumbnailUrl,omitempty"`
	MediaURL              *string `json:"mediaUrl,omitempty"`
	Thumbnail             []byte  `json:"thumbnail,omitempty"`
	SourceType            *string `json:"sourceType,omitempty"`
	SourceID              *string `json:"sourceId,omitempty"`
	SourceURL             *string `json:"sourceUrl,omitempty"`
	ContainsAutoReply     *bool   `json:"containsAutoReply,omitempty"`
	RenderLargerThumbnail *bool   `json:"renderLargerThumbnail,omitempty"`
	ShowAdAttribution     *bool   `json:"showAdAttribution,omitempty"`
}

type ContactMessage struct {
	DisplayName *string      `json:"displayName,omitempty"`
	Vcard       *string      `json:"vcard,omitempty"`
	ContextInfo *ContextInfo `json:"contextInfo,omitempty"`
}

type ContactsArrayMessage struct {
	DisplayName *string           `json:"displayName,omitempty"`
	Contacts    []*ContactMessage `json:"contacts,omitempty"`
	ContextInfo *ContextInfo      `json:"contextInfo,omitempty"`
}

type LocationMessage struct {
	DegreesLatitude  *float64     `json:"degreesLatitude,omitempty"`
	DegreesLongitude *float64     `json:"degreesLongitude,omitempty"`
	Name             *string      `json:"name,omitempty"`
	Address          *string      `json:"address,omitempty"`
	URL              *string      `json:"url,omitempty"`
	JPEGThumbnail    []byte       `json:"jpegThumbnail,omitempty"`
	ContextInfo      *ContextInfo `json:"contextInfo,omitempty"`
}

type LiveLocationMessage struct {
	DegreesLatitude                   *float64     `json:"degreesLatitude,omitempty"`
	DegreesLongitude                  *float64     `json:"degreesLongitude,omitempty"`
	AccuracyInMeters                  *uint32      `json:"accuracyInMeters,omitempty"`
	SpeedInMps                        *float32     `json:"speedInMps,omitempty"`
	DegreesClockwiseFromMagneticNorth *uint32      `json:"degreesClockwiseFromMagneticNorth,omitempty"`
	Caption                           *string      `json:"caption,omitempty"`
	SequenceNumber                    *int64       `json:"sequenceNumber,omitempty"`
	JPEGThumbnail                     []byte       `json:"jpegThumbnail,omitempty"`
	ContextInfo                       *ContextInfo `json:"contextInfo,omitempty"`
}

type ReactionMessage struct {
	Key               *MessageKey `json:"key,omitempty"`
	Text              *string     `json:"text,omitempty"`
	GroupingKey       *string     `json:"groupingKey,omitempty"`
	SenderTimestampMS *int64      `json:"senderTimestampMs,omitempty"`
}

// ProtocolMessageType enumerates the protocol message operations the
// compiler emits.
type ProtocolMessageType int32

const (
	ProtocolRevoke           ProtocolMessageType = 0
	ProtocolEphemeralSetting ProtocolMessageType = 3
	ProtocolMessageEdit      ProtocolMessageType = 14
	ProtocolSharePhoneNumber ProtocolMessageType = 11
	ProtocolLimitSharing     ProtocolMessageType = 29
)

type ProtocolMessage struct {
	Key                 *MessageKey          `json:"key,omitempty"`
	Type                *ProtocolMessageType `json:"type,omitempty"`
	EphemeralExpiration *uint32              `json:"ephemeralExpiration,omitempty"`
	EditedMessage       *Message             `json:"editedMessage,omitempty"`
	TimestampMS         *int64               `json:"timestampMs,omitempty"`
	LimitSharing        *LimitSharingSetting `json:"limitSharing,omitempty"`
}

type LimitSharingSetting struct {
	SharingLimited *bool   `json:"sharingLimited,omitempty"`
	Trigger        *string `json:"trigger,omitempty"`
}

type GroupInviteMessage struct {
	GroupJID         *string      `json:"groupJid,omitempty"`
	InviteCode       *string      `json:"inviteCode,omitempty"`
	InviteExpiration *int64       `json:"inviteExpiration,omitempty"`
	GroupName        *string      `json:"groupName,omitempty"`
	JPEGThumbnail    []byte       `json:"jpegThumbnail,omitempty"`
	Caption          *string      `json:"caption,omitempty"`
	ContextInfo      *ContextInfo `json:"contextInfo,omitempty"`
}

type PollOption struct {
	OptionName *string `json:"optionName,omitempty"`
}

type PollCreationMessage struct {
	Name                   *string       `json:"name,omitempty"`
	Options                []*PollOption `json:"options,omitempty"`
	SelectableOptionsCount *uint32       `json:"selectableOptionsCount,omitempty"`
	ContextInfo            *ContextInfo  `json:"contextInfo,omitempty"`
}

type PollEncValue struct {
	EncPayload []byte `json:"encPayload,omitempty"`
	EncIV      []byte `json:"encIv,omitempty"`
}

type PollUpdateMessage struct {
	PollCreationMessageKey *MessageKey   `json:"pollCreationMessageKey,omitempty"`
	Vote                   *PollEncValue `json:"vote,omitempty"`
	SenderTimestampMS      *int64        `json:"senderTimestampMs,omitempty"`
}

type PollVoteSnapshot struct {
	OptionName  *string  `json:"optionName,omitempty"`
	OptionVotes []string `json:"optionVotes,omitempty"`
}

type PollResultSnapshotMessage struct {
	Name        *string             `json:"name,omitempty"`
	PollVotes   []*PollVoteSnapshot `json:"pollVotes,omitempty"`
	ContextInfo *ContextInfo        `json:"contextInfo,omitempty"`
}

type ProductSnapshot struct {
	ProductImage      *ImageMessage `json:"productImage,omitempty"`
	ProductID         *string       `json:"productId,omitempty"`
	Title             *string       `json:"title,omitempty"`
	Description       *string       `json:"description,omitempty"`
	CurrencyCode      *string       `json:"currencyCode,omitempty"`
	PriceAmount1000   *int64        `json:"priceAmount1000,omitempty"`
	RetailerID        *string       `json:"retailerId,omitempty"`
	URL               *string       `json:"url,omitempty"`
	ProductImageCount *uint32       `json:"productImageCount,omitempty"`
}

type ProductMessage struct {
	Product          *ProductSnapshot `json:"product,omitempty"`
	BusinessOwnerJID *string          `json:"businessOwnerJid,omitempty"`
	Body             *string          `json:"body,omitempty"`
	Footer           *string          `json:"footer,omitempty"`
	ContextInfo      *ContextInfo     `json:"contextInfo,omitempty"`
}

type OrderMessage struct {
	OrderID           *string      `json:"orderId,omitempty"`
	Thumbnail         []byte       `json:"thumbnail,omitempty"`
	ItemCount         *int32       `json:"itemCount,omitempty"`
	Status            *string      `json:"status,omitempty"`
	Surface           *string      `json:"surface,omitempty"`
	Message           *string      `json:"message,omitempty"`
	OrderTitle        *string      `json:"orderTitle,omitempty"`
	SellerJID         *string      `json:"sellerJid,omitempty"`
	Token             *string      `json:"token,omitempty"`
	TotalAmount1000   *int64       `json:"totalAmount1000,omitempty"`
	TotalCurrencyCode *string      `json:"totalCurrencyCode,omitempty"`
	ContextInfo       *ContextInfo `json:"contextInfo,omitempty"`
}

type EventMessage struct {
	IsCanceled         *bool            `json:"isCanceled,omitempty"`
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Location           *LocationMessage `json:"location,omitempty"`
	JoinLink           *string          `json:"joinLink,omitempty"`
	StartTime          *int64           `json:"startTime,omitempty"`
	EndTime            *int64           `json:"endTime,omitempty"`
	ExtraGuestsAllowed *bool            `json:"extraGuestsAllowed,omitempty"`
	ContextInfo        *ContextInfo     `json:"contextInfo,omitempty"`
}

type PaymentInviteMessage struct {
	ServiceType     *string `json:"serviceType,omitempty"`
	ExpiryTimestamp *int64  `json:"expiryTimestamp,omitempty"`
}

type KeepInChatMessage struct {
	Key         *MessageKey `json:"key,omitempty"`
	KeepType    *string     `json:"keepType,omitempty"`
	TimestampMS *int64      `json:"timestampMs,omitempty"`
}

type PinInChatMessage struct {
	Key               *MessageKey `json:"key,omitempty"`
	Type              *string     `json:"type,omitempty"`
	SenderTimestampMS *int64      `json:"senderTimestampMs,omitempty"`
}

type RequestPhoneNumberMessage struct {
	ContextInfo *ContextInfo `json:"contextInfo,omitempty"`
}

type AlbumMessage struct {
	ExpectedImageCount *uint32      `json:"expectedImageCount,omitempty"`
	ExpectedVideoCount *uint32      `json:"expectedVideoCount,omitempty"`
	ContextInfo        *ContextInfo `json:"contextInfo,omitempty"`
}
