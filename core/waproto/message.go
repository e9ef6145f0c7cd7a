// Package waproto holds the wire-schema value types for compiled WhatsApp
// messages. Field names mirror the wire message schema verbatim; the
// transport layer serializes these trees as-is.
package waproto

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Message is the canonical compiled message tree. Exactly one content field
// is populated per compiled message; wrapper fields nest a further Message
// one level deeper.
type Message struct {
	Conversation               *string                    `json:"conversation,omitempty"`
	ExtendedTextMessage        *ExtendedTextMessage       `json:"extendedTextMessage,omitempty"`
	ImageMessage               *ImageMessage              `json:"imageMessage,omitempty"`
	VideoMessage               *VideoMessage              `json:"videoMessage,omitempty"`
	PtvMessage                 *VideoMessage              `json:"ptvMessage,omitempty"`
	AudioMessage               *AudioMessage              `json:"audioMessage,omitempty"`
	DocumentMessage            *DocumentMessage           `json:"documentMessage,omitempty"`
	StickerMessage             *StickerMessage            `json:"stickerMessage,omitempty"`
	StickerPackMessage         *StickerPackMessage        `json:"stickerPackMessage,omitempty"`
	ContactMessage             *ContactMessage            `json:"contactMessage,omitempty"`
	ContactsArrayMessage       *ContactsArrayMessage      `json:"contactsArrayMessage,omitempty"`
	LocationMessage            *LocationMessage           `json:"locationMessage,omitempty"`
	LiveLocationMessage        *LiveLocationMessage       `json:"liveLocationMessage,omitempty"`
	ReactionMessage            *ReactionMessage           `json:"reactionMessage,omitempty"`
	ProtocolMessage            *ProtocolMessage           `json:"protocolMessage,omitempty"`
	GroupInviteMessage         *GroupInviteMessage        `json:"groupInviteMessage,omitempty"`
	PollCreationMessage        *PollCreationMessage       `json:"pollCreationMessage,omitempty"`
	PollUpdateMessage          *PollUpdateMessage         `json:"pollUpdateMessage,omitempty"`
	PollResultSnapshotMessage  *PollResultSnapshotMessage `json:"pollResultSnapshotMessage,omitempty"`
	ButtonsMessage             *ButtonsMessage            `json:"buttonsMessage,omitempty"`
	ButtonsResponseMessage     *ButtonsResponseMessage    `json:"buttonsResponseMessage,omitempty"`
	ListMessage                *ListMessage               `json:"listMessage,omitempty"`
	ListResponseMessage        *ListResponseMessage       `json:"listResponseMessage,omitempty"`
	TemplateMessage            *TemplateMessage           `json:"templateMessage,omitempty"`
	InteractiveMessage         *InteractiveMessage        `json:"interactiveMessage,omitempty"`
	InteractiveResponseMessage *InteractiveResponse       `json:"interactiveResponseMessage,omitempty"`
	ProductMessage             *ProductMessage            `json:"productMessage,omitempty"`
	OrderMessage               *OrderMessage              `json:"orderMessage,omitempty"`
	EventMessage               *EventMessage              `json:"eventMessage,omitempty"`
	PaymentInviteMessage       *PaymentInviteMessage      `json:"paymentInviteMessage,omitempty"`
	KeepInChatMessage          *KeepInChatMessage         `json:"keepInChatMessage,omitempty"`
	PinInChatMessage           *PinInChatMessage          `json:"pinInChatMessage,omitempty"`
	RequestPhoneNumberMessage  *RequestPhoneNumberMessage `json:"requestPhoneNumberMessage,omitempty"`
	AlbumMessage               *AlbumMessage              `json:"albumMessage,omitempty"`

	EphemeralMessage           *FutureProofMessage `json:"ephemeralMessage,omitempty"`
	ViewOnceMessage            *FutureProofMessage `json:"viewOnceMessage,omitempty"`
	ViewOnceMessageV2          *FutureProofMessage `json:"viewOnceMessageV2,omitempty"`
	ViewOnceMessageV2Extension *FutureProofMessage `json:"viewOnceMessageV2Extension,omitempty"`
	GroupStatusMessageV2       *FutureProofMessage `json:"groupStatusMessageV2,omitempty"`
	DocumentWithCaptionMessage *FutureProofMessage `json:"documentWithCaptionMessage,omitempty"`
	EditedMessage              *FutureProofMessage `json:"editedMessage,omitempty"`

	// MessageContextInfo rides alongside the content field and does not
	// count as a content key.
	MessageContextInfo *MessageContextInfo `json:"messageContextInfo,omitempty"`
}

// FutureProofMessage is the shared shape of all wrapper variants: a single
// embedded message.
type FutureProofMessage struct {
	Message *Message `json:"message,omitempty"`
}

// MessageContextInfo carries side metadata that is not part of the content
// union (poll/comment secrets, edit durations).
type MessageContextInfo struct {
	MessageSecret             []byte  `json:"messageSecret,omitempty"`
	MessageAddOnDurationInSec *uint32 `json:"messageAddOnDurationInSecs,omitempty"`
}

// WrapperKind identifies one of the message-shaped wrapper fields.
type WrapperKind string

const (
	WrapperEphemeral           WrapperKind = "ephemeralMessage"
	WrapperViewOnce            WrapperKind = "viewOnceMessage"
	WrapperViewOnceV2          WrapperKind = "viewOnceMessageV2"
	WrapperViewOnceV2Extension WrapperKind = "viewOnceMessageV2Extension"
	WrapperGroupStatusV2       WrapperKind = "groupStatusMessageV2"
	WrapperDocumentWithCaption WrapperKind = "documentWithCaptionMessage"
	WrapperEdited              WrapperKind = "editedMessage"
)

// Wrapped returns the wrapper kind and payload when exactly this message's
// content is one of the enumerated wrapper fields.
func (m *Message) Wrapped() (WrapperKind, *FutureProofMessage, bool) {
	switch {
	case m == nil:
		return "", nil, false
	case m.EphemeralMessage != nil:
		return WrapperEphemeral, m.EphemeralMessage, true
	case m.ViewOnceMessage != nil:
		return WrapperViewOnce, m.ViewOnceMessage, true
	case m.DocumentWithCaptionMessage != nil:
		return WrapperDocumentWithCaption, m.DocumentWithCaptionMessage, true
	case m.ViewOnceMessageV2 != nil:
		return WrapperViewOnceV2, m.ViewOnceMessageV2, true
	case m.ViewOnceMessageV2Extension != nil:
		return WrapperViewOnceV2Extension, m.ViewOnceMessageV2Extension, true
	case m.GroupStatusMessageV2 != nil:
		return WrapperGroupStatusV2, m.GroupStatusMessageV2, true
	case m.EditedMessage != nil:
		return WrapperEdited, m.EditedMessage, true
	default:
		return "", nil, false
	}
}

// Wrap nests the message under the given wrapper kind.
func Wrap(kind WrapperKind, inner *Message) *Message {
	fpm := &FutureProofMessage{Message: inner}
	out := &Message{}
	switch kind {
	case WrapperEphemeral:
		out.EphemeralMessage = fpm
	case WrapperViewOnce:
		out.ViewOnceMessage = fpm
	case WrapperViewOnceV2:
		out.ViewOnceMessageV2 = fpm
	case WrapperViewOnceV2Extension:
		out.ViewOnceMessageV2Extension = fpm
	case WrapperGroupStatusV2:
		out.GroupStatusMessageV2 = fpm
	case WrapperDocumentWithCaption:
		out.DocumentWithCaptionMessage = fpm
	case WrapperEdited:
		out.EditedMessage = fpm
	default:
		panic(fmt.Sprintf("waproto: unknown wrapper kind %q", kind))
	}
	return out
}

// ContentKeys lists the populated top-level content keys in schema order.
// MessageContextInfo is excluded.
func (m *Message) ContentKeys() []string {
	if m == nil {
		return nil
	}
	var keys []string
	v := reflect.ValueOf(*m)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Name == "MessageContextInfo" {
			continue
		}
		if v.Field(i).Kind() == reflect.Pointer && !v.Field(i).IsNil() {
			tag, _, _ := cutJSONTag(t.Field(i).Tag.Get("json"))
			keys = append(keys, tag)
		}
	}
	return keys
}

// ContentKind returns the single populated content key, or "" when the
// message is empty or ambiguous.
func (m *Message) ContentKind() string {
	keys := m.ContentKeys()
	if len(keys) != 1 {
		return ""
	}
	return keys[0]
}

func cutJSONTag(tag string) (name string, opts string, ok bool) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i], tag[i+1:], true
		}
	}
	return tag, "", false
}

// Clone deep-copies the message tree so callers can merge per-call fields
// without mutating shared values (cache entries in particular).
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("waproto: clone marshal: %v", err))
	}
	var out Message
	if err = json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("waproto: clone unmarshal: %v", err))
	}
	return &out
}
