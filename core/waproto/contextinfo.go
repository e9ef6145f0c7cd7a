package waproto

// ContentContextInfo returns the context info attached to the populated
// content field, or nil when absent or unsupported.
func (m *Message) ContentContextInfo() *ContextInfo {
	ref := m.contextInfoRef()
	if ref == nil {
		return nil
	}
	return *ref
}

// SetContentContextInfo attaches ci to the populated content field. It
// reports false when the content type carries no context info (reactions,
// protocol messages, pins and the like).
func (m *Message) SetContentContextInfo(ci *ContextInfo) bool {
	ref := m.contextInfoRef()
	if ref == nil {
		return false
	}
	*ref = ci
	return true
}

func (m *Message) contextInfoRef() **ContextInfo {
	switch {
	case m == nil:
		return nil
	case m.ExtendedTextMessage != nil:
		return &m.ExtendedTextMessage.ContextInfo
	case m.ImageMessage != nil:
		return &m.ImageMessage.ContextInfo
	case m.VideoMessage != nil:
		return &m.VideoMessage.ContextInfo
	case m.PtvMessage != nil:
		return &m.PtvMessage.ContextInfo
	case m.AudioMessage != nil:
		return &m.AudioMessage.ContextInfo
	case m.DocumentMessage != nil:
		return &m.DocumentMessage.ContextInfo
	case m.StickerMessage != nil:
		return &m.StickerMessage.ContextInfo
	case m.StickerPackMessage != nil:
		return &m.StickerPackMessage.ContextInfo
	case m.ContactMessage != nil:
		return &m.ContactMessage.ContextInfo
	case m.ContactsArrayMessage != nil:
		return &m.ContactsArrayMessage.ContextInfo
	case m.LocationMessage != nil:
		return &m.LocationMessage.ContextInfo
	case m.LiveLocationMessage != nil:
		return &m.LiveLocationMessage.ContextInfo
	case m.GroupInviteMessage != nil:
		return &m.GroupInviteMessage.ContextInfo
	case m.PollCreationMessage != nil:
		return &m.PollCreationMessage.ContextInfo
	case m.PollResultSnapshotMessage != nil:
		return &m.PollResultSnapshotMessage.ContextInfo
	case m.ButtonsMessage != nil:
		return &m.ButtonsMessage.ContextInfo
	case m.ButtonsResponseMessage != nil:
		return &m.ButtonsResponseMessage.ContextInfo
	case m.ListMessage != nil:
		return &m.ListMessage.ContextInfo
	case m.ListResponseMessage != nil:
		return &m.ListResponseMessage.ContextInfo
	case m.TemplateMessage != nil:
		return &m.TemplateMessage.ContextInfo
	case m.InteractiveMessage != nil:
		return &m.InteractiveMessage.ContextInfo
	case m.InteractiveResponseMessage != nil:
		return &m.InteractiveResponseMessage.ContextInfo
	case m.ProductMessage != nil:
		return &m.ProductMessage.ContextInfo
	case m.OrderMessage != nil:
		return &m.OrderMessage.ContextInfo
	case m.EventMessage != nil:
		return &m.EventMessage.ContextInfo
	case m.RequestPhoneNumberMessage != nil:
		return &m.RequestPhoneNumberMessage.ContextInfo
	case m.AlbumMessage != nil:
		return &m.AlbumMessage.ContextInfo
	default:
		return nil
	}
}

// MergeContextInfo fills unset fields of dst from src and returns dst
// (allocating when dst is nil). Slice fields are appended.
func MergeContextInfo(dst, src *ContextInfo) *ContextInfo {
	if src == nil {
		return dst
	}
	if dst == nil {
		out := *src
		return &out
	}
	if dst.StanzaID == nil {
		dst.StanzaID = src.StanzaID
	}
	if dst.Participant == nil {
		dst.Participant = src.Participant
	}
	if dst.QuotedMessage == nil {
		dst.QuotedMessage = src.QuotedMessage
	}
	if dst.RemoteJID == nil {
		dst.RemoteJID = src.RemoteJID
	}
	dst.MentionedJID = append(dst.MentionedJID, src.MentionedJID...)
	if dst.ForwardingScore == nil {
		dst.ForwardingScore = src.ForwardingScore
	}
	if dst.IsForwarded == nil {
		dst.IsForwarded = src.IsForwarded
	}
	if dst.Expiration == nil {
		dst.Expiration = src.Expiration
	}
	if dst.EphemeralSettingTimestamp == nil {
		dst.EphemeralSettingTimestamp = src.EphemeralSettingTimestamp
	}
	if dst.ExternalAdReply == nil {
		dst.ExternalAdReply = src.ExternalAdReply
	}
	return dst
}
