// mautrix-whatsapp - A Matrix-WhatsApp puppeting bridge.
// Copyright (C) 2024 Tulir Asokan
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package msgbuild compiles message descriptors into canonical wire-ready
// message trees and derives the transport hints for dispatching them.
package msgbuild

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mau.fi/util/ptr"
	"go.mau.fi/util/random"
	"go.mau.fi/whatsmeow/types"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/linkpreview"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/stickerpack"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/wamedia"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// Compiler turns descriptors into compiled messages. All collaborators
// are caller-supplied; the compiler itself keeps no per-call state.
type Compiler struct {
	Media       *wamedia.Preparer
	Stickers    *stickerpack.Assembler
	LinkPreview linkpreview.Resolver

	FetchURLPreviews bool
	DisableViewOnce  bool
}

// Compile resolves the descriptor to exactly one message kind, runs the
// matching builder, applies interactive attachments, merges context
// metadata and applies the wrapping rules. On any fatal error no partial
// message is returned.
func (c *Compiler) Compile(ctx context.Context, to types.JID, desc *Descriptor) (*waproto.Message, error) {
	log := zerolog.Ctx(ctx).With().Stringer("to", to).Logger()
	ctx = log.WithContext(ctx)

	kind, err := classify(desc)
	if err != nil {
		return nil, err
	}
	content, err := c.build(ctx, to, kind, desc)
	if err != nil {
		return nil, err
	}
	if desc.Interactive != nil {
		content, err = c.compileInteractive(ctx, to, desc.Interactive, content)
		if err != nil {
			return nil, err
		}
	}
	if ci := c.contextInfo(desc); ci != nil {
		content.SetContentContextInfo(waproto.MergeContextInfo(content.ContentContextInfo(), ci))
	}
	if desc.Edit != nil {
		content = &waproto.Message{ProtocolMessage: &waproto.ProtocolMessage{
			Key:           desc.Edit,
			Type:          ptr.Ptr(waproto.ProtocolMessageEdit),
			EditedMessage: content,
			TimestampMS:   ptr.Ptr(time.Now().UnixMilli()),
		}}
	}
	return c.applyWraps(desc, content)
}

func (c *Compiler) build(ctx context.Context, to types.JID, kind Kind, desc *Descriptor) (*waproto.Message, error) {
	switch kind {
	case KindText:
		return c.buildText(ctx, desc.Text)
	case KindContacts:
		return buildContacts(desc.Contacts)
	case KindLocation:
		return buildLocation(desc.Location), nil
	case KindReact:
		return buildReact(desc.React)
	case KindDelete:
		return &waproto.Message{ProtocolMessage: &waproto.ProtocolMessage{
			Key:  desc.Delete,
			Type: ptr.Ptr(waproto.ProtocolRevoke),
		}}, nil
	case KindForward:
		return buildForward(desc.Forward)
	case KindDisappearing:
		return &waproto.Message{ProtocolMessage: &waproto.ProtocolMessage{
			Type:                ptr.Ptr(waproto.ProtocolEphemeralSetting),
			EphemeralExpiration: ptr.Ptr(desc.Disappearing.Duration),
		}}, nil
	case KindGroupInvite:
		return buildGroupInvite(desc.GroupInvite)
	case KindStickerPack:
		if c.Stickers == nil {
			return nil, fmt.Errorf("sticker pack assembler is not configured")
		}
		return c.Stickers.Assemble(ctx, desc.Stickers.Cover, desc.Stickers.Stickers, desc.Stickers.Meta)
	case KindPin:
		return buildPin(desc.Pin)
	case KindKeep:
		return buildKeep(desc.Keep)
	case KindFlowReply:
		return buildFlowReply(desc.FlowReply), nil
	case KindButtonReply:
		return &waproto.Message{ButtonsResponseMessage: &waproto.ButtonsResponseMessage{
			SelectedButtonID:    ptr.Ptr(desc.ButtonReply.ID),
			SelectedDisplayText: ptr.Ptr(desc.ButtonReply.DisplayText),
			Type:                ptr.Ptr(int32(1)),
		}}, nil
	case KindListReply:
		return &waproto.Message{ListResponseMessage: &waproto.ListResponseMessage{
			Title:             ptr.Ptr(desc.ListReply.Title),
			ListType:          ptr.Ptr(waproto.ListTypeSingleSelect),
			SingleSelectReply: &waproto.SingleSelectReply{SelectedRowID: ptr.Ptr(desc.ListReply.RowID)},
			Description:       strOrNil(desc.ListReply.Description),
		}}, nil
	case KindPtv:
		return c.buildPtv(ctx, to, desc.Ptv)
	case KindProduct:
		return c.buildProduct(ctx, to, desc.Product)
	case KindEvent:
		return buildEvent(desc.Event), nil
	case KindPoll:
		return buildPoll(desc.Poll)
	case KindPollResult:
		return buildPollResult(desc.PollResult), nil
	case KindPollUpdate:
		return buildPollUpdate(desc.PollUpdate)
	case KindSharePhoneNumber:
		return &waproto.Message{ProtocolMessage: &waproto.ProtocolMessage{
			Type: ptr.Ptr(waproto.ProtocolSharePhoneNumber),
		}}, nil
	case KindRequestPhoneNumber:
		return &waproto.Message{RequestPhoneNumberMessage: &waproto.RequestPhoneNumberMessage{}}, nil
	case KindLimitSharing:
		return &waproto.Message{ProtocolMessage: &waproto.ProtocolMessage{
			Type: ptr.Ptr(waproto.ProtocolLimitSharing),
			LimitSharing: &waproto.LimitSharingSetting{
				SharingLimited: ptr.Ptr(desc.LimitSharing.Limited),
				Trigger:        strOrNil(desc.LimitSharing.Trigger),
			},
		}}, nil
	case KindPaymentInvite:
		return &waproto.Message{PaymentInviteMessage: &waproto.PaymentInviteMessage{
			ServiceType:     strOrNil(desc.PaymentInvite.ServiceType),
			ExpiryTimestamp: ptr.Ptr(desc.PaymentInvite.ExpiryTimestamp),
		}}, nil
	case KindOrder:
		return buildOrder(desc.Order), nil
	case KindAlbum:
		return buildAlbum(desc.Album)
	case KindRaw:
		if desc.Raw.ContentKind() == "" {
			return nil, invalidf("raw message must contain exactly one content key")
		}
		return desc.Raw.Clone(), nil
	case KindMedia:
		return c.buildMedia(ctx, to, desc.Media)
	default:
		return nil, fmt.Errorf("unhandled message kind %d", kind)
	}
}

var textMentionPattern = regexp.MustCompile(`@(\d{5,16})`)

func (c *Compiler) buildText(ctx context.Context, spec *TextSpec) (*waproto.Message, error) {
	etm := &waproto.ExtendedTextMessage{Text: ptr.Ptr(spec.Text)}
	if c.FetchURLPreviews && c.LinkPreview != nil && !spec.DisableLinkPreview {
		if url := linkpreview.FirstURL(spec.Text); url != "" {
			preview, err := c.LinkPreview.Resolve(ctx, url)
			if err != nil {
				// Previews are best effort.
				zerolog.Ctx(ctx).Warn().Err(err).Str("url", url).
					Msg("Failed to resolve link preview")
			} else {
				etm.MatchedText = ptr.Ptr(preview.MatchedURL)
				etm.CanonicalURL = ptr.Ptr(preview.CanonicalURL)
				etm.Title = strOrNil(preview.Title)
				etm.Description = strOrNil(preview.Description)
				etm.JPEGThumbnail = preview.Thumbnail
			}
		}
	}
	return &waproto.Message{ExtendedTextMessage: etm}, nil
}

func buildContacts(spec *ContactsSpec) (*waproto.Message, error) {
	if len(spec.Contacts) == 0 {
		return nil, invalidf("contacts message must contain at least one contact")
	}
	toMsg := func(contact ContactSpec) *waproto.ContactMessage {
		return &waproto.ContactMessage{
			DisplayName: ptr.Ptr(contact.DisplayName),
			Vcard:       ptr.Ptr(contact.VCard),
		}
	}
	if len(spec.Contacts) == 1 {
		return &waproto.Message{ContactMessage: toMsg(spec.Contacts[0])}, nil
	}
	arr := &waproto.ContactsArrayMessage{DisplayName: strOrNil(spec.DisplayName)}
	for _, contact := range spec.Contacts {
		arr.Contacts = append(arr.Contacts, toMsg(contact))
	}
	return &waproto.Message{ContactsArrayMessage: arr}, nil
}

func buildLocation(spec *LocationSpec) *waproto.Message {
	if spec.Live {
		return &waproto.Message{LiveLocationMessage: &waproto.LiveLocationMessage{
			DegreesLatitude:  ptr.Ptr(spec.Latitude),
			DegreesLongitude: ptr.Ptr(spec.Longitude),
			AccuracyInMeters: uint32OrNil(spec.AccuracyMeters),
			Caption:          strOrNil(spec.Name),
			JPEGThumbnail:    spec.JPEGThumbnail,
		}}
	}
	return &waproto.Message{LocationMessage: locationMessage(spec)}
}

func locationMessage(spec *LocationSpec) *waproto.LocationMessage {
	return &waproto.LocationMessage{
		DegreesLatitude:  ptr.Ptr(spec.Latitude),
		DegreesLongitude: ptr.Ptr(spec.Longitude),
		Name:             strOrNil(spec.Name),
		Address:          strOrNil(spec.Address),
		JPEGThumbnail:    spec.JPEGThumbnail,
	}
}

func buildReact(spec *ReactSpec) (*waproto.Message, error) {
	if spec.Key == nil {
		return nil, invalidf("reaction requires the key of the message being reacted to")
	}
	return &waproto.Message{ReactionMessage: &waproto.ReactionMessage{
		Key:               spec.Key,
		Text:              ptr.Ptr(spec.Emoji),
		SenderTimestampMS: ptr.Ptr(time.Now().UnixMilli()),
	}}, nil
}

// buildForward recomputes the forwarding score on a normalized copy of
// the source message, replacing its context metadata.
func buildForward(spec *ForwardSpec) (*waproto.Message, error) {
	if spec.Message == nil {
		return nil, invalidf("forward requires the message to forward")
	}
	content := ExtractContent(spec.Message).Clone()
	if content.ContentKind() == "" {
		return nil, invalidf("forward source has no forwardable content")
	}
	var score uint32
	if prev := content.ContentContextInfo(); prev != nil && prev.ForwardingScore != nil {
		score = *prev.ForwardingScore
	}
	score++
	ci := &waproto.ContextInfo{IsForwarded: ptr.Ptr(true), ForwardingScore: ptr.Ptr(score)}
	if !spec.Force && score == 1 {
		// First-hop forwards of own messages keep the flag only.
		ci.ForwardingScore = nil
	}
	content.SetContentContextInfo(ci)
	return content, nil
}

func buildGroupInvite(spec *GroupInviteSpec) (*waproto.Message, error) {
	if spec.JID == "" || spec.Code == "" {
		return nil, invalidf("group invite requires the group jid and invite code")
	}
	return &waproto.Message{GroupInviteMessage: &waproto.GroupInviteMessage{
		GroupJID:         ptr.Ptr(spec.JID),
		InviteCode:       ptr.Ptr(spec.Code),
		InviteExpiration: ptr.Ptr(spec.Expiration),
		GroupName:        strOrNil(spec.GroupName),
		Caption:          strOrNil(spec.Caption),
		JPEGThumbnail:    spec.Thumbnail,
	}}, nil
}

const defaultPinDuration = 7 * 24 * 60 * 60

func buildPin(spec *PinSpec) (*waproto.Message, error) {
	if spec.Key == nil {
		return nil, invalidf("pin requires the key of the message being pinned")
	}
	pinType := "PIN_FOR_ALL"
	if spec.Unpin {
		pinType = "UNPIN_FOR_ALL"
	}
	duration := spec.Duration
	if duration == 0 {
		duration = defaultPinDuration
	}
	return &waproto.Message{
		PinInChatMessage: &waproto.PinInChatMessage{
			Key:               spec.Key,
			Type:              ptr.Ptr(pinType),
			SenderTimestampMS: ptr.Ptr(time.Now().UnixMilli()),
		},
		MessageContextInfo: &waproto.MessageContextInfo{
			MessageAddOnDurationInSec: ptr.Ptr(duration),
		},
	}, nil
}

func buildKeep(spec *KeepSpec) (*waproto.Message, error) {
	if spec.Key == nil {
		return nil, invalidf("keep requires the key of the message being kept")
	}
	keepType := "KEEP_FOR_ALL"
	if spec.Undo {
		keepType = "UNDO_KEEP_FOR_ALL"
	}
	return &waproto.Message{KeepInChatMessage: &waproto.KeepInChatMessage{
		Key:         spec.Key,
		KeepType:    ptr.Ptr(keepType),
		TimestampMS: ptr.Ptr(time.Now().UnixMilli()),
	}}, nil
}

func buildFlowReply(spec *FlowReplySpec) *waproto.Message {
	version := spec.Version
	if version == 0 {
		version = 1
	}
	resp := &waproto.InteractiveResponse{
		NativeFlowResponse: &waproto.NativeFlowResponse{
			Name:       ptr.Ptr(spec.Name),
			ParamsJSON: ptr.Ptr(spec.ParamsJSON),
			Version:    ptr.Ptr(version),
		},
	}
	if spec.Body != "" {
		resp.Body = &waproto.InteractiveBody{Text: ptr.Ptr(spec.Body)}
	}
	return &waproto.Message{InteractiveResponseMessage: resp}
}

func (c *Compiler) buildPtv(ctx context.Context, to types.JID, spec *MediaSpec) (*waproto.Message, error) {
	media := *spec
	media.Type = wamedia.MediaVideo
	frag, err := c.prepareMedia(ctx, to, &media)
	if err != nil {
		return nil, err
	}
	if frag.VideoMessage == nil {
		return nil, invalidf("ptv descriptor did not resolve to a video")
	}
	return &waproto.Message{PtvMessage: frag.VideoMessage}, nil
}

func (c *Compiler) buildProduct(ctx context.Context, to types.JID, spec *ProductSpec) (*waproto.Message, error) {
	if spec.BusinessOwnerJID == "" {
		return nil, invalidf("product message requires a businessOwnerJid")
	}
	snapshot := &waproto.ProductSnapshot{
		ProductID:         ptr.Ptr(spec.ID),
		Title:             strOrNil(spec.Title),
		Description:       strOrNil(spec.Description),
		CurrencyCode:      strOrNil(spec.CurrencyCode),
		RetailerID:        strOrNil(spec.RetailerID),
		URL:               strOrNil(spec.URL),
		ProductImageCount: uint32OrNil(spec.ImageCount),
	}
	if spec.PriceAmount1000 != 0 {
		snapshot.PriceAmount1000 = ptr.Ptr(spec.PriceAmount1000)
	}
	if spec.Image != nil {
		media := *spec.Image
		media.Type = wamedia.MediaImage
		frag, err := c.prepareMedia(ctx, to, &media)
		if err != nil {
			return nil, err
		}
		snapshot.ProductImage = frag.ImageMessage
	}
	return &waproto.Message{ProductMessage: &waproto.ProductMessage{
		Product:          snapshot,
		BusinessOwnerJID: ptr.Ptr(spec.BusinessOwnerJID),
		Body:             strOrNil(spec.Body),
		Footer:           strOrNil(spec.Footer),
	}}, nil
}

func buildEvent(spec *EventSpec) *waproto.Message {
	msg := &waproto.EventMessage{
		Name:               strOrNil(spec.Name),
		Description:        strOrNil(spec.Description),
		JoinLink:           strOrNil(spec.JoinLink),
		ExtraGuestsAllowed: spec.ExtraGuestsAllowed,
	}
	if spec.StartTime != 0 {
		msg.StartTime = ptr.Ptr(spec.StartTime)
	}
	if spec.EndTime != 0 {
		msg.EndTime = ptr.Ptr(spec.EndTime)
	}
	if spec.Canceled {
		msg.IsCanceled = ptr.Ptr(true)
	}
	if spec.Location != nil {
		msg.Location = locationMessage(spec.Location)
	}
	return &waproto.Message{EventMessage: msg}
}

func buildPoll(spec *PollSpec) (*waproto.Message, error) {
	if len(spec.Values) == 0 {
		return nil, invalidf("poll must contain at least one option")
	}
	if int(spec.SelectableCount) > len(spec.Values) {
		return nil, invalidf("poll selectableCount %d exceeds the number of options %d",
			spec.SelectableCount, len(spec.Values))
	}
	poll := &waproto.PollCreationMessage{
		Name:                   ptr.Ptr(spec.Name),
		SelectableOptionsCount: ptr.Ptr(spec.SelectableCount),
	}
	for _, value := range spec.Values {
		poll.Options = append(poll.Options, &waproto.PollOption{OptionName: ptr.Ptr(value)})
	}
	return &waproto.Message{
		PollCreationMessage: poll,
		MessageContextInfo:  &waproto.MessageContextInfo{MessageSecret: random.Bytes(32)},
	}, nil
}

func buildPollResult(spec *PollResultSpec) *waproto.Message {
	snapshot := &waproto.PollResultSnapshotMessage{Name: ptr.Ptr(spec.Name)}
	for _, vote := range spec.Votes {
		snapshot.PollVotes = append(snapshot.PollVotes, &waproto.PollVoteSnapshot{
			OptionName:  ptr.Ptr(vote.Name),
			OptionVotes: vote.Voters,
		})
	}
	return &waproto.Message{PollResultSnapshotMessage: snapshot}
}

func buildPollUpdate(spec *PollUpdateSpec) (*waproto.Message, error) {
	if spec.Key == nil {
		return nil, invalidf("poll update requires the key of the poll message")
	}
	return &waproto.Message{PollUpdateMessage: &waproto.PollUpdateMessage{
		PollCreationMessageKey: spec.Key,
		Vote: &waproto.PollEncValue{
			EncPayload: spec.EncPayload,
			EncIV:      spec.EncIV,
		},
		SenderTimestampMS: ptr.Ptr(time.Now().UnixMilli()),
	}}, nil
}

func buildOrder(spec *OrderSpec) *waproto.Message {
	return &waproto.Message{OrderMessage: &waproto.OrderMessage{
		OrderID:           strOrNil(spec.OrderID),
		Thumbnail:         spec.Thumbnail,
		ItemCount:         ptr.Ptr(spec.ItemCount),
		Status:            strOrNil(spec.Status),
		Surface:           strOrNil(spec.Surface),
		Message:           strOrNil(spec.Message),
		OrderTitle:        strOrNil(spec.OrderTitle),
		SellerJID:         strOrNil(spec.SellerJID),
		Token:             strOrNil(spec.Token),
		TotalAmount1000:   ptr.Ptr(spec.TotalAmount1000),
		TotalCurrencyCode: strOrNil(spec.TotalCurrencyCode),
	}}
}

func buildAlbum(spec *AlbumSpec) (*waproto.Message, error) {
	if spec.ExpectedImages+spec.ExpectedVideos == 0 {
		return nil, invalidf("album must expect at least one image or video")
	}
	return &waproto.Message{AlbumMessage: &waproto.AlbumMessage{
		ExpectedImageCount: uint32OrNil(spec.ExpectedImages),
		ExpectedVideoCount: uint32OrNil(spec.ExpectedVideos),
	}}, nil
}

func (c *Compiler) buildMedia(ctx context.Context, to types.JID, spec *MediaSpec) (*waproto.Message, error) {
	frag, err := c.prepareMedia(ctx, to, spec)
	if err != nil {
		return nil, err
	}
	return frag, nil
}

// prepareMedia runs the media preparer and merges the per-call caption
// onto the fragment.
func (c *Compiler) prepareMedia(ctx context.Context, to types.JID, spec *MediaSpec) (*waproto.Message, error) {
	if spec.Ref.IsEmpty() {
		return nil, invalidf("media descriptor has no source")
	}
	mediaType := spec.Type
	if mediaType == "" {
		mediaType = wamedia.MediaDocument
	}
	if c.Media == nil {
		return nil, fmt.Errorf("media preparer is not configured")
	}
	frag, err := c.Media.Prepare(ctx, &wamedia.Request{
		Type:           mediaType,
		Ref:            spec.Ref,
		Dest:           to,
		MimeType:       spec.Mimetype,
		FileName:       spec.FileName,
		VoiceNote:      spec.VoiceNote,
		BackgroundArgb: spec.BackgroundArgb,
		GifPlayback:    spec.GifPlayback,
		Seconds:        spec.Seconds,
		JPEGThumbnail:  spec.JPEGThumbnail,
	})
	if err != nil {
		return nil, err
	}
	if spec.Caption != "" {
		switch {
		case frag.ImageMessage != nil:
			frag.ImageMessage.Caption = ptr.Ptr(spec.Caption)
		case frag.VideoMessage != nil:
			frag.VideoMessage.Caption = ptr.Ptr(spec.Caption)
		case frag.DocumentMessage != nil:
			frag.DocumentMessage.Caption = ptr.Ptr(spec.Caption)
		}
	}
	return frag, nil
}

// contextInfo assembles the modifier metadata merged into the content
// field, or nil when no modifier is present.
func (c *Compiler) contextInfo(desc *Descriptor) *waproto.ContextInfo {
	ci := &waproto.ContextInfo{}
	populated := false
	if desc.Quoted != nil && desc.Quoted.ID != "" {
		ci.StanzaID = ptr.Ptr(desc.Quoted.ID)
		// fromMe quotes keep the caller-provided sender; alternate
		// addressing is not resolved here.
		ci.Participant = ptr.Ptr(desc.Quoted.Sender.ToNonAD().String())
		quoted := desc.Quoted.Message
		if quoted == nil {
			quoted = &waproto.Message{Conversation: ptr.Ptr("")}
		} else {
			quoted = Normalize(quoted).Clone()
		}
		ci.QuotedMessage = quoted
		populated = true
	}
	mentions := desc.Mentions
	if desc.Text != nil {
		for _, match := range textMentionPattern.FindAllStringSubmatch(desc.Text.Text, -1) {
			mentions = append(mentions, match[1]+"@"+types.DefaultUserServer)
		}
	}
	if len(mentions) > 0 {
		ci.MentionedJID = mentions
		populated = true
	}
	if desc.ExternalAdReply != nil {
		ci.ExternalAdReply = desc.ExternalAdReply
		populated = true
	}
	if desc.Ephemeral && desc.EphemeralDuration > 0 {
		ci.Expiration = ptr.Ptr(desc.EphemeralDuration)
		populated = true
	}
	if desc.ContextInfo != nil {
		ci = waproto.MergeContextInfo(ci, desc.ContextInfo)
		populated = true
	}
	if !populated {
		return nil
	}
	return ci
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return ptr.Ptr(s)
}

func uint32OrNil(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return ptr.Ptr(v)
}
