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

package msgbuild

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mau.fi/util/ptr"
	"go.mau.fi/whatsmeow/types"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/wamedia"
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// compileInteractive rewrites the built content into the interactive
// container selected by the attachment shape. Exactly one attachment
// family applies per message; when several are present the first in
// cards > nativeFlow > buttons > sections > templateButtons order wins.
func (c *Compiler) compileInteractive(ctx context.Context, to types.JID, spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	switch {
	case len(spec.Cards) > 0:
		return c.compileCarousel(ctx, to, spec, base)
	case len(spec.NativeFlowButtons) > 0:
		return c.compileNativeFlow(ctx, to, spec, base)
	case len(spec.Buttons) > 0:
		return compileButtons(spec, base)
	case len(spec.Sections) > 0:
		return compileList(spec, base)
	case len(spec.TemplateButtons) > 0:
		return compileTemplate(spec, base)
	default:
		return nil, invalidf("interactive attachment has no buttons, sections, template buttons or cards")
	}
}

func compileButtons(spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	bm := &waproto.ButtonsMessage{
		FooterText: strOrNil(spec.Footer),
		HeaderType: ptr.Ptr(waproto.ButtonsHeaderEmpty),
	}
	switch {
	case base.ExtendedTextMessage != nil:
		bm.ContentText = base.ExtendedTextMessage.Text
		if spec.Title != "" {
			bm.Text = ptr.Ptr(spec.Title)
			bm.HeaderType = ptr.Ptr(waproto.ButtonsHeaderText)
		}
	case base.ImageMessage != nil:
		bm.ImageMessage = base.ImageMessage
		bm.ContentText = base.ImageMessage.Caption
		bm.HeaderType = ptr.Ptr(waproto.ButtonsHeaderImage)
	case base.VideoMessage != nil:
		bm.VideoMessage = base.VideoMessage
		bm.ContentText = base.VideoMessage.Caption
		bm.HeaderType = ptr.Ptr(waproto.ButtonsHeaderVideo)
	case base.DocumentMessage != nil:
		bm.DocumentMessage = base.DocumentMessage
		bm.ContentText = base.DocumentMessage.Caption
		bm.HeaderType = ptr.Ptr(waproto.ButtonsHeaderDocument)
	case base.LocationMessage != nil:
		bm.LocationMessage = base.LocationMessage
		bm.HeaderType = ptr.Ptr(waproto.ButtonsHeaderLocation)
	default:
		return nil, invalidf("buttons cannot attach to a %s message", base.ContentKind())
	}
	for _, button := range spec.Buttons {
		bm.Buttons = append(bm.Buttons, &waproto.Button{
			ButtonID:   ptr.Ptr(button.ID),
			ButtonText: &waproto.ButtonText{DisplayText: ptr.Ptr(button.DisplayText)},
			Type:       ptr.Ptr(int32(1)),
		})
	}
	return &waproto.Message{ButtonsMessage: bm}, nil
}

func compileList(spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	if base.ExtendedTextMessage == nil {
		return nil, invalidf("list sections can only attach to a text message")
	}
	if spec.ListButtonText == "" {
		return nil, invalidf("list message requires buttonText")
	}
	title := spec.ListTitle
	if title == "" {
		title = spec.Title
	}
	lm := &waproto.ListMessage{
		Title:       strOrNil(title),
		Description: base.ExtendedTextMessage.Text,
		ButtonText:  ptr.Ptr(spec.ListButtonText),
		ListType:    ptr.Ptr(waproto.ListTypeSingleSelect),
		FooterText:  strOrNil(spec.Footer),
	}
	for _, section := range spec.Sections {
		sec := &waproto.ListSection{Title: strOrNil(section.Title)}
		for _, row := range section.Rows {
			sec.Rows = append(sec.Rows, &waproto.ListRow{
				Title:       ptr.Ptr(row.Title),
				Description: strOrNil(row.Description),
				RowID:       ptr.Ptr(row.RowID),
			})
		}
		lm.Sections = append(lm.Sections, sec)
	}
	return &waproto.Message{ListMessage: lm}, nil
}

func compileTemplate(spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	tpl := &waproto.HydratedFourRowTemplate{
		HydratedFooterText: strOrNil(spec.Footer),
		HydratedTitleText:  strOrNil(spec.Title),
	}
	switch {
	case base.ExtendedTextMessage != nil:
		tpl.HydratedContentText = base.ExtendedTextMessage.Text
	case base.ImageMessage != nil:
		tpl.ImageMessage = base.ImageMessage
		tpl.HydratedContentText = base.ImageMessage.Caption
	case base.VideoMessage != nil:
		tpl.VideoMessage = base.VideoMessage
		tpl.HydratedContentText = base.VideoMessage.Caption
	case base.DocumentMessage != nil:
		tpl.DocumentMessage = base.DocumentMessage
		tpl.HydratedContentText = base.DocumentMessage.Caption
	case base.LocationMessage != nil:
		tpl.LocationMessage = base.LocationMessage
	default:
		return nil, invalidf("template buttons cannot attach to a %s message", base.ContentKind())
	}
	for i, button := range spec.TemplateButtons {
		index := button.Index
		if index == 0 {
			index = uint32(i + 1)
		}
		hydrated := &waproto.HydratedTemplateButton{Index: ptr.Ptr(index)}
		switch {
		case button.ID != "":
			hydrated.QuickReplyButton = &waproto.HydratedQuickReply{
				DisplayText: ptr.Ptr(button.DisplayText),
				ID:          ptr.Ptr(button.ID),
			}
		case button.URL != "":
			hydrated.URLButton = &waproto.HydratedURLButton{
				DisplayText: ptr.Ptr(button.DisplayText),
				URL:         ptr.Ptr(button.URL),
			}
		case button.PhoneNumber != "":
			hydrated.CallButton = &waproto.HydratedCallButton{
				DisplayText: ptr.Ptr(button.DisplayText),
				PhoneNumber: ptr.Ptr(button.PhoneNumber),
			}
		default:
			return nil, invalidf("template button %d has no id, url or phone number", i)
		}
		tpl.HydratedButtons = append(tpl.HydratedButtons, hydrated)
	}
	return &waproto.Message{TemplateMessage: &waproto.TemplateMessage{HydratedTemplate: tpl}}, nil
}

func (c *Compiler) compileNativeFlow(ctx context.Context, to types.JID, spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	header, bodyText, err := c.interactiveHeader(ctx, to, spec.Title, spec.Subtitle, spec.Header, base)
	if err != nil {
		return nil, err
	}
	flow := &waproto.NativeFlowMessage{MessageVersion: ptr.Ptr(int32(1))}
	for _, button := range spec.NativeFlowButtons {
		compiled, err := classifyNativeFlowButton(button)
		if err != nil {
			return nil, err
		}
		flow.Buttons = append(flow.Buttons, compiled)
	}
	params, err := c.nativeFlowParams(ctx, to, spec)
	if err != nil {
		return nil, err
	}
	flow.MessageParamsJSON = params
	im := &waproto.InteractiveMessage{
		Header:            header,
		NativeFlowMessage: flow,
	}
	if bodyText != "" {
		im.Body = &waproto.InteractiveBody{Text: ptr.Ptr(bodyText)}
	}
	if spec.Footer != "" {
		im.Footer = &waproto.InteractiveFooter{Text: ptr.Ptr(spec.Footer)}
	}
	return &waproto.Message{InteractiveMessage: im}, nil
}

func (c *Compiler) compileCarousel(ctx context.Context, to types.JID, spec *InteractiveSpec, base *waproto.Message) (*waproto.Message, error) {
	carousel := &waproto.CarouselMessage{MessageVersion: ptr.Ptr(int32(1))}
	for i, cardSpec := range spec.Cards {
		if cardSpec.Header == nil {
			return nil, invalidf("carousel card %d requires a header", i)
		}
		header, _, err := c.interactiveHeader(ctx, to, cardSpec.Title, cardSpec.Subtitle, cardSpec.Header, nil)
		if err != nil {
			return nil, fmt.Errorf("carousel card %d: %w", i, err)
		}
		card := &waproto.InteractiveMessage{
			Header:            header,
			NativeFlowMessage: &waproto.NativeFlowMessage{MessageVersion: ptr.Ptr(int32(1))},
		}
		if cardSpec.Body != "" {
			card.Body = &waproto.InteractiveBody{Text: ptr.Ptr(cardSpec.Body)}
		}
		if cardSpec.Footer != "" {
			card.Footer = &waproto.InteractiveFooter{Text: ptr.Ptr(cardSpec.Footer)}
		}
		for _, button := range cardSpec.Buttons {
			compiled, err := classifyNativeFlowButton(button)
			if err != nil {
				return nil, fmt.Errorf("carousel card %d: %w", i, err)
			}
			card.NativeFlowMessage.Buttons = append(card.NativeFlowMessage.Buttons, compiled)
		}
		carousel.Cards = append(carousel.Cards, card)
	}
	im := &waproto.InteractiveMessage{CarouselMessage: carousel}
	if text := baseText(base); text != "" {
		im.Body = &waproto.InteractiveBody{Text: ptr.Ptr(text)}
	}
	if spec.Footer != "" {
		im.Footer = &waproto.InteractiveFooter{Text: ptr.Ptr(spec.Footer)}
	}
	return &waproto.Message{InteractiveMessage: im}, nil
}

// interactiveHeader builds the header for a native-flow message. When no
// explicit header spec is given, media carried by the base message is
// adopted as the header attachment and the base caption becomes the body.
func (c *Compiler) interactiveHeader(ctx context.Context, to types.JID, title, subtitle string, hs *HeaderSpec, base *waproto.Message) (*waproto.InteractiveHeader, string, error) {
	header := &waproto.InteractiveHeader{
		Title:    strOrNil(title),
		Subtitle: strOrNil(subtitle),
	}
	bodyText := baseText(base)
	switch {
	case hs == nil:
		switch {
		case base == nil:
		case base.ImageMessage != nil:
			header.ImageMessage = base.ImageMessage
			header.HasMediaAttachment = ptr.Ptr(true)
		case base.VideoMessage != nil:
			header.VideoMessage = base.VideoMessage
			header.HasMediaAttachment = ptr.Ptr(true)
		case base.DocumentMessage != nil:
			header.DocumentMessage = base.DocumentMessage
			header.HasMediaAttachment = ptr.Ptr(true)
		}
	case hs.Media != nil:
		frag, err := c.prepareMedia(ctx, to, hs.Media)
		if err != nil {
			return nil, "", err
		}
		switch {
		case frag.ImageMessage != nil:
			header.ImageMessage = frag.ImageMessage
		case frag.VideoMessage != nil:
			header.VideoMessage = frag.VideoMessage
		case frag.DocumentMessage != nil:
			header.DocumentMessage = frag.DocumentMessage
		default:
			return nil, "", invalidf("interactive header must resolve to an image, video, document, location or product")
		}
		header.HasMediaAttachment = ptr.Ptr(true)
	case hs.Location != nil:
		header.LocationMessage = locationMessage(hs.Location)
		header.HasMediaAttachment = ptr.Ptr(true)
	case hs.Product != nil:
		product, err := c.buildProduct(ctx, to, hs.Product)
		if err != nil {
			return nil, "", err
		}
		header.ProductMessage = product.ProductMessage
		header.HasMediaAttachment = ptr.Ptr(true)
	default:
		return nil, "", invalidf("interactive header must resolve to an image, video, document, location or product")
	}
	if header.Title == nil && header.Subtitle == nil && header.HasMediaAttachment == nil {
		return nil, bodyText, nil
	}
	return header, bodyText, nil
}

// nativeFlowParams assembles the shared params blob merged from the
// coupon, options sheet and audio footer extensions.
func (c *Compiler) nativeFlowParams(ctx context.Context, to types.JID, spec *InteractiveSpec) (*string, error) {
	params := make(map[string]any)
	if spec.Coupon != nil {
		params["coupon"] = map[string]any{
			"code":            spec.Coupon.Code,
			"expiration_time": spec.Coupon.ExpirationTime,
		}
	}
	if spec.OptionsSheet != nil {
		params["options_sheet"] = map[string]any{
			"title":   spec.OptionsSheet.Title,
			"options": spec.OptionsSheet.Options,
		}
	}
	if spec.AudioFooter != nil {
		media := *spec.AudioFooter
		media.Type = wamedia.MediaAudio
		frag, err := c.prepareMedia(ctx, to, &media)
		if err != nil {
			return nil, err
		}
		if frag.AudioMessage == nil {
			return nil, invalidf("interactive audio footer did not resolve to an audio fragment")
		}
		params["audio_attachment"] = frag.AudioMessage
	}
	if len(params) == 0 {
		return nil, nil
	}
	blob, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal native flow params: %w", err)
	}
	return ptr.Ptr(string(blob)), nil
}

// classifyNativeFlowButton maps a button spec to a named native-flow
// button by which payload field it carries, in id > copy > url > call
// precedence. Buttons carrying none pass through verbatim.
func classifyNativeFlowButton(spec NativeFlowButtonSpec) (*waproto.NativeFlowButton, error) {
	var name string
	var params map[string]string
	switch {
	case spec.ID != "":
		name = "quick_reply"
		params = map[string]string{"display_text": spec.DisplayText, "id": spec.ID}
	case spec.CopyCode != "":
		name = "cta_copy"
		params = map[string]string{"display_text": spec.DisplayText, "copy_code": spec.CopyCode}
	case spec.URL != "":
		name = "cta_url"
		params = map[string]string{
			"display_text": spec.DisplayText,
			"url":          spec.URL,
			"merchant_url": spec.URL,
		}
	case spec.Call != "":
		name = "cta_call"
		params = map[string]string{"display_text": spec.DisplayText, "phone_number": spec.Call}
	case spec.Name != "":
		paramsJSON := spec.ParamsJSON
		if paramsJSON == "" {
			paramsJSON = "{}"
		}
		return &waproto.NativeFlowButton{
			Name:             ptr.Ptr(spec.Name),
			ButtonParamsJSON: ptr.Ptr(paramsJSON),
		}, nil
	default:
		return nil, invalidf("native flow button %q has no payload", spec.DisplayText)
	}
	blob, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal native flow button params: %w", err)
	}
	return &waproto.NativeFlowButton{
		Name:             ptr.Ptr(name),
		ButtonParamsJSON: ptr.Ptr(string(blob)),
	}, nil
}

func baseText(msg *waproto.Message) string {
	switch {
	case msg == nil:
		return ""
	case msg.ExtendedTextMessage != nil:
		return ptr.Val(msg.ExtendedTextMessage.Text)
	case msg.ImageMessage != nil:
		return ptr.Val(msg.ImageMessage.Caption)
	case msg.VideoMessage != nil:
		return ptr.Val(msg.VideoMessage.Caption)
	case msg.DocumentMessage != nil:
		return ptr.Val(msg.DocumentMessage.Caption)
	default:
		return ""
	}
}
