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
	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// applyWraps nests the compiled content per the descriptor's wrapper
// modifiers. At most one inner modifier applies (group status wins over
// interactive-as-template), followed by at most one of the
// ephemeral/view-once family.
func (c *Compiler) applyWraps(desc *Descriptor, content *waproto.Message) (*waproto.Message, error) {
	if content.DocumentMessage != nil && content.DocumentMessage.Caption != nil {
		content = waproto.Wrap(waproto.WrapperDocumentWithCaption, content)
	}
	switch {
	case desc.GroupStatus:
		content = waproto.Wrap(waproto.WrapperGroupStatusV2, content)
	case desc.InteractiveAsTempl:
		if content.InteractiveMessage == nil {
			return nil, invalidf("interactiveAsTemplate requires interactive content")
		}
		content = &waproto.Message{TemplateMessage: &waproto.TemplateMessage{
			InteractiveMessageTemplate: content.InteractiveMessage,
		}}
	}
	switch {
	case desc.Ephemeral:
		content = waproto.Wrap(waproto.WrapperEphemeral, content)
	case c.DisableViewOnce:
	case desc.ViewOnce:
		content = waproto.Wrap(waproto.WrapperViewOnce, content)
	case desc.ViewOnceV2:
		content = waproto.Wrap(waproto.WrapperViewOnceV2, content)
	case desc.ViewOnceV2Ext:
		content = waproto.Wrap(waproto.WrapperViewOnceV2Extension, content)
	}
	return content, nil
}

// maxUnwrapDepth bounds Normalize against adversarial nesting.
const maxUnwrapDepth = 5

// Normalize strips message-shaped wrappers until it reaches real content.
// Each wrapper kind is unwrapped at most once and nesting deeper than
// maxUnwrapDepth is left as-is, so malformed input cannot loop.
func Normalize(msg *waproto.Message) *waproto.Message {
	seen := make(map[waproto.WrapperKind]struct{}, maxUnwrapDepth)
	for range maxUnwrapDepth {
		kind, fpm, ok := msg.Wrapped()
		if !ok || fpm.Message == nil {
			return msg
		}
		if _, dup := seen[kind]; dup {
			return msg
		}
		seen[kind] = struct{}{}
		msg = fpm.Message
	}
	return msg
}

// ExtractContent normalizes the message and flattens button, template and
// product containers down to the media or text they carry. Used when the
// inner payload matters rather than the container (forwarding, quoting).
func ExtractContent(msg *waproto.Message) *waproto.Message {
	msg = Normalize(msg)
	switch {
	case msg == nil:
		return nil
	case msg.ButtonsMessage != nil:
		bm := msg.ButtonsMessage
		switch {
		case bm.ImageMessage != nil:
			return &waproto.Message{ImageMessage: bm.ImageMessage}
		case bm.VideoMessage != nil:
			return &waproto.Message{VideoMessage: bm.VideoMessage}
		case bm.DocumentMessage != nil:
			return &waproto.Message{DocumentMessage: bm.DocumentMessage}
		case bm.LocationMessage != nil:
			return &waproto.Message{LocationMessage: bm.LocationMessage}
		case bm.ContentText != nil:
			return &waproto.Message{ExtendedTextMessage: &waproto.ExtendedTextMessage{
				Text:        bm.ContentText,
				ContextInfo: bm.ContextInfo,
			}}
		}
		return msg
	case msg.TemplateMessage != nil && msg.TemplateMessage.HydratedTemplate != nil:
		tpl := msg.TemplateMessage.HydratedTemplate
		switch {
		case tpl.ImageMessage != nil:
			return &waproto.Message{ImageMessage: tpl.ImageMessage}
		case tpl.VideoMessage != nil:
			return &waproto.Message{VideoMessage: tpl.VideoMessage}
		case tpl.DocumentMessage != nil:
			return &waproto.Message{DocumentMessage: tpl.DocumentMessage}
		case tpl.LocationMessage != nil:
			return &waproto.Message{LocationMessage: tpl.LocationMessage}
		case tpl.HydratedContentText != nil:
			return &waproto.Message{ExtendedTextMessage: &waproto.ExtendedTextMessage{
				Text: tpl.HydratedContentText,
			}}
		}
		return msg
	case msg.ProductMessage != nil && msg.ProductMessage.Product != nil &&
		msg.ProductMessage.Product.ProductImage != nil:
		return &waproto.Message{ImageMessage: msg.ProductMessage.Product.ProductImage}
	default:
		return msg
	}
}
