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

// Kind is the resolved primary message kind.
type Kind int

const (
	KindText Kind = iota
	KindContacts
	KindLocation
	KindReact
	KindDelete
	KindForward
	KindDisappearing
	KindGroupInvite
	KindStickerPack
	KindPin
	KindKeep
	KindFlowReply
	KindButtonReply
	KindListReply
	KindPtv
	KindProduct
	KindEvent
	KindPoll
	KindPollResult
	KindPollUpdate
	KindSharePhoneNumber
	KindRequestPhoneNumber
	KindLimitSharing
	KindPaymentInvite
	KindOrder
	KindAlbum
	KindRaw
	KindMedia
)

// classify resolves the descriptor to exactly one kind by testing primary
// tags in a fixed, total order. The first match wins; a descriptor with
// no matching tag falls back to media.
func classify(desc *Descriptor) (Kind, error) {
	switch {
	case desc.Text != nil:
		return KindText, nil
	case desc.Contacts != nil:
		return KindContacts, nil
	case desc.Location != nil:
		return KindLocation, nil
	case desc.React != nil:
		return KindReact, nil
	case desc.Delete != nil:
		return KindDelete, nil
	case desc.Forward != nil:
		return KindForward, nil
	case desc.Disappearing != nil:
		return KindDisappearing, nil
	case desc.GroupInvite != nil:
		return KindGroupInvite, nil
	case desc.Stickers != nil:
		return KindStickerPack, nil
	case desc.Pin != nil:
		return KindPin, nil
	case desc.Keep != nil:
		return KindKeep, nil
	case desc.FlowReply != nil:
		return KindFlowReply, nil
	case desc.ButtonReply != nil:
		return KindButtonReply, nil
	case desc.ListReply != nil:
		return KindListReply, nil
	case desc.Ptv != nil:
		return KindPtv, nil
	case desc.Product != nil:
		return KindProduct, nil
	case desc.Event != nil:
		return KindEvent, nil
	case desc.Poll != nil:
		return KindPoll, nil
	case desc.PollResult != nil:
		return KindPollResult, nil
	case desc.PollUpdate != nil:
		return KindPollUpdate, nil
	case desc.SharePhoneNumber:
		return KindSharePhoneNumber, nil
	case desc.RequestPhoneNumber:
		return KindRequestPhoneNumber, nil
	case desc.LimitSharing != nil:
		return KindLimitSharing, nil
	case desc.PaymentInvite != nil:
		return KindPaymentInvite, nil
	case desc.Order != nil:
		return KindOrder, nil
	case desc.Album != nil:
		return KindAlbum, nil
	case desc.Raw != nil:
		return KindRaw, nil
	case desc.Media != nil:
		return KindMedia, nil
	default:
		return 0, invalidf("message descriptor does not contain any sendable content")
	}
}
