// Package waid generates outbound message IDs and classifies destination
// JIDs for the compiler.
package waid

import (
	"encoding/hex"
	"strings"

	"go.mau.fi/util/random"
	"go.mau.fi/whatsmeow/types"
)

const messageIDPrefix = "3EB0"

// NewMessageID returns a fresh upstream-style message ID: the well-known
// prefix followed by 18 random bytes, uppercase hex.
func NewMessageID() string {
	return messageIDPrefix + strings.ToUpper(hex.EncodeToString(random.Bytes(18)))
}

// IsNewsletter reports whether the destination is a channel, which takes
// the unencrypted media path.
func IsNewsletter(jid types.JID) bool {
	return jid.Server == types.NewsletterServer
}

// IsGroup reports whether the destination is a group chat.
func IsGroup(jid types.JID) bool {
	return jid.Server == types.GroupServer
}

// IsStatusBroadcast reports whether the destination is the status
// broadcast list.
func IsStatusBroadcast(jid types.JID) bool {
	return jid == types.StatusBroadcastJID
}
