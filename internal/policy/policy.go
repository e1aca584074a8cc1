// Package policy decides which identities may act on a message. The checks
// are pure; callers resolve the message first so a missing message is
// reported as not found before any authorization decision is made.
package policy

import "messagely/internal/domain"

// CanView reports whether identity is the sender or the recipient.
func CanView(identity string, msg *domain.Message) bool {
	if identity == "" || msg == nil {
		return false
	}
	return identity == msg.FromUsername || identity == msg.ToUsername
}

// CanMarkRead reports whether identity is the recipient.
func CanMarkRead(identity string, msg *domain.Message) bool {
	if identity == "" || msg == nil {
		return false
	}
	return identity == msg.ToUsername
}

// CanAccessMailbox reports whether identity may read or export the
// mailbox owned by username.
func CanAccessMailbox(identity, username string) bool {
	return identity != "" && identity == username
}
