package domain

import "time"

// Message is a direct message between two registered users.
// ReadAt stays nil until the recipient marks the message read and is
// never changed afterwards.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time

	// Populated by store lookups that join the users table.
	FromUser *Profile
	ToUser   *Profile
}

// IsRead reports whether the recipient has already marked the message read.
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}

// Export describes a mailbox snapshot uploaded to object storage.
type Export struct {
	Key       string
	Location  string
	URL       string
	Messages  int
	CreatedAt time.Time
}
