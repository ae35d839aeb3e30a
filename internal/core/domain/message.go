package domain

import "time"

// Message is a single chat entry. Messages are immutable after creation; only
// the read flag on the receiving party's copy may change.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	JobID      string    `json:"job_id,omitempty"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
	Read       bool      `json:"read"`
}

// ConversationPreview is a derived, non-persisted summary of one conversation
// as seen from a particular user's ledger.
type ConversationPreview struct {
	Partner     User
	LastMessage Message
	UnreadCount int
}
