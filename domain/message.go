package domain

import "time"

// ChatMessage is one entry of the shared team channel. Messages are
// immutable once appended; there is no edit or delete.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    User      `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
