package model

import "time"

// The record types below are thin pass-through collaborators: plain CRUD rows
// whose only interaction with the core is reporting activity experience to
// the companion engine when they are created or completed.

// Message is a guestbook entry.
type Message struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Memo is a shared to-do item.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo is a photo wall entry. The binary lives elsewhere; only the URL and
// caption pass through here.
type Photo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
