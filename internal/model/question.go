package model

import "time"

// SecurityQuestion is a knowledge challenge gating the site. AnswerHash is a
// bcrypt hash of the trimmed, lower-cased expected answer and is never exposed
// outside the storage and challenge layers.
type SecurityQuestion struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Hint       string    `json:"hint,omitempty"`
	AnswerHash string    `json:"answer_hash"`
	CreatedAt  time.Time `json:"created_at"`
}
