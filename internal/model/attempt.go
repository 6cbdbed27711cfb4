package model

import "time"

// AuthAttempt records one guest challenge verification, successful or not.
// The log is append-only; lockout decisions read the trailing window via
// age-filtered counts, so nothing is ever mutated or pruned in place.
type AuthAttempt struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
