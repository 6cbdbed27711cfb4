package model

import "time"

// AdminStatus is the approval state of an admin account
type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

// AdminAccount is a back-office account. The first account ever registered is
// auto-approved; every later one starts pending and must be approved by an
// existing admin before it can log in.
type AdminAccount struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"password_hash"`
	Status       AdminStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}
