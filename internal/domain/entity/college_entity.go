package entity

import "time"

// College admits accounts whose email domain equals EmailDomain.
// Creation and approval are owned by the admin console.
type College struct {
	ID          string
	Name        string
	EmailDomain string
	IsApproved  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
