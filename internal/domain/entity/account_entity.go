package entity

import (
	"time"
)

// Account is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and never leaves the service layer.
// IsAdmin is only ever set out-of-band (seed or manual SQL).
type Account struct {
	ID           string
	Name         string
	Username     string // stored lowercase
	Email        string
	PasswordHash string
	CollegeID    string
	College      *College

	Bio       string
	Interests []string
	Photos    []string

	Preferences Preferences

	IsAdmin     bool
	IsOnboarded bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Preferences is the match preference block written by preference setup.
type Preferences struct {
	AgeMin   int
	AgeMax   int
	Distance int
	Gender   Gender
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAll    Gender = "all"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderAll:
		return true
	}
	return false
}

// ProfileComplete reports whether bio, interests and photos are all present.
func (a *Account) ProfileComplete() bool {
	return a.Bio != "" && len(a.Interests) > 0 && len(a.Photos) > 0
}
