package application

import "github.com/oksasatya/campus-connect/internal/domain/entity"

// PublicAccount is the redacted account view used in every response.
// It never carries the password hash.
type PublicAccount struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	IsAdmin     bool           `json:"isAdmin"`
	IsOnboarded bool           `json:"isOnboarded"`
	College     *PublicCollege `json:"college"`
}

type PublicCollege struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile carries the onboarding fields for the account's own view.
type Profile struct {
	Bio               string   `json:"bio"`
	Interests         []string `json:"interests"`
	Photos            []string `json:"photos"`
	PreferredAgeMin   int      `json:"preferredAgeMin"`
	PreferredAgeMax   int      `json:"preferredAgeMax"`
	PreferredDistance int      `json:"preferredDistance"`
	PreferredGender   string   `json:"preferredGender"`
}

// CollegeOption is one entry of the signup college picker.
type CollegeOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EmailDomain string `json:"emailDomain"`
}

func NewPublicAccount(a *entity.Account) PublicAccount {
	v := PublicAccount{
		ID:          a.ID,
		Name:        a.Name,
		Username:    a.Username,
		Email:       a.Email,
		IsAdmin:     a.IsAdmin,
		IsOnboarded: a.IsOnboarded,
	}
	if a.College != nil {
		v.College = &PublicCollege{ID: a.College.ID, Name: a.College.Name}
	} else if a.CollegeID != "" {
		v.College = &PublicCollege{ID: a.CollegeID}
	}
	return v
}

func NewProfile(a *entity.Account) Profile {
	interests := a.Interests
	if interests == nil {
		interests = []string{}
	}
	photos := a.Photos
	if photos == nil {
		photos = []string{}
	}
	return Profile{
		Bio:               a.Bio,
		Interests:         interests,
		Photos:            photos,
		PreferredAgeMin:   a.Preferences.AgeMin,
		PreferredAgeMax:   a.Preferences.AgeMax,
		PreferredDistance: a.Preferences.Distance,
		PreferredGender:   string(a.Preferences.Gender),
	}
}
