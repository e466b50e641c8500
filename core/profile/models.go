package profile

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
)

// Profile extends an account with personal and professional details.
type Profile struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"account_id"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	Website           string    `json:"website"`
	PhoneNumber       string    `json:"phone_number"`
	ExpertiseAreas    string    `json:"expertise_areas"` // comma-separated
	YearsExperience   *int      `json:"years_experience"`
	Education         string    `json:"education"`
	Certifications    string    `json:"certifications"`
	IsTutor           bool      `json:"is_tutor"`
	ShowEmailPublicly bool      `json:"show_email_publicly"`
	AllowReviews      bool      `json:"allow_reviews"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateProfile defines what information may be provided to modify a Profile.
// Every field is replaced, as with a submitted form.
type UpdateProfile struct {
	Bio               string `json:"bio" validate:"max=500"`
	Location          string `json:"location" validate:"max=100"`
	Website           string `json:"website" validate:"omitempty,url,max=200"`
	PhoneNumber       string `json:"phone_number" validate:"max=15"`
	ExpertiseAreas    string `json:"expertise_areas"`
	YearsExperience   *int   `json:"years_experience" validate:"omitempty,min=0"`
	Education         string `json:"education"`
	Certifications    string `json:"certifications"`
	IsTutor           bool   `json:"is_tutor"`
	ShowEmailPublicly bool   `json:"show_email_publicly"`
	AllowReviews      bool   `json:"allow_reviews"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Bio = core.CleanString(up.Bio)
	up.Location = core.CleanString(up.Location)
	up.Website = core.CleanString(up.Website)
	up.PhoneNumber = core.CleanString(up.PhoneNumber)
	up.ExpertiseAreas = core.CleanString(up.ExpertiseAreas)
	up.Education = core.CleanString(up.Education)
	up.Certifications = core.CleanString(up.Certifications)
	return validate.Struct(up)
}

// Form returns the current values as an edit form.
func (p Profile) Form() UpdateProfile {
	return UpdateProfile{
		Bio:               p.Bio,
		Location:          p.Location,
		Website:           p.Website,
		PhoneNumber:       p.PhoneNumber,
		ExpertiseAreas:    p.ExpertiseAreas,
		YearsExperience:   p.YearsExperience,
		Education:         p.Education,
		Certifications:    p.Certifications,
		IsTutor:           p.IsTutor,
		ShowEmailPublicly: p.ShowEmailPublicly,
		AllowReviews:      p.AllowReviews,
	}
}
