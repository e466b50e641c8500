package review

import (
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
)

const (
	MinRating = 1
	MaxRating = 10
)

var (
	ratingTag  = "rating"
	ratingText = fmt.Sprintf("{0} must be between %d and %d", MinRating, MaxRating)
)

// Review is an account's rating of another account.
type Review struct {
	ID        string    `json:"id"`
	TargetID  string    `json:"target_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Describe renders the review as "Review by <author> for <target> (<rating>/10)".
func (r Review) Describe(author, target string) string {
	return fmt.Sprintf("Review by %s for %s (%d/%d)", author, target, r.Rating, MaxRating)
}

// Fields are the review values an author submits, on creation and on edit.
type Fields struct {
	Rating int    `json:"rating" validate:"rating"`
	Title  string `json:"title" validate:"required,notblank,max=100"`
	Body   string `json:"body" validate:"required,notblank"`
}

func (f *Fields) Validate(validate *validator.Validate) error {
	f.Title = core.CleanString(f.Title)
	return validate.Struct(f)
}

func (r Review) Fields() Fields {
	return Fields{Rating: r.Rating, Title: r.Title, Body: r.Body}
}

// Stats summarises the reviews of one target. Average is nil when there are none.
type Stats struct {
	Total   int      `json:"total"`
	Average *float64 `json:"average"`
}

// InitValidators registers the review validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(ratingTag, ratingValidation)
	core.RegisterCustomTranslation(validate, translator, ratingTag, ratingText)
}

func ratingValidation(fl validator.FieldLevel) bool {
	r := fl.Field().Int()
	return r >= MinRating && r <= MaxRating
}
