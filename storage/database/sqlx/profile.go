package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/volatiletech/null/v8"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/profile"
)

var profileColumns = []string{
	"id", "account_id", "bio", "location", "website", "phone_number", "expertise_areas",
	"years_experience", "education", "certifications", "is_tutor", "show_email_publicly",
	"allow_reviews", "created_at", "updated_at",
}

type profileRow struct {
	ID                string    `db:"id"`
	AccountID         string    `db:"account_id"`
	Bio               string    `db:"bio"`
	Location          string    `db:"location"`
	Website           string    `db:"website"`
	PhoneNumber       string    `db:"phone_number"`
	ExpertiseAreas    string    `db:"expertise_areas"`
	YearsExperience   null.Int  `db:"years_experience"`
	Education         string    `db:"education"`
	Certifications    string    `db:"certifications"`
	IsTutor           bool      `db:"is_tutor"`
	ShowEmailPublicly bool      `db:"show_email_publicly"`
	AllowReviews      bool      `db:"allow_reviews"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func toProfileRow(p profile.Profile) profileRow {
	return profileRow{
		ID:                p.ID,
		AccountID:         p.AccountID,
		Bio:               p.Bio,
		Location:          p.Location,
		Website:           p.Website,
		PhoneNumber:       p.PhoneNumber,
		ExpertiseAreas:    p.ExpertiseAreas,
		YearsExperience:   null.IntFromPtr(p.YearsExperience),
		Education:         p.Education,
		Certifications:    p.Certifications,
		IsTutor:           p.IsTutor,
		ShowEmailPublicly: p.ShowEmailPublicly,
		AllowReviews:      p.AllowReviews,
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
}

func (row profileRow) profile() profile.Profile {
	return profile.Profile{
		ID:                row.ID,
		AccountID:         row.AccountID,
		Bio:               row.Bio,
		Location:          row.Location,
		Website:           row.Website,
		PhoneNumber:       row.PhoneNumber,
		ExpertiseAreas:    row.ExpertiseAreas,
		YearsExperience:   row.YearsExperience.Ptr(),
		Education:         row.Education,
		Certifications:    row.Certifications,
		IsTutor:           row.IsTutor,
		ShowEmailPublicly: row.ShowEmailPublicly,
		AllowReviews:      row.AllowReviews,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}

type profileRepository struct {
	repo
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(exec core.DBExecutor) *profileRepository {
	return &profileRepository{repo{exec: exec}}
}

func (r profileRepository) CreateProfile(ctx context.Context, p profile.Profile, exec ...core.DBExecutor) (profile.Profile, error) {
	p.ID = newID()
	row := toProfileRow(p)
	q := psql.Insert("profiles").Columns(profileColumns...).Values(
		row.ID, row.AccountID, row.Bio, row.Location, row.Website, row.PhoneNumber, row.ExpertiseAreas,
		row.YearsExperience, row.Education, row.Certifications, row.IsTutor, row.ShowEmailPublicly,
		row.AllowReviews, row.CreatedAt, row.UpdatedAt,
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		if constraintOf(err) == "profiles_account_id_key" {
			return profile.Profile{}, profile.ErrProfileExists
		}
		return profile.Profile{}, trapUniqueErr(err, "inserting profile")
	}
	return row.profile(), nil
}

func (r profileRepository) GetProfileByAccount(ctx context.Context, accountID string, exec ...core.DBExecutor) (profile.Profile, error) {
	if !isUUID(accountID) {
		return profile.Profile{}, profile.ErrNotFound
	}
	var row profileRow
	b := psql.Select(profileColumns...).From("profiles").Where(sq.Eq{"account_id": accountID})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return profile.Profile{}, trapNoRowsErr(err, profile.ErrNotFound, "finding profile")
	}
	return row.profile(), nil
}

func (r profileRepository) UpdateProfile(ctx context.Context, p profile.Profile, exec ...core.DBExecutor) (profile.Profile, error) {
	row := toProfileRow(p)
	q := psql.Update("profiles").SetMap(map[string]interface{}{
		"bio":                 row.Bio,
		"location":            row.Location,
		"website":             row.Website,
		"phone_number":        row.PhoneNumber,
		"expertise_areas":     row.ExpertiseAreas,
		"years_experience":    row.YearsExperience,
		"education":           row.Education,
		"certifications":      row.Certifications,
		"is_tutor":            row.IsTutor,
		"show_email_publicly": row.ShowEmailPublicly,
		"allow_reviews":       row.AllowReviews,
		"updated_at":          row.UpdatedAt,
	}).Where(sq.Eq{"id": row.ID})

	n, err := r.execute(ctx, r.getExec(exec), q)
	if err != nil {
		return profile.Profile{}, trapUniqueErr(err, "updating profile")
	}
	if n == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return row.profile(), nil
}
