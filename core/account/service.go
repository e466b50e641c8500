package account

import (
	"context"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/profile"
)

var (
	// errors
	ErrNotFound       = errors.New("account not found")
	ErrEmailExists    = errors.New("an account with this email already exists")
	ErrUsernameExists = errors.New("an account with this username already exists")
	ErrInvalidReset   = errors.New("invalid password reset link")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrUsernameExists or ErrEmailExists when another account,
		// other than the excluded ones, holds `username` or `email`. Empty values are not checked.
		CheckUniqueness(ctx context.Context, username, email string, excluded []Account, exec ...core.DBExecutor) error
		CreateAccount(ctx context.Context, acc Account, exec ...core.DBExecutor) (Account, error)
		GetAccount(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Account, error)
		QueryAccountsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]Account, error)
		UpdateAccount(ctx context.Context, acc Account, exec ...core.DBExecutor) (Account, error)
	}

	// ProfileCreator creates the profile every account owns.
	ProfileCreator interface {
		CreateForAccount(ctx context.Context, accountID string, exec ...core.DBExecutor) (profile.Profile, error)
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, username, email string, excluded ...Account) error
		Create(ctx context.Context, na NewAccount) (Account, error)
		GetByID(ctx context.Context, id string) (Account, error)
		GetByUsername(ctx context.Context, username string) (Account, error)
		GetByUsernameOrEmail(ctx context.Context, uname string) (Account, error)
		GetByIDs(ctx context.Context, ids ...string) (map[string]Account, error)
		SetLastLogin(ctx context.Context, acc Account) (Account, error)
		UpdateDetails(ctx context.Context, acc Account, ud UpdateDetails) (Account, error)
		SetPassword(ctx context.Context, acc Account, pwd string) (Account, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, data ResetPassword) error
		ValidateNew(ctx context.Context, validate *validator.Validate, na *NewAccount) error
	}

	Service struct {
		tx       core.Transactor
		repo     Repository
		profiles ProfileCreator
		mailSvc  core.EmailService
		tokens   tokenGenerator
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	tx core.Transactor,
	repo Repository,
	profiles ProfileCreator,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(tx, "tx"),
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(profiles, "profiles"),
		vala.IsNotNil(conf, "conf"),
	).CheckAndPanic()

	return &Service{
		tx:       tx,
		repo:     repo,
		profiles: profiles,
		mailSvc:  mailSvc,
		tokens: tokenGenerator{
			secretKey: []byte(conf.SecretKey),
			timeout:   conf.PasswordResetTimeoutDelta,
		},
	}
}

func (svc *Service) CheckUniqueness(ctx context.Context, uname, email string, exclAccs ...Account) error {
	if err := svc.repo.CheckUniqueness(ctx, uname, email, exclAccs); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return errors.Wrap(err, "checking uniqueness")
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: errors.Cause(err).Error()})
	}
	return nil
}

// ValidateNew cleans and validates `na`, including username and email uniqueness.
func (svc *Service) ValidateNew(ctx context.Context, validate *validator.Validate, na *NewAccount) error {
	na.Clean()
	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, na.Username, na.Email)
}

// Create stores a new active account, then its profile, in the same transaction.
// `na` must have been validated.
func (svc *Service) Create(ctx context.Context, na NewAccount) (Account, error) {
	now := time.Now().UTC()
	acc := Account{
		Username:  na.Username,
		Email:     na.Email,
		FirstName: na.FirstName,
		LastName:  na.LastName,
		IsActive:  true,
		Roles:     na.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acc.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "setting password")
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if acc, err = svc.repo.CreateAccount(ctx, acc, exec); err != nil {
			return errors.Wrap(err, "inserting account")
		}
		if _, err = svc.profiles.CreateForAccount(ctx, acc.ID, exec); err != nil {
			return errors.Wrap(err, "creating profile")
		}
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return acc, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccount(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Account, error) {
	return svc.repo.GetAccount(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Account, error) {
	return svc.repo.GetAccount(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Account, error) {
	return svc.repo.GetAccount(ctx, GetFilter{UsernameOrEmail: core.CleanString(uname, true /* lower */)})
}

// GetByIDs returns the found accounts keyed by ID; unknown IDs are skipped.
func (svc *Service) GetByIDs(ctx context.Context, ids ...string) (map[string]Account, error) {
	accs, err := svc.repo.QueryAccountsByID(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}
	res := make(map[string]Account, len(accs))
	for _, acc := range accs {
		res[acc.ID] = acc
	}
	return res, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, acc Account) (Account, error) {
	acc.LastLogin = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acc)
}

// UpdateDetails sets names and email; `ud` must have been validated.
func (svc *Service) UpdateDetails(ctx context.Context, acc Account, ud UpdateDetails) (Account, error) {
	if ud.Email != "" && ud.Email != acc.Email {
		if err := svc.CheckUniqueness(ctx, "", ud.Email, acc); err != nil {
			return Account{}, err
		}
	}
	acc.FirstName = ud.FirstName
	acc.LastName = ud.LastName
	acc.Email = ud.Email
	acc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acc)
}

func (svc *Service) SetPassword(ctx context.Context, acc Account, pwd string) (Account, error) {
	if err := acc.SetPassword(pwd); err != nil {
		return Account{}, errors.Wrap(err, "setting password")
	}
	acc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acc)
}

// RequestPasswordReset emails a reset link to the active account holding `email`.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !acc.IsActive {
		return ErrNotFound
	}
	go svc.sendPasswordResetMail(acc)
	return nil
}

func (svc *Service) sendPasswordResetMail(acc Account) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: acc.FullName(), Address: acc.Email}},
		Subject:      "Password reset",
		TemplateName: "password_reset",
		TemplateData: map[string]string{
			"Name":     acc.FullName(),
			"Username": acc.Username,
			"UID":      EncodeUID(acc),
			"Token":    svc.tokens.makeToken(acc),
		},
	})
}

func (svc *Service) ResetPassword(ctx context.Context, data ResetPassword) error {
	id, err := decodeUID(data.UID)
	if err != nil {
		return core.NewValidationError(ErrInvalidReset)
	}
	acc, err := svc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(ErrInvalidReset)
		}
		return errors.Wrap(err, "finding account by ID")
	}
	if err = svc.tokens.verifyToken(acc, data.Token); err != nil {
		return core.NewValidationError(ErrInvalidReset)
	}
	_, err = svc.SetPassword(ctx, acc, data.Password)
	return err
}
